package reportparser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

func writeReport(t *testing.T, sql string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.sql")
	if err := os.WriteFile(path, []byte(sql), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParser_Parse_MinimalReport(t *testing.T) {
	sql := `
/***PARAMS
Region:
  type: str
***/
SELECT * FROM customers WHERE region = {{param Region}}
`
	path := writeReport(t, sql)
	report, err := New().Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Parameters) != 1 || report.Parameters[0].Name != "Region" {
		t.Fatalf("got params %+v", report.Parameters)
	}
	if report.Parameters[0].Scope != entities.ScopeData {
		t.Errorf("expected inferred data scope, got %v", report.Parameters[0].Scope)
	}
}

func TestParser_Parse_ViewScopeInference(t *testing.T) {
	sql := `
/***PARAMS
Limit:
  type: int
***/
SELECT * FROM customers LIMIT 10
`
	path := writeReport(t, sql)
	report, err := New().Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Parameters[0].Scope != entities.ScopeView {
		t.Errorf("expected view scope, got %v", report.Parameters[0].Scope)
	}
}

func TestParser_Parse_UnsupportedBlock(t *testing.T) {
	sql := `
/***BOGUS
foo: 1
***/
SELECT 1
`
	path := writeReport(t, sql)
	_, err := New().Parse(context.Background(), path)
	assertTaxonomyCode(t, err, entities.CodeUnsupportedBlock)
}

func TestParser_Parse_MultipleStatementsRejected(t *testing.T) {
	sql := `SELECT 1; SELECT 2;`
	path := writeReport(t, sql)
	_, err := New().Parse(context.Background(), path)
	assertTaxonomyCode(t, err, entities.CodeMultipleStatements)
}

func TestParser_Parse_DuplicateParamNameCaseInsensitive(t *testing.T) {
	sql := `
/***PARAMS
Region:
  type: str
region:
  type: str
***/
SELECT 1
`
	path := writeReport(t, sql)
	_, err := New().Parse(context.Background(), path)
	assertTaxonomyCode(t, err, entities.CodeDuplicateId)
}

func TestParser_Parse_IllegalSQLRejected(t *testing.T) {
	sql := `DELETE FROM customers`
	path := writeReport(t, sql)
	_, err := New().Parse(context.Background(), path)
	assertTaxonomyCode(t, err, entities.CodeIllegalSQL)
}

func TestParser_Parse_CopyToParquetAllowed(t *testing.T) {
	sql := `COPY (SELECT 1) TO 'out.parquet' (FORMAT parquet)`
	path := writeReport(t, sql)
	if _, err := New().Parse(context.Background(), path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParser_Parse_ParquetScanConcatenationRejected(t *testing.T) {
	sql := `SELECT * FROM parquet_scan('base/' || 'x.parquet')`
	path := writeReport(t, sql)
	_, err := New().Parse(context.Background(), path)
	assertTaxonomyCode(t, err, entities.CodeBadParquetPath)
}

func TestParser_Parse_AppliesToWrapperRequiresBaseCTE(t *testing.T) {
	sql := `
/***PARAMS
Region:
  type: str
  applies_to:
    cte: regions
    mode: wrapper
***/
WITH regions AS (SELECT * FROM regions_base WHERE region = {{param Region}})
SELECT * FROM regions
`
	path := writeReport(t, sql)
	_, err := New().Parse(context.Background(), path)
	assertTaxonomyCode(t, err, entities.CodeUnknownRef)
}

func TestParser_Parse_AppliesToWrapperResolved(t *testing.T) {
	sql := `
/***PARAMS
Region:
  type: str
  applies_to:
    cte: regions
    mode: wrapper
***/
WITH regions_base AS (SELECT * FROM raw_regions),
regions AS (SELECT * FROM regions_base WHERE region = {{param Region}})
SELECT * FROM regions
`
	path := writeReport(t, sql)
	if _, err := New().Parse(context.Background(), path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParser_Parse_RoundTripIdempotentOnSQL(t *testing.T) {
	sql := `
/***PARAMS
Region:
  type: str
***/
SELECT * FROM customers WHERE region = {{param Region}}
`
	path := writeReport(t, sql)
	first, err := New().Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := parseReportSQL(path, "/***PARAMS\nRegion:\n  type: str\n***/\n"+first.SQL)
	if err != nil {
		t.Fatalf("unexpected error on re-parse: %v", err)
	}
	if first.SQL != second.SQL {
		t.Errorf("re-parse SQL mismatch:\n%q\nvs\n%q", first.SQL, second.SQL)
	}
}

func TestParser_Parse_MissingFile(t *testing.T) {
	_, err := New().Parse(context.Background(), filepath.Join(t.TempDir(), "missing.sql"))
	assertTaxonomyCode(t, err, entities.CodePathMissing)
}
