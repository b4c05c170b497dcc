package duckdbrt

import (
	"testing"
	"time"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

func TestExtractMaterializationBodies_CapturesBody(t *testing.T) {
	sql := `WITH totals AS MATERIALIZE_CLOSED (SELECT 1 AS k, 'a' AS v) SELECT * FROM totals`
	bodies := extractMaterializationBodies(sql)
	if bodies["totals"] != `SELECT 1 AS k, 'a' AS v` {
		t.Errorf("got %+v", bodies)
	}
}

func TestExtractMaterializationBodies_NoMatch(t *testing.T) {
	bodies := extractMaterializationBodies(`SELECT 1`)
	if len(bodies) != 0 {
		t.Errorf("got %+v", bodies)
	}
}

func TestSubstituteRuntimePlaceholders_Mat(t *testing.T) {
	layout := entities.NewRootLayout("/root")
	sql := `SELECT * FROM parquet_scan({{mat totals}})`
	got := substituteRuntimePlaceholders(sql, layout, "reports__x", nil, nil)
	want := `SELECT * FROM parquet_scan('/root/cache/materialize/reports__x__totals.parquet')`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSubstituteRuntimePlaceholders_Import(t *testing.T) {
	layout := entities.NewRootLayout("/root")
	sql := `SELECT * FROM parquet_scan({{import geo}})`
	got := substituteRuntimePlaceholders(sql, layout, "x", map[string]string{"geo": "/root/cache/artifacts/shared__geo.parquet"}, nil)
	want := `SELECT * FROM parquet_scan('/root/cache/artifacts/shared__geo.parquet')`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSubstituteRuntimePlaceholders_UnknownImportLeftUntouched(t *testing.T) {
	layout := entities.NewRootLayout("/root")
	sql := `SELECT {{import missing}}`
	got := substituteRuntimePlaceholders(sql, layout, "x", nil, nil)
	if got != sql {
		t.Errorf("expected untouched, got %q", got)
	}
}

func TestSubstituteRuntimePlaceholders_Bind(t *testing.T) {
	layout := entities.NewRootLayout("/root")
	sql := `SELECT * FROM parquet_scan({{bind ids}}) WHERE x IN {{bind vals}}`
	got := substituteRuntimePlaceholders(sql, layout, "x", nil, map[string]string{
		"ids":  "'/root/cache/bindings/x__ids.parquet'",
		"vals": "(1, 2, 3)",
	})
	want := `SELECT * FROM parquet_scan('/root/cache/bindings/x__ids.parquet') WHERE x IN (1, 2, 3)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSubstituteRuntimePlaceholders_UnresolvedBindLeftUntouched(t *testing.T) {
	layout := entities.NewRootLayout("/root")
	sql := `SELECT {{bind ids}}`
	got := substituteRuntimePlaceholders(sql, layout, "x", nil, nil)
	if got != sql {
		t.Errorf("expected untouched, got %q", got)
	}
}

func TestBindKeyExpr_UsesKeySQLVerbatim(t *testing.T) {
	entry := entities.BindingSpec{KeySQL: "current_date"}
	got, err := bindKeyExpr(entry, nil)
	if err != nil || got != "current_date" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestBindKeyExpr_RendersKeyParamValue(t *testing.T) {
	entry := entities.BindingSpec{KeyParam: "Region"}
	got, err := bindKeyExpr(entry, map[string]any{"Region": "west"})
	if err != nil || got != "'west'" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestBindKeyExpr_MissingKeyParamYieldsNull(t *testing.T) {
	entry := entities.BindingSpec{KeyParam: "Region"}
	got, err := bindKeyExpr(entry, map[string]any{})
	if err != nil || got != "NULL" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestSelectPassParams_FiltersToAllowedNames(t *testing.T) {
	payload := map[string]any{"Region": "west", "Limit": 10}
	got := selectPassParams(payload, []string{"Region"})
	if len(got) != 1 || got["Region"] != "west" {
		t.Errorf("got %+v", got)
	}
}

func TestSelectPassParams_HonorsClientPrefix(t *testing.T) {
	payload := map[string]any{"__client__Region": "west"}
	got := selectPassParams(payload, []string{"Region"})
	if got["__client__Region"] != "west" {
		t.Errorf("got %+v", got)
	}
}

func TestSelectPassParams_EmptyListYieldsNil(t *testing.T) {
	if got := selectPassParams(map[string]any{"Region": "west"}, nil); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestFoldPayload_BareWinsOverClientVariant(t *testing.T) {
	payload := map[string]any{"Widget": []any{2}, "__client__Widget": []any{9}}
	values, err := FoldPayload(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := values["__client__Widget"]; ok {
		t.Error("client-only variant should never reach values")
	}
	list, ok := values["Widget"].([]any)
	if !ok || len(list) != 1 || list[0] != 2 {
		t.Errorf("got %+v", values)
	}
}

func TestFoldPayload_ClientOnlyLeavesValueAbsent(t *testing.T) {
	payload := map[string]any{"__client__Widget": []any{2}}
	values, err := FoldPayload(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := values["Widget"]; ok {
		t.Error("expected Widget absent from server-side values")
	}
	if len(values) != 0 {
		t.Errorf("got %+v", values)
	}
}

func TestFoldPayload_DuplicateCaseInsensitiveKeyFails(t *testing.T) {
	payload := map[string]any{"Widget": 1, "widget": 2}
	_, err := FoldPayload(payload)
	if err == nil {
		t.Fatal("expected error")
	}
	taxErr, ok := err.(*entities.TaxonomyError)
	if !ok || taxErr.Code != entities.CodeDuplicateParamKey {
		t.Errorf("got %v", err)
	}
}

func TestTTLFor_ReportOverride(t *testing.T) {
	report := entities.Report{Metadata: map[entities.MetadataBlock]any{
		entities.BlockCache: map[string]any{"ttl_seconds": 45},
	}}
	if got := ttlFor(report, entities.DefaultCacheTTL); got.Seconds() != 45 {
		t.Errorf("got %v", got)
	}
}

func TestTTLFor_FallsBackWhenAbsent(t *testing.T) {
	if got := ttlFor(entities.Report{}, entities.DefaultCacheTTL); got != entities.DefaultCacheTTL {
		t.Errorf("got %v", got)
	}
}

func TestTTLFor_UsesCustomFallback(t *testing.T) {
	custom := 90 * time.Second
	if got := ttlFor(entities.Report{}, custom); got != custom {
		t.Errorf("got %v, want %v", got, custom)
	}
}
