package entities

import (
	"path/filepath"
	"testing"
)

func TestExecutionResult_AsPayload(t *testing.T) {
	root := "/data/root"
	r := ExecutionResult{
		Base: filepath.Join(root, "cache", "artifacts", "widgets.parquet"),
		Materialized: map[string]string{
			"filtered": filepath.Join(root, "cache", "materialize", "widgets__filtered.parquet"),
		},
		LiteralSources: map[string]string{},
		Bindings:       map[string]string{},
	}

	payload := r.AsPayload(root)

	if payload["base_parquet"] != filepath.Join("cache", "artifacts", "widgets.parquet") {
		t.Errorf("base_parquet = %v", payload["base_parquet"])
	}

	mats, ok := payload["materialize"].(map[string]string)
	if !ok {
		t.Fatalf("materialize is not a map[string]string: %T", payload["materialize"])
	}
	if mats["filtered"] != filepath.Join("cache", "materialize", "widgets__filtered.parquet") {
		t.Errorf("materialize[filtered] = %q", mats["filtered"])
	}
}

func TestErrorPayload(t *testing.T) {
	e := ErrorPayload{Code: "runtime_error", Message: "DuckDB execution failed"}
	if e.Code != "runtime_error" {
		t.Errorf("Code = %q", e.Code)
	}
}
