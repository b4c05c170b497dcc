package entities

import "testing"

func TestReport_Bindings(t *testing.T) {
	r := Report{
		Metadata: map[MetadataBlock]any{
			BlockBindings: []any{
				map[string]any{
					"id": "K", "source": "vals", "key_column": "k",
					"value_column": "v", "kind": "demo", "key_param": "P",
				},
			},
		},
	}
	bindings := r.Bindings()
	if len(bindings) != 1 {
		t.Fatalf("got %d bindings", len(bindings))
	}
	if bindings[0].ID != "K" || bindings[0].KeyParam != "P" || bindings[0].KeyColumn != "k" {
		t.Errorf("got %+v", bindings[0])
	}
}

func TestReport_Imports(t *testing.T) {
	r := Report{
		Metadata: map[MetadataBlock]any{
			BlockImports: []any{
				map[string]any{"id": "geo", "report": "shared/geo.sql", "pass_params": []any{"Region"}},
			},
		},
	}
	imports := r.Imports()
	if len(imports) != 1 {
		t.Fatalf("got %d imports", len(imports))
	}
	if imports[0].ID != "geo" || imports[0].Path != "shared/geo.sql" || len(imports[0].PassParams) != 1 {
		t.Errorf("got %+v", imports[0])
	}
}

func TestReport_Config(t *testing.T) {
	r := Report{Metadata: map[MetadataBlock]any{BlockConfig: map[string]any{"api_key": "str"}}}
	cfg := r.Config()
	if cfg["api_key"] != "str" {
		t.Errorf("got %+v", cfg)
	}
}

func TestReport_CacheTTLSeconds(t *testing.T) {
	r := Report{Metadata: map[MetadataBlock]any{BlockCache: map[string]any{"ttl_seconds": 60}}}
	ttl, ok := r.CacheTTLSeconds()
	if !ok || ttl != 60 {
		t.Errorf("got %d, %v", ttl, ok)
	}

	r2 := Report{}
	if _, ok := r2.CacheTTLSeconds(); ok {
		t.Error("expected no override")
	}
}
