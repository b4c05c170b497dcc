package entities

import (
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		input   string
		wantErr bool
	}{
		{"valid simple", "parameter", "limit", false},
		{"valid mixed case", "parameter", "Widget", false},
		{"valid with underscore", "binding id", "region_key", false},
		{"valid leading underscore", "import id", "_internal", false},
		{"valid with digits", "CTE name", "base_v2", false},
		{"empty", "parameter", "", true},
		{"starts with digit", "parameter", "2fast", true},
		{"contains hyphen", "parameter", "my-param", true},
		{"contains space", "parameter", "my param", true},
		{"contains dot", "parameter", "a.b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.kind, tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q, %q) error = %v, wantErr %v", tt.kind, tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "reports/widget.sql", false},
		{"valid simple", "config.toml", false},
		{"empty", "", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "reports/../../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFoldCase(t *testing.T) {
	if FoldCase("Widget") != "widget" {
		t.Errorf("FoldCase(%q) = %q, want %q", "Widget", FoldCase("Widget"), "widget")
	}
	if FoldCase("already_lower") != "already_lower" {
		t.Errorf("FoldCase should be a no-op on already-lowercase input")
	}
}
