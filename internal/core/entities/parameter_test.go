package entities

import "testing"

func TestParameterType_Primitive(t *testing.T) {
	pt := ParameterType{Kind: KindPrimitive, Primitive: PrimitiveInt}
	if pt.Kind != KindPrimitive {
		t.Errorf("Kind = %v, want %v", pt.Kind, KindPrimitive)
	}
	if pt.Inner != nil {
		t.Error("primitive type should have nil Inner")
	}
}

func TestParameterType_OptionalList(t *testing.T) {
	inner := &ParameterType{Kind: KindPrimitive, Primitive: PrimitiveStr}
	pt := ParameterType{Kind: KindOptional, Inner: inner}

	if pt.Inner.Primitive != PrimitiveStr {
		t.Errorf("Inner.Primitive = %v, want %v", pt.Inner.Primitive, PrimitiveStr)
	}

	listPt := ParameterType{Kind: KindList, Inner: inner}
	if listPt.Kind != KindList {
		t.Errorf("Kind = %v, want %v", listPt.Kind, KindList)
	}
}

func TestParameterType_Literal(t *testing.T) {
	pt := ParameterType{Kind: KindLiteral, Literals: []any{"red", "blue", "green"}}
	if len(pt.Literals) != 3 {
		t.Fatalf("expected 3 literals, got %d", len(pt.Literals))
	}
	if pt.Literals[0] != "red" {
		t.Errorf("Literals[0] = %v, want %v", pt.Literals[0], "red")
	}
}

func TestParameter_WithAppliesTo(t *testing.T) {
	p := Parameter{
		Name:  "Widget",
		Type:  ParameterType{Kind: KindPrimitive, Primitive: PrimitiveStr},
		Scope: ScopeData,
		AppliesTo: &AppliesTo{
			CTE:  "filtered",
			Mode: ModeWrapper,
		},
	}

	if p.Scope != ScopeData {
		t.Errorf("Scope = %v, want %v", p.Scope, ScopeData)
	}
	if p.AppliesTo.Mode != ModeWrapper {
		t.Errorf("AppliesTo.Mode = %v, want %v", p.AppliesTo.Mode, ModeWrapper)
	}
}
