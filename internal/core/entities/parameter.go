package entities

// ParameterScope governs how a parameter's value is routed during
// execution (spec.md §3).
type ParameterScope string

const (
	ScopeData   ParameterScope = "data"
	ScopeView   ParameterScope = "view"
	ScopeHybrid ParameterScope = "hybrid"
)

// AppliesToMode selects how a parameter's predicate is woven into its
// target CTE.
type AppliesToMode string

const (
	ModeWrapper AppliesToMode = "wrapper"
	ModeInline  AppliesToMode = "inline"
)

// AppliesTo names the CTE a parameter's predicate attaches to and how.
type AppliesTo struct {
	CTE  string
	Mode AppliesToMode
}

// ParamKind is the tag of a ParameterType's tagged-variant encoding.
type ParamKind string

const (
	KindPrimitive           ParamKind = "primitive"
	KindOptional            ParamKind = "optional"
	KindList                ParamKind = "list"
	KindLiteral             ParamKind = "literal"
	KindInjectedIdentLiteral ParamKind = "injected_ident_literal"
)

// Primitive is one of the seven scalar parameter types.
type Primitive string

const (
	PrimitiveInt        Primitive = "int"
	PrimitiveFloat      Primitive = "float"
	PrimitiveBool       Primitive = "bool"
	PrimitiveDate       Primitive = "date"
	PrimitiveDatetime   Primitive = "datetime"
	PrimitiveStr        Primitive = "str"
	PrimitiveInjectedStr Primitive = "InjectedStr"
)

// ParameterType is the tagged variant described in spec.md §3:
// primitive | optional(inner) | list(inner) | literal(values) |
// injected_ident_literal(values).
type ParameterType struct {
	Kind      ParamKind
	Primitive Primitive      // set when Kind == KindPrimitive
	Inner     *ParameterType // set when Kind == KindOptional or KindList
	Literals  []any          // set when Kind == KindLiteral or KindInjectedIdentLiteral
}

// Parameter is a single declared report parameter (spec.md §3). Name
// uniqueness is case-folded (see entities.FoldCase) within a report.
type Parameter struct {
	Name      string
	Type      ParameterType
	Scope     ParameterScope
	AppliesTo *AppliesTo
}
