package entities

import "testing"

func TestDependencyGraph_Acyclic(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("regions")
	g.AddNode("geo")
	g.AddEdge("regions", "geo")

	if cycle := g.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %v", cycle)
	}
}

func TestDependencyGraph_DirectCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	cycle := g.DetectCycle()
	if cycle == nil {
		t.Fatal("expected a cycle")
	}
}

func TestDependencyGraph_SelfCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("a")
	g.AddEdge("a", "a")

	cycle := g.DetectCycle()
	if cycle == nil {
		t.Fatal("expected a self-cycle")
	}
}

func TestDependencyGraph_EdgeToUndeclaredNodeIgnored(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("a")
	g.AddEdge("a", "external_report_not_a_node")

	if cycle := g.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle when edge target isn't a declared node, got %v", cycle)
	}
}

func TestCycleError(t *testing.T) {
	err := CycleError([]string{"a", "b", "a"})
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	want := "[Cycle] cycle detected involving a -> b -> a"
	if err.Error() != want {
		t.Errorf("CycleError() = %q, want %q", err.Error(), want)
	}
	taxErr, ok := err.(*TaxonomyError)
	if !ok {
		t.Fatalf("CycleError() returned %T, want *TaxonomyError", err)
	}
	if taxErr.Code != CodeCycle {
		t.Errorf("Code = %v, want %v", taxErr.Code, CodeCycle)
	}
}
