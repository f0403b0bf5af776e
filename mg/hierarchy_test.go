package mg

import "testing"

func TestNewHierarchyLevels(t *testing.T) {
	h, err := NewHierarchy(16, 0, 1, 0, 1, periodicBC())
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Levels) != 5 { // 1,2,4,8,16
		t.Fatalf("got %d levels; want 5", len(h.Levels))
	}
	if h.Coarsest().Grid.Nx != 1 {
		t.Errorf("coarsest Nx = %d; want 1", h.Coarsest().Grid.Nx)
	}
	if h.Finest().Grid.Nx != 16 {
		t.Errorf("finest Nx = %d; want 16", h.Finest().Grid.Nx)
	}
}

func TestNewHierarchyRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := NewHierarchy(12, 0, 1, 0, 1, periodicBC()); err == nil {
		t.Error("expected error for nx=12 (not a power of two)")
	}
}

func TestNewHierarchyRejectsNonSquareDomain(t *testing.T) {
	if _, err := NewHierarchy(16, 0, 1, 0, 2, periodicBC()); err == nil {
		t.Error("expected error for a non-square domain")
	}
}
