package flow

import (
	"testing"

	"github.com/ctessum/flowmg/grid"
)

func TestNewBCSetOddReflection(t *testing.T) {
	base := grid.BCPolicy{XLo: grid.Reflect, XHi: grid.Reflect, YLo: grid.Periodic, YHi: grid.Periodic}
	bc := NewBCSet(base)
	if bc.U.OddReflectDir != "x" {
		t.Errorf("U.OddReflectDir = %q; want x", bc.U.OddReflectDir)
	}
	if bc.V.OddReflectDir != "y" {
		t.Errorf("V.OddReflectDir = %q; want y", bc.V.OddReflectDir)
	}
	if bc.Scalar.OddReflectDir != "" {
		t.Errorf("Scalar.OddReflectDir = %q; want empty", bc.Scalar.OddReflectDir)
	}
	if bc.U.XLo != grid.Reflect || bc.Scalar.XLo != grid.Reflect {
		t.Error("edge kinds should be copied unchanged from base")
	}
}

func TestStateCloneAndRestore(t *testing.T) {
	g, err := grid.NewGrid2D(4, 4, 4, 0, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	bc := grid.BCPolicy{XLo: grid.Periodic, XHi: grid.Periodic, YLo: grid.Periodic, YHi: grid.Periodic}
	s := NewState(g, bc)
	s.U.Fill(1)
	s.GradPX.Fill(2)
	s.T = 5

	clone := s.Clone()
	s.U.Fill(99)
	s.GradPX.Fill(99)
	s.T = 100

	if err := s.RestoreFrom(clone); err != nil {
		t.Fatal(err)
	}
	if s.U.At(g.Ilo, g.Jlo) != 1 {
		t.Errorf("U not restored: got %g want 1", s.U.At(g.Ilo, g.Jlo))
	}
	if s.T != 5 {
		t.Errorf("T not restored: got %g want 5", s.T)
	}
	if s.GradPX.At(g.Ilo, g.Jlo) != 99 {
		t.Errorf("GradPX should be left alone by RestoreFrom, got %g want 99", s.GradPX.At(g.Ilo, g.Jlo))
	}
}
