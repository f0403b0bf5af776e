package config

import (
	"testing"

	"github.com/lnashier/viper"
)

func TestLookupAccessors(t *testing.T) {
	v := viper.New()
	v.Set("mesh.nx", 32)
	v.Set("driver.cfl", 0.5)
	v.Set("mesh.xlboundary", "periodic")
	v.Set("checkpoint.enabled", true)

	l := New(v)

	if got, err := l.Int("mesh.nx"); err != nil || got != 32 {
		t.Errorf("Int(mesh.nx) = %d, %v; want 32, nil", got, err)
	}
	if got, err := l.Float("driver.cfl"); err != nil || got != 0.5 {
		t.Errorf("Float(driver.cfl) = %g, %v; want 0.5, nil", got, err)
	}
	if got, err := l.String("mesh.xlboundary"); err != nil || got != "periodic" {
		t.Errorf("String(mesh.xlboundary) = %q, %v; want periodic, nil", got, err)
	}
	if got, err := l.Bool("checkpoint.enabled"); err != nil || got != true {
		t.Errorf("Bool(checkpoint.enabled) = %v, %v; want true, nil", got, err)
	}
}

func TestLookupMissingKeyIsError(t *testing.T) {
	l := New(viper.New())
	if _, err := l.Int("mesh.nx"); err == nil {
		t.Error("expected an error for an unset key")
	}
}
