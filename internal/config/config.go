// Package config adapts github.com/lnashier/viper into the typed,
// error-returning parameter lookup flow.TimeStepper and the problem and
// visualization collaborators expect. It validates only that a key is
// present; the value is converted to the requested scalar type by viper's
// Get* methods, which do not report a failed conversion. Enum options (boundary kind,
// slope limiter, projection type) are parsed and validated by their own
// packages (grid.ParseEdgeKind, advect.ParseLimiter, flow.TimeStepper's
// proj_type check) from the raw string/int a Lookup returns, so that
// those enums stay defined next to the types they select between.
package config

import (
	"fmt"

	"github.com/lnashier/viper"
)

// Lookup is a viper-backed configuration source. Unlike viper's own
// Get*/GetInt methods, which silently return a zero value for a missing
// key, every accessor here reports a missing key as an error so that a
// typo in a config file surfaces as a configuration error rather than a
// silently-wrong run.
type Lookup struct {
	v *viper.Viper
}

// FromFile reads a TOML/YAML/JSON configuration file (format inferred
// from its extension, per viper's convention) into a new Lookup.
func FromFile(path string) (*Lookup, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("flowmg: config: reading %s: %w", path, err)
	}
	return &Lookup{v: v}, nil
}

// New wraps an already-populated viper instance, as used by the CLI after
// it has set defaults for optional keys on top of a config file.
func New(v *viper.Viper) *Lookup { return &Lookup{v: v} }

func (l *Lookup) require(key string) error {
	if !l.v.IsSet(key) {
		return fmt.Errorf("flowmg: config: missing required key %q", key)
	}
	return nil
}

// Float returns the float64 value of key, or an error if it is unset.
func (l *Lookup) Float(key string) (float64, error) {
	if err := l.require(key); err != nil {
		return 0, err
	}
	return l.v.GetFloat64(key), nil
}

// Int returns the int value of key, or an error if it is unset.
func (l *Lookup) Int(key string) (int, error) {
	if err := l.require(key); err != nil {
		return 0, err
	}
	return l.v.GetInt(key), nil
}

// String returns the string value of key, or an error if it is unset.
func (l *Lookup) String(key string) (string, error) {
	if err := l.require(key); err != nil {
		return "", err
	}
	return l.v.GetString(key), nil
}

// Bool returns the bool value of key, or an error if it is unset.
func (l *Lookup) Bool(key string) (bool, error) {
	if err := l.require(key); err != nil {
		return false, err
	}
	return l.v.GetBool(key), nil
}
