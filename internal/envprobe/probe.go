// Package envprobe answers build-configuration questions from the process
// environment. Absence of a variable is a negative answer, not an error.
package envprobe

import (
	"os"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
)

// LookupFunc resolves a variable, reporting whether it is set.
type LookupFunc func(key string) (string, bool)

// Probe is a read-only view of an environment.
type Probe struct {
	lookup LookupFunc
}

// New returns a Probe over the process environment.
func New() Probe {
	return Probe{lookup: os.LookupEnv}
}

// FromMap returns a Probe over a fixed set of variables.
func FromMap(vars map[string]string) Probe {
	return Probe{lookup: func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}}
}

// FromLookup wraps an arbitrary lookup function.
func FromLookup(fn LookupFunc) Probe {
	if fn == nil {
		fn = os.LookupEnv
	}
	return Probe{lookup: fn}
}

// Lookup returns the raw value of key.
func (p Probe) Lookup(key string) (string, bool) {
	if p.lookup == nil {
		return "", false
	}
	return p.lookup(key)
}

// Has reports whether key is set at all, regardless of its value.
func (p Probe) Has(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Equals reports whether key is set and equals value, ignoring case.
func (p Probe) Equals(key, value string) bool {
	v, ok := p.Lookup(key)
	if !ok {
		return false
	}
	return strings.EqualFold(v, value)
}

// IsProfile reports whether PROFILE equals profile.
func (p Probe) IsProfile(profile string) bool {
	return p.Equals(KeyProfile, profile)
}

// OptLevelIs reports whether OPT_LEVEL is exactly n.
func (p Probe) OptLevelIs(n int) bool {
	return p.Equals(KeyOptLevel, strconv.Itoa(n))
}

// Require returns the value of key or an environment error when it is absent.
func (p Probe) Require(key string) (string, error) {
	v, ok := p.Lookup(key)
	if !ok {
		return "", ferrors.EnvRequired(key)
	}
	return v, nil
}

// GetOr returns the value of key or def when it is absent or empty.
func (p Probe) GetOr(key, def string) string {
	if v, ok := p.Lookup(key); ok && v != "" {
		return v
	}
	return def
}
