package domain

import "fmt"

// Scope selects which database file(s) a read operation targets.
type Scope string

const (
	// ScopeLocal targets the database named by the logical location,
	// or the global database when no location is given.
	ScopeLocal Scope = "local"

	// ScopeGlobal always targets the global database, ignoring any
	// logical location.
	ScopeGlobal Scope = "global"

	// ScopeAll federates the local and global databases, merging
	// results.
	ScopeAll Scope = "all"
)

// Validate checks the scope is one of the known values. The empty
// string normalises to ScopeLocal.
func (s Scope) Validate() error {
	switch s {
	case "", ScopeLocal, ScopeGlobal, ScopeAll:
		return nil
	}
	return fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, string(s))
}

// OrDefault returns ScopeLocal for the empty string.
func (s Scope) OrDefault() Scope {
	if s == "" {
		return ScopeLocal
	}
	return s
}
