package services

import (
	"path/filepath"
	"strings"
)

// dbExt is the extension that marks an explicit database file location.
const dbExt = ".db"

// dirSuffix is appended to encoded directory names so scoped databases
// are recognisable next to the global one.
const dirSuffix = ".memo.db"

// dirEncoder escapes "%" before the separator characters, so an encoded
// separator can never collide with a literal one. This keeps the
// encoding injective: two distinct directories always map to two
// distinct file names.
var dirEncoder = strings.NewReplacer(
	"%", "%25",
	"/", "%2F",
	"\\", "%5C",
	":", "%3A",
)

// Resolver maps caller-supplied logical locations to concrete database
// file paths. It is pure: no I/O, deterministic across calls and
// process restarts.
type Resolver struct {
	defaultPath string
}

// NewResolver creates a resolver anchored at the global database path.
func NewResolver(defaultPath string) *Resolver {
	return &Resolver{defaultPath: defaultPath}
}

// DefaultPath returns the global database file path.
func (r *Resolver) DefaultPath() string {
	return r.defaultPath
}

// Resolve maps a logical location to a concrete database file path:
//
//   - nil or empty: the global database
//   - a path whose final segment ends in .db: used verbatim
//   - anything else: treated as a directory and encoded into a file
//     name colocated with the global database
func (r *Resolver) Resolve(location *string) string {
	if location == nil || *location == "" {
		return r.defaultPath
	}
	loc := *location
	if strings.HasSuffix(loc, dbExt) {
		return loc
	}
	// Clean so spellings of the same directory ("/a/b", "/a/b/") agree.
	encoded := dirEncoder.Replace(filepath.Clean(loc))
	return filepath.Join(filepath.Dir(r.defaultPath), encoded+dirSuffix)
}

// ResolveSet resolves the paths a scoped read targets, deduplicated so
// no database is queried twice when the location resolves to the
// global path itself.
func (r *Resolver) ResolveSet(location *string, includeGlobal bool) []string {
	local := r.Resolve(location)
	if !includeGlobal || local == r.defaultPath {
		return []string{local}
	}
	return []string{local, r.defaultPath}
}
