// Package stations provides the read-only station code to display name
// lookup the planner and CLI use for rendering: a thin external
// collaborator that never feeds back into journey-search logic.
package stations

import "github.com/onwardrail/core/station"

// Directory is an in-memory code-to-name lookup. The zero value is an
// empty directory; every lookup then falls through to the caller's own
// fallback name.
type Directory struct {
	names map[station.Code]string
}

// New builds a Directory from a code-to-name map. The caller owns the
// input map; New copies it so later mutation by the caller doesn't leak
// into the directory.
func New(names map[station.Code]string) *Directory {
	d := &Directory{names: make(map[station.Code]string, len(names))}
	for code, name := range names {
		d.names[code] = name
	}
	return d
}

// Get returns the display name for code, and whether it was found.
func (d *Directory) Get(code station.Code) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[code]
	return name, ok
}

// NameOrFallback returns the directory's name for code if known, else
// fallback — typically a Call's own StationName, which a service's own
// board always carries regardless of whether this directory has heard of
// the station.
func (d *Directory) NameOrFallback(code station.Code, fallback string) string {
	if name, ok := d.Get(code); ok {
		return name
	}
	return fallback
}

// Len returns the number of stations in the directory.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
