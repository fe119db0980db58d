package models

import (
	"fmt"
	"strings"
)

// Wildcard is the version placeholder meaning "latest available revision".
const Wildcard = "@"

// Pin is a single component-id/version pair.
type Pin struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

func (p Pin) String() string {
	return p.ID + ":" + p.Version
}

// ParsePin parses "id:version". A bare "id" yields an empty version.
func ParsePin(s string) (Pin, error) {
	id, version, _ := strings.Cut(strings.TrimSpace(s), ":")
	if id == "" {
		return Pin{}, fmt.Errorf("invalid pin %q: missing component id", s)
	}
	return Pin{ID: id, Version: version}, nil
}

// VersionTuple is an ordered mapping from component id to version.
type VersionTuple []Pin

// Get returns the version pinned for id.
func (t VersionTuple) Get(id string) (string, bool) {
	for _, p := range t {
		if p.ID == id {
			return p.Version, true
		}
	}
	return "", false
}

// With returns a copy of t with id pinned to version. Order is preserved;
// an id not yet present is appended.
func (t VersionTuple) With(id, version string) VersionTuple {
	out := make(VersionTuple, 0, len(t)+1)
	found := false
	for _, p := range t {
		if p.ID == id {
			p.Version = version
			found = true
		}
		out = append(out, p)
	}
	if !found {
		out = append(out, Pin{ID: id, Version: version})
	}
	return out
}

// Equal reports structural equality: same ids, same versions, same order.
func (t VersionTuple) Equal(o VersionTuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the tuple in checks-file form.
func (t VersionTuple) String() string {
	parts := make([]string, len(t))
	for i, p := range t {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
