// Package skillref parses the author/name[@version] addressing scheme used
// for skills across the CLI, the registry client, and the tracking file.
package skillref

import (
	"strings"

	"github.com/skilzy-ai/skilzy/internal/errors"
)

// Ref identifies a skill, optionally pinned to a version.
// Author may be empty for bare-name references, which are resolvable only
// against the local tracking file, never against the registry.
type Ref struct {
	Author  string
	Name    string
	Version string
}

// Parse parses a skill reference in one of the accepted forms:
//
//	author/name
//	author/name@version
//	name
//
// Author and name segments must be non-empty and contain only lowercase
// letters, digits, and hyphens. The version is opaque and only required to
// be non-empty when present.
func Parse(text string) (Ref, error) {
	if text == "" {
		return Ref{}, errors.InvalidReference(text, "empty reference")
	}

	rest := text
	var version string
	if at := strings.Index(rest, "@"); at >= 0 {
		rest, version = rest[:at], rest[at+1:]
		if version == "" {
			return Ref{}, errors.InvalidReference(text, "empty version after '@'")
		}
		if strings.Contains(version, "@") {
			return Ref{}, errors.InvalidReference(text, "multiple '@' separators")
		}
	}

	var author, name string
	switch parts := strings.Split(rest, "/"); len(parts) {
	case 1:
		name = parts[0]
	case 2:
		author, name = parts[0], parts[1]
		if author == "" {
			return Ref{}, errors.InvalidReference(text, "empty author segment")
		}
		if !validSegment(author) {
			return Ref{}, errors.InvalidReference(text, "author must be lowercase letters, digits, or hyphens")
		}
	default:
		return Ref{}, errors.InvalidReference(text, "too many '/' separators")
	}

	if name == "" {
		return Ref{}, errors.InvalidReference(text, "empty name segment")
	}
	if !validSegment(name) {
		return Ref{}, errors.InvalidReference(text, "name must be lowercase letters, digits, or hyphens")
	}

	return Ref{Author: author, Name: name, Version: version}, nil
}

// validSegment reports whether s contains only [a-z0-9-].
func validSegment(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// String renders the reference back to its canonical text form.
func (r Ref) String() string {
	var b strings.Builder
	if r.Author != "" {
		b.WriteString(r.Author)
		b.WriteString("/")
	}
	b.WriteString(r.Name)
	if r.Version != "" {
		b.WriteString("@")
		b.WriteString(r.Version)
	}
	return b.String()
}

// Key returns the author/name tracking-file key for the reference.
func (r Ref) Key() string {
	if r.Author == "" {
		return r.Name
	}
	return r.Author + "/" + r.Name
}

// DirName returns the default install directory basename, author-name.
func (r Ref) DirName() string {
	if r.Author == "" {
		return r.Name
	}
	return r.Author + "-" + r.Name
}

// IsBare reports whether the reference omits the author.
func (r Ref) IsBare() bool {
	return r.Author == ""
}

// WithVersion returns a copy of the reference pinned to the given version.
func (r Ref) WithVersion(version string) Ref {
	r.Version = version
	return r
}
