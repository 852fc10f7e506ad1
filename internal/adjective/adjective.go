// Package adjective conjugates and parses Na'vi adjectives.
//
// An adjective is bare when used predicatively, takes a- when it follows the
// noun it modifies and -a when it precedes it.
package adjective

import (
	"strings"

	"kame/internal/conjstring"
	"kame/internal/phonology"
)

// Form is the position of an adjective relative to its noun.
type Form string

const (
	Predicative Form = "predicative"
	Postnoun    Form = "postnoun"
	Prenoun     Form = "prenoun"
)

// Forms lists every adjective form.
var Forms = []Form{Predicative, Postnoun, Prenoun}

// Conjugate returns the three-field conjugation string of stem in form.
// leDerived marks adjectives formed with le-, whose postnoun a- is optional.
func Conjugate(stem string, form Form, leDerived bool) string {
	switch form {
	case Postnoun:
		switch {
		case leDerived:
			return conjstring.Join("(a)", stem, "")
		case phonology.First(strings.ToLower(stem)) == 'a':
			return conjstring.Join("a", phonology.DropFirst(stem), "")
		default:
			return conjstring.Join("a", stem, "")
		}
	case Prenoun:
		if phonology.Last(stem) == 'a' {
			return conjstring.Join("", phonology.DropLast(stem), "a")
		}
		return conjstring.Join("", stem, "a")
	default:
		return conjstring.Join("", stem, "")
	}
}

// Candidate is a decomposition of a surface form into an adjective root
// and its form.
type Candidate struct {
	Root       string `json:"root"`
	Form       Form   `json:"form"`
	Correction string `json:"correction,omitempty"`
}

// IsLeDerived reports whether root looks like a le- derivation.
func IsLeDerived(root string) bool {
	return strings.HasPrefix(root, "le") && phonology.CountSyllables(root) > 1
}

// Parse returns every adjective reading of word.
func Parse(word string) []Candidate {
	lower := strings.ToLower(word)
	if lower == "" {
		return nil
	}

	type reading struct {
		root string
		form Form
	}
	readings := []reading{{lower, Predicative}}
	if rest, ok := strings.CutPrefix(lower, "a"); ok && rest != "" {
		readings = append(readings, reading{rest, Postnoun}, reading{"a" + rest, Postnoun})
	}
	if IsLeDerived(lower) {
		readings = append(readings, reading{lower, Postnoun})
	}
	if rest, ok := strings.CutSuffix(lower, "a"); ok && rest != "" {
		readings = append(readings, reading{rest, Prenoun}, reading{rest + "a", Prenoun})
	}

	var out []Candidate
	seen := make(map[reading]bool)
	for _, r := range readings {
		if seen[r] || phonology.CountSyllables(r.root) == 0 {
			continue
		}
		seen[r] = true
		c := Candidate{Root: r.root, Form: r.form}
		if !conjstring.Admits(Conjugate(r.root, r.form, IsLeDerived(r.root)), lower) {
			c.Correction = lower
		}
		out = append(out, c)
	}
	return out
}
