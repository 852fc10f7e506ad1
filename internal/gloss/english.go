package gloss

import "strings"

var irregularPlurals = map[string]string{
	"child":  "children",
	"deer":   "deer",
	"fish":   "fish",
	"foot":   "feet",
	"goose":  "geese",
	"leaf":   "leaves",
	"life":   "lives",
	"knife":  "knives",
	"man":    "men",
	"mouse":  "mice",
	"person": "people",
	"sheep":  "sheep",
	"tooth":  "teeth",
	"wife":   "wives",
	"wolf":   "wolves",
	"woman":  "women",
}

// accusatives maps subject pronouns to their object forms.
var accusatives = map[string]string{
	"i":       "me",
	"he":      "him",
	"she":     "her",
	"we":      "us",
	"they":    "them",
	"who":     "whom",
	"whoever": "whomever",
}

// lastWord splits s into everything before its last word and the word.
func lastWord(s string) (string, string) {
	i := strings.LastIndexByte(s, ' ')
	return s[:i+1], s[i+1:]
}

func isVowelByte(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

func plural(s string) string {
	head, w := lastWord(s)
	if w == "" {
		return s
	}
	if p, ok := irregularPlurals[strings.ToLower(w)]; ok {
		return head + p
	}
	n := len(w)
	switch {
	case n > 1 && w[n-1] == 'y' && !isVowelByte(w[n-2]):
		return head + w[:n-1] + "ies"
	case strings.HasSuffix(w, "s"), strings.HasSuffix(w, "x"),
		strings.HasSuffix(w, "ch"), strings.HasSuffix(w, "sh"):
		return head + w + "es"
	default:
		return head + w + "s"
	}
}

func accusative(s string) string {
	if a, ok := accusatives[strings.ToLower(s)]; ok {
		return a
	}
	return s
}

func possessive(s string) string {
	if strings.HasSuffix(s, "s") {
		return s + "'"
	}
	return s + "'s"
}

// infinitive drops a leading "to ".
func infinitive(s string) string {
	return strings.TrimPrefix(s, "to ")
}

// splitVerb separates the verb of a gloss from its complement, e.g.
// "give up" into "give" and " up".
func splitVerb(s string) (string, string) {
	s = infinitive(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func gerund(s string) string {
	v, rest := splitVerb(s)
	n := len(v)
	switch {
	case n == 0:
		return s
	case v == "be" || v == "see" || strings.HasSuffix(v, "ee"):
		return v + "ing" + rest
	case strings.HasSuffix(v, "ie"):
		return v[:n-2] + "ying" + rest
	case n > 2 && v[n-1] == 'e':
		return v[:n-1] + "ing" + rest
	default:
		return v + "ing" + rest
	}
}

func pastParticiple(s string) string {
	v, rest := splitVerb(s)
	n := len(v)
	switch {
	case n == 0:
		return s
	case v[n-1] == 'e':
		return v + "d" + rest
	case n > 1 && v[n-1] == 'y' && !isVowelByte(v[n-2]):
		return v[:n-1] + "ied" + rest
	default:
		return v + "ed" + rest
	}
}

func agent(s string) string {
	v, rest := splitVerb(s)
	if strings.HasSuffix(v, "e") {
		return v + "r" + rest
	}
	return v + "er" + rest
}
