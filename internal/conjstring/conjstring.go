// Package conjstring expands conjugation strings, the compact notation used
// to describe several surface forms at once.
//
//	;   separates alternative full forms
//	-   separates morphemes (removed on expansion)
//	/   separates alternative morphemes
//	( ) marks optional letters
//
// For example "(ay)-h-elku-" expands to "ayhelku" and "helku", and
// "kelku-t/ti" to "kelkut" and "kelkuti".
package conjstring

import (
	"strings"
)

// Expand returns every literal form a conjugation string denotes, in
// generation order and without duplicates.
func Expand(form string) []string {
	var forms []string
	for _, alternative := range strings.Split(form, ";") {
		forms = append(forms, expand(alternative)...)
	}
	return unique(forms)
}

func expand(form string) []string {
	if open := strings.IndexByte(form, '('); open >= 0 {
		if length := strings.IndexByte(form[open:], ')'); length > 0 {
			closing := open + length
			with := form[:open] + form[open+1:closing] + form[closing+1:]
			without := form[:open] + form[closing+1:]
			return append(expand(with), expand(without)...)
		}
	}

	parts := strings.Split(form, "-")
	for i, part := range parts {
		alternatives := strings.Split(part, "/")
		if len(alternatives) < 2 {
			continue
		}
		var result []string
		for _, alternative := range alternatives {
			parts[i] = alternative
			result = append(result, expand(strings.Join(parts, "-"))...)
		}
		return result
	}

	return []string{strings.Join(parts, "")}
}

// Admits reports whether target is one of the forms denoted by form.
func Admits(form, target string) bool {
	for _, f := range Expand(form) {
		if f == target {
			return true
		}
	}
	return false
}

// AdmitsFold is Admits with case-insensitive comparison.
func AdmitsFold(form, target string) bool {
	for _, f := range Expand(form) {
		if strings.EqualFold(f, target) {
			return true
		}
	}
	return false
}

// Join builds a conjugation string from its morpheme fields.
func Join(fields ...string) string {
	return strings.Join(fields, "-")
}

// Alternatives joins alternative full forms.
func Alternatives(forms ...string) string {
	return strings.Join(forms, ";")
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
