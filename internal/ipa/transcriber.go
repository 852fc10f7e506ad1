// Package ipa provides IPA (International Phonetic Alphabet) transcription
// of Na'vi pronunciations.
package ipa

import (
	"strings"
	"unicode/utf8"

	"kame/internal/convert"
	"kame/internal/dialect"
	"kame/internal/phonology"
	"kame/internal/schema"
)

const (
	stressMark = "ˈ"
	unreleased = "̚"
)

// position describes where a phoneme occurs.
type position struct {
	dialect  dialect.Dialect
	stressed bool

	// first and last are set in the first and last syllable of the word
	first, last bool

	// final is set for the last phoneme of a syllable
	final bool

	// prev and next are the neighbouring phonemes in the word, compressed,
	// or "" at the word's edges
	prev, next string

	// nextVowelInitial is set when the following syllable starts with a
	// nucleus
	nextVowelInitial bool

	// nextEjective is set when the following syllable starts with px, tx
	// or kx
	nextEjective bool
}

type rule func(p position) string

func plain(ipa string) rule {
	return func(position) string { return ipa }
}

// stops are unreleased at the end of a syllable unless a vowel follows
func stop(ipa string) rule {
	return func(p position) string {
		if p.final && (p.last || !p.nextVowelInitial) {
			return ipa + unreleased
		}
		return ipa
	}
}

// reef n takes the place of a following velar
func nasal(p position) string {
	if p.dialect == dialect.RN && isVelar(p.next) {
		return "ŋ"
	}
	return "n"
}

// reef h is voiced between nuclei
func fricativeH(p position) string {
	if p.dialect == dialect.RN && isNucleus(p.prev) && isNucleus(p.next) {
		return "ɦ"
	}
	return "h"
}

// A syllable-final tìftang merges into the closure of a following ejective.
// In reef speech an unstressed medial one after a consonant may be dropped.
func glottal(p position) string {
	switch {
	case p.final && p.nextEjective:
		return ""
	case p.dialect == dialect.RN && !p.first && !p.stressed && p.prev != "" && !isNucleus(p.prev):
		return "(ʔ)"
	}
	return "ʔ"
}

func isNucleus(phoneme string) bool {
	r, size := utf8.DecodeRuneInString(phoneme)
	return size == len(phoneme) && phonology.IsNucleus(r)
}

func isEjective(phoneme string) bool {
	r, size := utf8.DecodeRuneInString(phoneme)
	return size == len(phoneme) && phonology.IsEjective(r)
}

func isVelar(phoneme string) bool {
	switch phoneme {
	case "k", "g", string(convert.NG), string(convert.KX):
		return true
	}
	return false
}

// Transcriber handles IPA transcription for one dialect.
type Transcriber struct {
	dialect dialect.Dialect
	rules   map[string]rule
}

// NewTranscriber creates a transcriber for the given dialect. The combined
// notation is transcribed as FN.
func NewTranscriber(d dialect.Dialect) *Transcriber {
	if d != dialect.RN {
		d = dialect.FN
	}
	return &Transcriber{dialect: d, rules: rules}
}

// Dialect returns the transcriber's dialect.
func (t *Transcriber) Dialect() dialect.Dialect {
	return t.dialect
}

// Transcribe converts a pronunciation to IPA. Syllables are separated by
// dots and the stressed syllable of a polysyllabic word is marked, except
// for affixes.
func (t *Transcriber) Transcribe(p schema.Pronunciation, wordType string) string {
	shared := dialect.Transform(p.Shared(), t.dialect)
	markStress := !strings.HasPrefix(wordType, "aff:")

	words := strings.Fields(shared)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = t.transcribeWord(w, markStress)
	}
	return strings.Join(out, " ")
}

// token is one phoneme of a syllable; rule is nil for symbols without a
// transcription, which are copied as they are.
type token struct {
	text string
	rule rule
}

func (t *Transcriber) transcribeWord(word string, markStress bool) string {
	raw := strings.Split(convert.Compress(word), "-")
	syllables := make([][]token, len(raw))
	stressed := make([]bool, len(raw))
	for i, s := range raw {
		stressed[i] = strings.HasPrefix(s, "[") || len(raw) == 1
		syllables[i] = t.tokenize([]rune(strings.Trim(s, "[]")))
	}

	out := make([]string, len(syllables))
	for i, syllable := range syllables {
		p := position{
			dialect:  t.dialect,
			first:    i == 0,
			last:     i == len(syllables)-1,
			stressed: stressed[i],
		}
		if i+1 < len(syllables) && len(syllables[i+1]) > 0 {
			next := syllables[i+1][0].text
			p.nextVowelInitial = isNucleus(next)
			p.nextEjective = isEjective(next)
		}

		var b strings.Builder
		for j, tok := range syllable {
			if tok.rule == nil {
				b.WriteString(tok.text)
				continue
			}
			p.final = j == len(syllable)-1
			p.prev = neighbour(syllables, i, j, -1)
			p.next = neighbour(syllables, i, j, 1)
			b.WriteString(tok.rule(p))
		}

		ipa := b.String()
		if stressed[i] && markStress && len(syllables) > 1 {
			ipa = stressMark + ipa
		}
		out[i] = ipa
	}
	return strings.Join(out, ".")
}

// tokenize splits a syllable into phonemes, longest match first.
func (t *Transcriber) tokenize(runes []rune) []token {
	var tokens []token
	for i := 0; i < len(runes); {
		matched := false
		for length := 3; length > 0; length-- {
			if i+length > len(runes) {
				continue
			}
			text := string(runes[i : i+length])
			if r, ok := t.rules[text]; ok {
				tokens = append(tokens, token{text, r})
				i += length
				matched = true
				break
			}
		}
		if !matched {
			if runes[i] != convert.Interpunct {
				tokens = append(tokens, token{text: string(runes[i])})
			}
			i++
		}
	}
	return tokens
}

// neighbour returns the phoneme dir steps from syllables[i][j], crossing
// syllable boundaries.
func neighbour(syllables [][]token, i, j, dir int) string {
	j += dir
	for i >= 0 && i < len(syllables) {
		if j >= 0 && j < len(syllables[i]) {
			return syllables[i][j].text
		}
		i += dir
		if dir < 0 && i >= 0 {
			j = len(syllables[i]) - 1
		} else {
			j = 0
		}
	}
	return ""
}

// Generate transcribes p in dialect d.
func Generate(p schema.Pronunciation, wordType string, d dialect.Dialect) string {
	return NewTranscriber(d).Transcribe(p, wordType)
}

var rules = map[string]rule{
	// Vowels
	"a": plain("a"),
	"ä": plain("æ"),
	"e": plain("ɛ"),
	"é": plain("ɛ"),
	"i": plain("i"),
	"ì": plain("ɪ"),
	"o": plain("o"),
	"u": plain("u"),
	"ù": func(p position) string {
		if p.dialect == dialect.RN {
			return "ʊ"
		}
		return "u"
	},
	// Diphthongs and pseudovowels
	string(convert.AW): plain("aw"),
	string(convert.AY): plain("aj"),
	string(convert.EW): plain("ɛw"),
	string(convert.EY): plain("ɛj"),
	string(convert.LL): plain("l̩"),
	string(convert.RR): plain("r̩"),
	// Consonants
	"'":   glottal,
	"(')": plain("(ʔ)"),
	"f":   plain("f"),
	"h":   fricativeH,
	"k":   stop("k"),
	"l":   plain("l"),
	"m":   plain("m"),
	"n":   nasal,
	"p":   stop("p"),
	"r":   plain("ɾ"),
	"s":   plain("s"),
	"t":   stop("t"),
	"v":   plain("v"),
	"w":   plain("w"),
	"y":   plain("j"),
	"z":   plain("z"),
	"b":   plain("b"),
	"d":   plain("d"),
	"g":   plain("g"),
	string(convert.NG): plain("ŋ"),
	string(convert.PX): plain("pʼ"),
	string(convert.TX): plain("tʼ"),
	string(convert.KX): plain("kʼ"),
	string(convert.TS): func(p position) string {
		if p.dialect == dialect.RN {
			return "tʃ"
		}
		return "ts"
	},
}
