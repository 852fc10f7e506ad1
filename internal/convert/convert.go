// Package convert maps conventional Na'vi spelling to an internal alphabet
// with exactly one rune per phoneme, and back.
//
// Digraphs (ts, ng, tx, px, kx, ll, rr) and diphthongs (aw, ay, ew, ey) each
// become a single rune, so affix boundaries can be matched rune by rune.
package convert

import (
	"strings"
	"unicode/utf8"
)

// Compressed symbols. None of them occur in Na'vi orthography.
const (
	TS = 'c'
	NG = 'ŋ'
	TX = 'ƭ'
	PX = 'ƥ'
	KX = 'ƙ'
	LL = 'ɭ'
	RR = 'ɽ'
	AW = 'ā'
	AY = 'ă'
	EW = 'ē'
	EY = 'ĕ'
)

// Interpunct separates an n from a following g that is not the ng digraph.
const Interpunct = '·'

type digraph struct {
	spelling string
	symbol   rune
}

var digraphs = []digraph{
	{"ts", TS},
	{"ng", NG},
	{"tx", TX},
	{"px", PX},
	{"kx", KX},
	{"ll", LL},
	{"rr", RR},
	{"aw", AW},
	{"ay", AY},
	{"ew", EW},
	{"ey", EY},
}

var expansions = func() map[rune]string {
	m := make(map[rune]string, len(digraphs))
	for _, d := range digraphs {
		m[d.symbol] = d.spelling
	}
	return m
}()

// Compress converts a word to the internal alphabet.
func Compress(word string) string {
	var b strings.Builder
	b.Grow(len(word))

	prev := rune(0)
	for i := 0; i < len(word); {
		r, size := utf8.DecodeRuneInString(word[i:])

		// n·g is a plain n followed by a plain g
		if r == Interpunct && prev == 'n' && strings.HasPrefix(word[i+size:], "g") {
			i += size
			continue
		}

		matched := false
		for _, d := range digraphs {
			if strings.HasPrefix(word[i:], d.spelling) {
				b.WriteRune(d.symbol)
				prev = d.symbol
				i += len(d.spelling)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		b.WriteRune(r)
		prev = r
		i += size
	}
	return b.String()
}

// Decompress converts a word from the internal alphabet back to conventional
// spelling.
func Decompress(word string) string {
	var b strings.Builder
	b.Grow(len(word) * 2)

	prev := rune(0)
	for _, r := range word {
		if spelling, ok := expansions[r]; ok {
			b.WriteString(spelling)
		} else {
			if r == 'g' && prev == 'n' {
				b.WriteRune(Interpunct)
			}
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// Symbol returns the compressed symbol for a digraph spelling.
func Symbol(spelling string) (rune, bool) {
	for _, d := range digraphs {
		if d.spelling == spelling {
			return d.symbol, true
		}
	}
	return 0, false
}
