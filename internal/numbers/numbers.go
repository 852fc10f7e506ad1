// Package numbers spells out integers as octal Na'vi numerals.
package numbers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Max is one more than the largest number that can be spelled.
const Max = 8 * 8 * 8 * 8 * 8

var (
	ErrOutOfRange = errors.New("number out of range")
	ErrNotANumber = errors.New("not a number word")
)

var (
	units        = []string{"kew", "'aw", "mune", "pxey", "tsìng", "mrr", "pukap", "kinä"}
	unitSuffixes = []string{"", "aw", "mun", "pey", "sìng", "mrr", "fu", "hin"}
	unitPrefixes = []string{"", "", "me", "pxe", "tsì", "mrr", "pu", "ki"}
	powers       = []string{"", "vol", "zam", "vozam", "zazam"}
	shortPowers  = []string{"", "vo", "za", "voza", "zaza"}
)

// Number is a generated numeral.
type Number struct {
	Value int    `json:"value"`
	Octal string `json:"octal"`
	Word  string `json:"word"`
}

// Generate spells n.
func Generate(n int) (Number, error) {
	if n < 0 || n >= Max {
		return Number{}, fmt.Errorf("%d: %w", n, ErrOutOfRange)
	}
	return Number{Value: n, Octal: strconv.FormatInt(int64(n), 8), Word: word(n)}, nil
}

func word(n int) string {
	if n < len(units) {
		return units[n]
	}

	var result string
	for power := 0; n > 0; power++ {
		digit := n % 8
		n /= 8
		if digit == 0 {
			continue
		}
		if power == 0 {
			result = unitSuffixes[digit]
			continue
		}
		p := powers[power]
		if result != "" && !strings.HasPrefix(result, "a") {
			p = shortPowers[power]
		}
		result = unitPrefixes[digit] + p + result
	}
	return result
}

var (
	indexOnce sync.Once
	index     map[string]int
)

// Parse returns the value of a number word. The whole range is generated
// once and inverted, so only words Generate produces are recognized.
func Parse(w string) (Number, error) {
	indexOnce.Do(func() {
		index = make(map[string]int, Max)
		for n := 0; n < Max; n++ {
			index[word(n)] = n
		}
	})

	n, ok := index[strings.ToLower(w)]
	if !ok {
		return Number{}, fmt.Errorf("%q: %w", w, ErrNotANumber)
	}
	return Generate(n)
}
