package convert

import (
	"testing"
	"unicode/utf8"
)

func TestCompress(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{"kelku", "kelku"},
		{"tsmukan", "cmukan"},
		{"ngal", "ŋal"},
		{"txep", "ƭep"},
		{"pxay", "ƥă"},
		{"kxetse", "ƙece"},
		{"kllkxem", "kɭƙem"},
		{"'rrta", "'ɽta"},
		{"tsawke", "cāke"},
		{"eywa", "ĕwa"},
		{"lew", "lē"},
		{"sngap", "sŋap"},
		{"n·g", "ng"},
	}

	for _, tt := range tests {
		result := Compress(tt.word)
		if result != tt.expected {
			t.Errorf("Compress(%q) = %q, want %q", tt.word, result, tt.expected)
		}
	}
}

func TestDecompressInsertsInterpunct(t *testing.T) {
	if got := Decompress("tangu"); got != "tan·gu" {
		t.Errorf("Decompress(%q) = %q, want %q", "tangu", got, "tan·gu")
	}
	if got := Decompress("taŋu"); got != "tangu" {
		t.Errorf("Decompress(%q) = %q, want %q", "taŋu", got, "tangu")
	}
}

func TestRoundTrip(t *testing.T) {
	words := []string{
		"kelku", "fwampop", "tìralpeng", "txon", "skxawng", "ayoeng",
		"'awkx", "kxetse", "tsawke", "pxel", "eywa'eveng", "kllkxem",
		"vrrtep", "ngaytxoa", "Kelnì", "säspxin", "ùo", "téri", "fayluta",
		"gor", "ban·gi", "tsyìp", "fkeyk", "mrrvolaw", "'u", "aysngawtu",
	}

	for _, w := range words {
		t.Run(w, func(t *testing.T) {
			compressed := Compress(w)
			if got := Decompress(compressed); got != w {
				t.Errorf("Decompress(Compress(%q)) = %q via %q", w, got, compressed)
			}
		})
	}
}

func TestCompressIsOneRunePerPhoneme(t *testing.T) {
	tests := []struct {
		word  string
		runes int
	}{
		{"tsxatsx", 5},
		{"ngay", 2},
		{"txeptxep", 6},
	}

	for _, tt := range tests {
		if got := utf8.RuneCountInString(Compress(tt.word)); got != tt.runes {
			t.Errorf("rune count of Compress(%q) = %d, want %d", tt.word, got, tt.runes)
		}
	}
}

func TestSymbol(t *testing.T) {
	if r, ok := Symbol("kx"); !ok || r != KX {
		t.Errorf("Symbol(kx) = %q, %v", r, ok)
	}
	if _, ok := Symbol("zz"); ok {
		t.Error("Symbol(zz) should not exist")
	}
}

func BenchmarkCompress(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Compress("aysngawtuyä")
	}
}
