package ipa

import (
	"testing"

	"kame/internal/dialect"
	"kame/internal/schema"
)

func TestNewTranscriber(t *testing.T) {
	if tr := NewTranscriber(dialect.RN); tr.Dialect() != dialect.RN {
		t.Errorf("Expected dialect RN, got %q", tr.Dialect())
	}
	if tr := NewTranscriber(dialect.Combined); tr.Dialect() != dialect.FN {
		t.Errorf("combined should transcribe as FN, got %q", tr.Dialect())
	}
}

func TestForestTranscription(t *testing.T) {
	tr := NewTranscriber(dialect.FN)

	tests := []struct {
		syllables string
		stressed  int
		expected  string
	}{
		{"tì-ral-peng", 2, "tɪ.ˈɾal.pɛŋ"},
		{"kxor", 1, "kʼoɾ"},
		{"sngap", 1, "sŋap̚"},
		{"kxe-tse", 1, "ˈkʼɛ.tsɛ"},
		{"tsyìp", 1, "tsjɪp̚"},
		{"tsyìp-ew", 1, "ˈtsjɪp.ɛw"},
		{"na-'a", 1, "ˈna.ʔa"},
		{"ù-o", 1, "ˈu.o"},
		{"skxawng", 1, "skʼawŋ"},
		{"kll-kxem", 1, "ˈkl̩.kʼɛm"},
		{"ey-wa", 1, "ˈɛj.wa"},
		{"oel nga-yi", 2, "oɛl ˈŋa.ji"},
		{"o-el nga-yi", 3, "o.ɛl ˈŋa.ji"},
	}

	for _, tt := range tests {
		p := schema.Pronunciation{Syllables: tt.syllables, Stressed: tt.stressed}
		if result := tr.Transcribe(p, schema.TypeNoun); result != tt.expected {
			t.Errorf("Transcribe(%q) = %q, want %q", tt.syllables, result, tt.expected)
		}
	}
}

func TestReefTranscription(t *testing.T) {
	tr := NewTranscriber(dialect.RN)

	tests := []struct {
		syllables string
		stressed  int
		expected  string
	}{
		{"kxe-tse", 1, "ˈgɛ.tʃɛ"},
		{"na-'a", 1, "ˈna.(ʔ)a"},
		{"ù-o", 1, "ˈʊ.o"},
		{"tì-ral-peng", 2, "tɪ.ˈɾal.pɛŋ"},
		{"kxor", 1, "goɾ"},
	}

	for _, tt := range tests {
		p := schema.Pronunciation{Syllables: tt.syllables, Stressed: tt.stressed}
		if result := tr.Transcribe(p, schema.TypeNoun); result != tt.expected {
			t.Errorf("Transcribe(%q) = %q, want %q", tt.syllables, result, tt.expected)
		}
	}
}

func TestContextRules(t *testing.T) {
	tests := []struct {
		name      string
		d         dialect.Dialect
		syllables string
		stressed  int
		expected  string
	}{
		{"word-final stop", dialect.FN, "ta-rep", 2, "ta.ˈɾɛp̚"},
		{"stop before vowel", dialect.FN, "tsyìp-ew", 1, "ˈtsjɪp.ɛw"},
		{"stop before consonant", dialect.FN, "kxet-se", 1, "ˈkʼɛt̚.sɛ"},
		{"tìftang before ejective", dialect.FN, "me'-kxa", 1, "ˈmɛ.kʼa"},
		{"tìftang kept elsewhere", dialect.FN, "me'-ka", 1, "ˈmɛʔ.ka"},
		{"forest n before velar", dialect.FN, "tsun-ke", 1, "ˈtsun.kɛ"},
		{"reef n before velar", dialect.RN, "tsun-ke", 1, "ˈtʃuŋ.kɛ"},
		{"reef h between vowels", dialect.RN, "na-hu", 1, "ˈna.ɦu"},
		{"reef h after consonant", dialect.RN, "tsan-hu", 1, "ˈtʃan.hu"},
		{"forest h between vowels", dialect.FN, "na-hu", 1, "ˈna.hu"},
		{"reef medial tìftang after consonant", dialect.RN, "tsun-'e", 1, "ˈtʃun.(ʔ)ɛ"},
		{"reef stressed tìftang", dialect.RN, "tsun-'e", 2, "tʃun.ˈʔɛ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := schema.Pronunciation{Syllables: tt.syllables, Stressed: tt.stressed}
			if result := Generate(p, schema.TypeNoun, tt.d); result != tt.expected {
				t.Errorf("Generate(%q, %s) = %q, want %q", tt.syllables, tt.d, result, tt.expected)
			}
		})
	}
}

func TestAffixesAreUnstressed(t *testing.T) {
	p := schema.Pronunciation{Syllables: "kel-ku", Stressed: 1}
	if result := Generate(p, schema.TypeSuffix, dialect.FN); result != "kɛl.ku" {
		t.Errorf("Generate = %q, want %q", result, "kɛl.ku")
	}
}

func BenchmarkTranscribe(b *testing.B) {
	tr := NewTranscriber(dialect.RN)
	p := schema.Pronunciation{Syllables: "tì-kxey-sìm-pi", Stressed: 3}
	for i := 0; i < b.N; i++ {
		tr.Transcribe(p, schema.TypeNoun)
	}
}
