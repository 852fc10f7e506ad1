package verb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConjugate(t *testing.T) {
	tests := []struct {
		name     string
		stem     string
		infixes  Infixes
		expected []string
	}{
		{"no infixes", "t.ar.on", Infixes{}, []string{"taron"}},
		{"first infix", "t.ar.on", Infixes{First: "am"}, []string{"tamaron"}},
		{"second infix", "t.ar.on", Infixes{Second: "ei"}, []string{"tareion"}},
		{"all slots", "t.ar.on", Infixes{Prefirst: "äp", First: "ìy", Second: "äng"}, []string{"täpìyarängon"}},
		{"ìyev spellings", "t.ar.on", Infixes{First: "ìyev"}, []string{"tìyevaron", "tiyevaron"}},
		{"ol next to plain vowel", "t.ol.xe", Infixes{First: "am"}, []string{"tamolxe"}},
		{"ol does not contract with ol", "t.ol.xe", Infixes{First: "ol"}, []string{"tololxe"}},
		{"äng is not a pseudovowel", "t.äng.ul", Infixes{Second: "äng"}, []string{"tängängul"}},
		{"ol contracts with ll", "k.ll.kxem", Infixes{First: "ol"}, []string{"kolkxem"}},
		{"other infixes keep ll", "k.ll.kxem", Infixes{First: "am"}, []string{"kamllkxem"}},
		{"er contracts with rr", "t.rr.yä", Infixes{First: "er"}, []string{"teryä"}},
		{"optional ll collapses", "k.(ll).kxem", Infixes{First: "ol"}, []string{"kolkxem"}},
		{"optional ll kept otherwise", "k.(ll).kxem", Infixes{First: "am"}, []string{"kamllkxem", "kamkxem"}},
		{"ei before i", "k.ä.i", Infixes{Second: "ei"}, []string{"käeiyi"}},
		{"äng before i", "k.ä.i", Infixes{Second: "äng"}, []string{"käängi", "käengi"}},
		{"uy after u", "k.u.p", Infixes{Second: "uy"}, []string{"kuyp"}},
		{"uy after other vowels", "k.ä.i", Infixes{Second: "uy"}, []string{"käuyi"}},
		{"zenke bare", "z.en.(e)ke", Infixes{}, []string{"zenke"}},
		{"zenke with ats", "z.en.(e)ke", Infixes{Second: "ats"}, []string{"zenatseke"}},
		{"zenke with uy", "z.en.(e)ke", Infixes{Second: "uy"}, []string{"zenuyeke"}},
		{"zenke with ei", "z.en.(e)ke", Infixes{Second: "ei"}, []string{"zeneike"}},
		{"no infix sites", "lu", Infixes{First: "am"}, []string{"lu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Forms(tt.stem, tt.infixes))
		})
	}
}

func TestConjugateString(t *testing.T) {
	assert.Equal(t, "t--am-ar--on", Conjugate("t.ar.on", Infixes{First: "am"}))
}

func TestParse(t *testing.T) {
	tests := []struct {
		word     string
		stem     string
		root     string
		expected Infixes
	}{
		{"tamolxe", "t.ol.xe", "tolxe", Infixes{First: "am"}},
		{"kolkxem", "k.ll.kxem", "kllkxem", Infixes{First: "ol"}},
		{"zenatseke", "z.en.(e)ke", "zenke", Infixes{Second: "ats"}},
		{"zenuyeke", "z.en.(e)ke", "zenke", Infixes{Second: "uy"}},
		{"käeiyi", "k.ä.i", "käi", Infixes{Second: "ei"}},
		{"käengi", "k.ä.i", "käi", Infixes{Second: "äng"}},
		{"tiyevaron", "t.ar.on", "taron", Infixes{First: "ìyev"}},
		{"täpeykolaron", "t.ar.on", "taron", Infixes{Prefirst: "äpeyk", First: "ol"}},
		{"Taron", "t.ar.on", "taron", Infixes{}},
		{"amomum", ".om.um", "omum", Infixes{First: "am"}},
		{"aminan", ".i.nan", "inan", Infixes{First: "am"}},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			u := Unverified{Root: tt.root, Infixes: tt.expected}
			assert.Contains(t, Parse(tt.word), u)
			assert.Empty(t, u.Verify(tt.stem, tt.word).Correction)
		})
	}
}

func TestVerifyFlagsCorrection(t *testing.T) {
	// ei before i is spelled eiy
	u := Unverified{Root: "käi", Infixes: Infixes{Second: "ei"}}
	assert.Contains(t, Parse("käeii"), u)
	assert.Equal(t, "käeii", u.Verify("k.ä.i", "käeii").Correction)
}

func TestParseOvergenerates(t *testing.T) {
	// the am inside tamaron's root is also tried as an infix
	assert.Contains(t, Parse("tamaron"), Unverified{Root: "taron", Infixes: Infixes{First: "am"}})
	assert.Contains(t, Parse("tamaron"), Unverified{Root: "tamaron"})
	assert.Empty(t, Parse(""))
}

func TestParseInvertsConjugate(t *testing.T) {
	stems := map[string]string{
		"t.ar.on":    "taron",
		"k.ä.i":      "käi",
		"t.ol.xe":    "tolxe",
		"k.ll.kxem":  "kllkxem",
		"z.en.(e)ke": "zenke",
		".om.um":     "omum",
		".i.nan":     "inan",
	}
	infixSets := []Infixes{
		{},
		{First: "am"},
		{Prefirst: "äp", First: "ìy"},
		{First: "ol", Second: "ei"},
		{First: "ìyev"},
		{Second: "äng"},
		{Prefirst: "eyk", First: "us"},
		{Second: "uy"},
	}

	for stem, root := range stems {
		for _, infixes := range infixSets {
			for _, form := range Forms(stem, infixes) {
				u := Unverified{Root: root, Infixes: infixes}
				assert.Contains(t, Parse(form), u, "%q from %s %v", form, stem, infixes)
				assert.Empty(t, u.Verify(stem, form).Correction, "%q from %s %v", form, stem, infixes)
			}
		}
	}
}

func TestCombinedFrom(t *testing.T) {
	assert.Equal(t, []string{"ìy", "s"}, CombinedFrom["ìsy"])
	assert.Nil(t, CombinedFrom["am"])
	assert.True(t, IsParticiple("awn"))
	assert.False(t, IsParticiple("am"))
}
