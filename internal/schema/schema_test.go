package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kame/internal/dialect"
	"kame/internal/noun"
)

func tìralpeng() *Entry {
	return &Entry{
		ID:           1,
		Word:         map[dialect.Dialect]string{dialect.Combined: "tìralpeng"},
		Type:         TypeNoun,
		Translations: []map[string]string{{"en": "interpretation", "de": "Deutung"}},
		Pronunciation: []Pronunciation{
			{Syllables: "tì-ral-peng", Stressed: 2},
		},
		Conjugated: map[dialect.Dialect]*Table{
			dialect.FN: {Noun: [][]string{{"-tìralpeng-"}}},
		},
	}
}

func TestPronunciationShared(t *testing.T) {
	tests := []struct {
		p        Pronunciation
		expected string
	}{
		{Pronunciation{"tì-ral-peng", 2}, "tì-[ral]-peng"},
		{Pronunciation{"kxor", 1}, "kxor"},
		{Pronunciation{"ke-ke", 0}, "ke-ke"},
		{Pronunciation{"tì-kxey sìm-pi", 3}, "tì-kxey [sìm]-pi"},
		{Pronunciation{"oel nga-yi", 2}, "oel [nga]-yi"},
		{Pronunciation{"oel nga-yi", 1}, "oel nga-yi"},
	}

	for _, tt := range tests {
		if got := tt.p.Shared(); got != tt.expected {
			t.Errorf("Shared(%q, %d) = %q, want %q", tt.p.Syllables, tt.p.Stressed, got, tt.expected)
		}
	}
}

func TestEntryRoot(t *testing.T) {
	e := &Entry{
		Word: map[dialect.Dialect]string{dialect.Combined: "kxetse"},
		Pronunciation: []Pronunciation{
			{Syllables: "kxe-tse", Stressed: 1},
		},
	}

	if got := e.Root(dialect.FN); got != "kxetse" {
		t.Errorf("Root(FN) = %q, want kxetse", got)
	}
	if got := e.Root(dialect.RN); got != "getse" {
		t.Errorf("Root(RN) = %q, want getse", got)
	}

	e.Word[dialect.RN] = "kxetse"
	if got := e.Root(dialect.RN); got != "kxetse" {
		t.Errorf("explicit RN spelling ignored, got %q", got)
	}
}

func TestEntryCloneIsDeep(t *testing.T) {
	e := tìralpeng()
	c := e.Clone()

	c.Word[dialect.Combined] = "changed"
	c.Translations[0]["en"] = "changed"
	c.Pronunciation[0].Stressed = 1
	c.Conjugated[dialect.FN].Noun[0][0] = "changed"

	if e.Word[dialect.Combined] != "tìralpeng" {
		t.Error("Clone shares Word")
	}
	if e.Translations[0]["en"] != "interpretation" {
		t.Error("Clone shares Translations")
	}
	if e.Pronunciation[0].Stressed != 2 {
		t.Error("Clone shares Pronunciation")
	}
	if e.Conjugated[dialect.FN].Noun[0][0] != "-tìralpeng-" {
		t.Error("Clone shares Conjugated")
	}
}

func TestEntryTranslation(t *testing.T) {
	e := tìralpeng()
	if got := e.Translation("de"); got != "Deutung" {
		t.Errorf("Translation(de) = %q, want Deutung", got)
	}
	if got := e.Translation("fr"); got != "interpretation" {
		t.Errorf("Translation(fr) = %q, want English fallback", got)
	}
}

func TestEntryMatchesTypes(t *testing.T) {
	e := tìralpeng()

	tests := []struct {
		name     string
		include  []string
		exclude  []string
		expected bool
	}{
		{"no filter", nil, nil, true},
		{"included", NounTypes, nil, true},
		{"not included", AdjectiveTypes, nil, false},
		{"excluded", nil, []string{TypeNoun}, false},
		{"not excluded", nil, AffixTypes, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.MatchesTypes(tt.include, tt.exclude); got != tt.expected {
				t.Errorf("MatchesTypes = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEntryInfixStem(t *testing.T) {
	e := &Entry{Infixes: "kx.am.e"}
	if got := e.InfixStem(dialect.RN); got != "g.am.e" {
		t.Errorf("InfixStem(RN) = %q, want g.am.e", got)
	}
	if got := (&Entry{}).InfixStem(dialect.FN); got != "" {
		t.Errorf("InfixStem without infixes = %q, want empty", got)
	}
}

func TestStepsMarshalJSON(t *testing.T) {
	steps := Steps{&NounStep{
		StepResult: StepResult{Conjugation: "me-{h}elku-"},
		Root:       "kelku",
		Affixes:    noun.Affixes{PluralPrefix: "me"},
	}}

	data, err := json.Marshal(steps)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"n"`) || !strings.Contains(string(data), `"root":"kelku"`) {
		t.Errorf("unexpected JSON %s", data)
	}
	if steps.Corrected() {
		t.Error("Corrected = true for uncorrected chain")
	}
}

func TestDictionaryAddEntryReplaces(t *testing.T) {
	d := NewDictionary("test")
	d.AddEntry(tìralpeng())

	replacement := tìralpeng()
	replacement.Source = "update"
	d.AddEntry(replacement)

	if d.Count() != 1 {
		t.Errorf("Count = %d, want 1", d.Count())
	}
	if d.Entries[1].Source != "update" {
		t.Error("later entry should replace earlier one")
	}
}

func TestDictionaryGetEntriesSorted(t *testing.T) {
	d := NewDictionary("test")
	for _, id := range []int{3, 1, 2} {
		d.AddEntry(&Entry{ID: id})
	}

	entries := d.GetEntriesSorted()
	for i, e := range entries {
		if e.ID != i+1 {
			t.Errorf("entries[%d].ID = %d, want %d", i, e.ID, i+1)
		}
	}
}

func TestDictionarySave(t *testing.T) {
	d := NewDictionary("test_save")
	d.AddEntry(tìralpeng())

	path := filepath.Join(t.TempDir(), "out", "words.json")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if result["name"] != "test_save" {
		t.Errorf("name = %v, want test_save", result["name"])
	}
	if int(result["entry_count"].(float64)) != 1 {
		t.Errorf("entry_count = %v, want 1", result["entry_count"])
	}
	if words, ok := result["words"].([]interface{}); !ok || len(words) != 1 {
		t.Errorf("words = %v, want one entry", result["words"])
	}
}
