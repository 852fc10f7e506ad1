package dictionary

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kame/internal/dialect"
	"kame/internal/schema"
)

func entry(id int, word, typ, en string, syllables ...string) schema.Entry {
	e := schema.Entry{
		ID:           id,
		Word:         map[dialect.Dialect]string{dialect.Combined: word},
		Type:         typ,
		Translations: []map[string]string{{"en": en}},
	}
	if len(syllables) > 0 {
		e.Pronunciation = []schema.Pronunciation{{Syllables: syllables[0], Stressed: 1}}
	}
	return e
}

func testEntries() []schema.Entry {
	return []schema.Entry{
		entry(7, "tìralpeng", schema.TypeNoun, "interpreter", "tì-ral-peng"),
		entry(1, "kelku", schema.TypeNoun, "home", "kel-ku"),
		entry(2, "kxetse", schema.TypeNoun, "tail", "kxe-tse"),
		entry(3, "sngap", schema.TypeNoun, "chin", "sngap"),
		entry(4, "fngap", schema.TypeNoun, "metal", "fngap"),
		entry(5, "tìsngap", schema.TypeNoun, "pretend", "tì-sngap"),
		entry(6, "oe", schema.TypePronoun, "I", "o-e"),
		entry(8, "kelku", schema.TypeIntransitive, "to inhabit"),
	}
}

func TestGet(t *testing.T) {
	s := NewSnapshot(testEntries())

	e, err := s.Get("Kelku", schema.TypeNoun, dialect.FN)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)

	_, err = s.Get("kelku", schema.TypeAdjective, dialect.FN)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Get("tsko", schema.TypeNoun, dialect.FN)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupsReturnCopies(t *testing.T) {
	s := NewSnapshot(testEntries())

	e, err := s.Get("kelku", schema.TypeNoun, dialect.FN)
	require.NoError(t, err)
	e.Translations[0]["en"] = "changed"
	e.Word[dialect.Combined] = "changed"

	again, err := s.Get("kelku", schema.TypeNoun, dialect.FN)
	require.NoError(t, err)
	assert.Equal(t, "home", again.Translation("en"))
	assert.Equal(t, "kelku", again.Word[dialect.Combined])

	all := s.Entries()
	all[0].Translations[0]["en"] = "changed"
	assert.NotEqual(t, "changed", s.Entries()[0].Translation("en"))
}

func TestSnapshotCopiesInput(t *testing.T) {
	entries := testEntries()
	s := NewSnapshot(entries)
	entries[1].Translations[0]["en"] = "changed"

	e, err := s.ByID(1)
	require.NoError(t, err)
	assert.Equal(t, "home", e.Translation("en"))

	_, err = s.ByID(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOfTypes(t *testing.T) {
	s := NewSnapshot(testEntries())

	nouns := s.GetOfTypes("kelku", schema.NounTypes, dialect.FN)
	require.Len(t, nouns, 1)
	assert.Equal(t, 1, nouns[0].ID)

	others := s.GetNotOfTypes("kelku", schema.NounTypes, dialect.FN)
	require.Len(t, others, 1)
	assert.Equal(t, 8, others[0].ID)

	assert.Len(t, s.Find("kelku", dialect.FN), 2)
	assert.Empty(t, s.GetOfTypes("kelku", []string{schema.TypeAdverb}, dialect.FN))
}

func TestDialectIndexes(t *testing.T) {
	s := NewSnapshot(testEntries())

	assert.Len(t, s.Find("kxetse", dialect.FN), 1)
	assert.Empty(t, s.Find("kxetse", dialect.RN))
	assert.Len(t, s.Find("getse", dialect.RN), 1)
	// Combined uses the FN spelling
	assert.Len(t, s.Find("kxetse", dialect.Combined), 1)
}

func TestFindLoose(t *testing.T) {
	s := NewSnapshot(testEntries())

	found := s.FindLoose("tiralpeng", dialect.FN)
	require.Len(t, found, 1)
	assert.Equal(t, 7, found[0].ID)
}

func TestWords(t *testing.T) {
	s := NewSnapshot(testEntries())
	words := s.Words(dialect.FN)
	assert.Len(t, words, 7)
	assert.IsIncreasing(t, words)
}

func TestSuggest(t *testing.T) {
	s := NewSnapshot(testEntries())

	suggestions := s.Suggest("kelk", dialect.FN, 2, 3)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "kelku", suggestions[0].Word)
	assert.Equal(t, 1, suggestions[0].Distance)
	assert.Len(t, suggestions[0].Entries, 2)

	assert.Empty(t, s.Suggest("zzzzzzzz", dialect.FN, 1, 3))
}

func TestRhymes(t *testing.T) {
	s := NewSnapshot(testEntries())

	groups := s.Rhymes("sngap", dialect.FN)
	require.Len(t, groups, 2)

	assert.Equal(t, 1, groups[0].Syllables)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "fngap", groups[0].Entries[0].Root(dialect.FN))

	assert.Equal(t, 2, groups[1].Syllables)
	require.Len(t, groups[1].Entries, 1)
	assert.Equal(t, "tìsngap", groups[1].Entries[0].Root(dialect.FN))

	assert.Empty(t, s.Rhymes("", dialect.FN))
}

func TestPronouns(t *testing.T) {
	s := NewSnapshot(testEntries())
	forms := s.Pronouns(dialect.FN).Lookup("oe")
	require.NotEmpty(t, forms)
	assert.Equal(t, "oe", forms[0].Lemma)
}

func TestGeneration(t *testing.T) {
	a := NewSnapshot(nil)
	b := NewSnapshot(nil)
	assert.Greater(t, b.Generation(), a.Generation())
	assert.Zero(t, a.Len())
}

func TestStoreReload(t *testing.T) {
	store := NewStore(nil, nil)
	first := store.Load()
	require.NotNil(t, first)

	s, err := store.Reload(context.Background(), func(ctx context.Context) ([]schema.Entry, error) {
		return testEntries(), nil
	})
	require.NoError(t, err)
	assert.Same(t, s, store.Load())
	assert.Equal(t, 8, store.Load().Len())

	_, err = store.Reload(context.Background(), func(ctx context.Context) ([]schema.Entry, error) {
		return nil, errors.New("disk on fire")
	})
	require.Error(t, err)
	assert.Same(t, s, store.Load(), "failed reload must keep the current snapshot")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Reload(ctx, func(ctx context.Context) ([]schema.Entry, error) {
		return testEntries(), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, s, store.Load())

	old := store.Swap(first)
	assert.Same(t, s, old)
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore(NewSnapshot(testEntries()), nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := store.Load()
				// A snapshot is either the old or the new one, never partial
				n := len(snap.Find("kelku", dialect.FN))
				if n != 2 && n != 1 {
					t.Errorf("kelku entries = %d", n)
					return
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		entries := testEntries()
		if i%2 == 0 {
			entries = entries[:len(entries)-1]
		}
		store.Swap(NewSnapshot(entries))
	}
	wg.Wait()
}
