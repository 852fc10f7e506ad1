// Package builder precomputes conjugation tables for dictionary entries and
// exports them.
package builder

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"kame/internal/adjective"
	"kame/internal/dialect"
	"kame/internal/noun"
	"kame/internal/schema"
)

// Dialects that get a table.
var Dialects = []dialect.Dialect{dialect.FN, dialect.RN}

// Table classes, also used as output file names.
const (
	ClassNoun      = "nouns"
	ClassPronoun   = "pronouns"
	ClassAdjective = "adjectives"
)

// BuildStats holds statistics from a build operation.
type BuildStats struct {
	TotalEntries int
	Built        int
	Kept         int
	ByClass      map[string]int
	FilesWritten []string
}

// NewBuildStats creates a new BuildStats.
func NewBuildStats() *BuildStats {
	return &BuildStats{ByClass: make(map[string]int)}
}

// ClassOf returns the table class of e, or "" when e has no table.
func ClassOf(e *schema.Entry) string {
	switch {
	case e.MatchesTypes(schema.NounTypes, nil):
		return ClassNoun
	case e.MatchesTypes(schema.PronounTypes, nil):
		return ClassPronoun
	case e.MatchesTypes(schema.AdjectiveTypes, nil):
		return ClassAdjective
	default:
		return ""
	}
}

// TableFor computes the table of e in dialect d. It returns nil for entries
// without a table class.
func TableFor(e *schema.Entry, d dialect.Dialect) *schema.Table {
	root := e.Root(d)
	switch ClassOf(e) {
	case ClassNoun, ClassPronoun:
		return &schema.Table{Noun: noun.Table(root, d, e.IsLoanword())}
	case ClassAdjective:
		t := &schema.Table{Adjective: make(map[string]string, len(adjective.Forms))}
		le := adjective.IsLeDerived(root)
		for _, f := range adjective.Forms {
			t.Adjective[string(f)] = adjective.Conjugate(root, f, le)
		}
		return t
	default:
		return nil
	}
}

// fill adds the missing tables of e and reports whether it built or kept
// any.
func fill(e *schema.Entry) (built, kept bool) {
	for _, d := range Dialects {
		if t := e.Conjugated[d]; t != nil && (len(t.Noun) > 0 || len(t.Adjective) > 0) {
			kept = true
			continue
		}
		t := TableFor(e, d)
		if t == nil {
			return false, false
		}
		if e.Conjugated == nil {
			e.Conjugated = make(map[dialect.Dialect]*schema.Table, len(Dialects))
		}
		e.Conjugated[d] = t
		built = true
	}
	return built, kept
}

// WriteTables writes one JSON file per table class into outputDir.
func WriteTables(outputDir string, entries []schema.Entry, stats *BuildStats) error {
	classes := make(map[string]*schema.Dictionary)
	for i := range entries {
		e := &entries[i]
		class := ClassOf(e)
		if class == "" || len(e.Conjugated) == 0 {
			continue
		}
		dict, ok := classes[class]
		if !ok {
			dict = schema.NewDictionary(class)
			classes[class] = dict
		}
		dict.AddEntry(e)
	}

	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		filePath := filepath.Join(outputDir, name+".json")
		if err := classes[name].Save(filePath); err != nil {
			return fmt.Errorf("writing %s: %w", filePath, err)
		}
		if stats != nil {
			stats.FilesWritten = append(stats.FilesWritten, filePath)
		}
	}
	return nil
}

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"id", "word", "type", "dialect", "plural", "case", "forms"}

// WriteCSV writes every table cell as one row. Adjective rows leave the
// plural empty and put the form in the case column.
func WriteCSV(w io.Writer, entries []schema.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for i := range entries {
		e := &entries[i]
		for _, d := range Dialects {
			t := e.Conjugated[d]
			if t == nil {
				continue
			}
			id := fmt.Sprint(e.ID)
			word := e.Root(d)
			for p, row := range t.Noun {
				for c, cell := range row {
					if p >= len(noun.Plurals) || c >= len(noun.Cases) {
						continue
					}
					record := []string{id, word, e.Type, string(d), noun.Plurals[p], noun.Cases[c], cell}
					if err := cw.Write(record); err != nil {
						return err
					}
				}
			}
			for _, f := range adjective.Forms {
				cell, ok := t.Adjective[string(f)]
				if !ok {
					continue
				}
				if err := cw.Write([]string{id, word, e.Type, string(d), "", string(f), cell}); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
