// Package ui provides terminal UI components using pterm.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"kame/internal/dialect"
	"kame/internal/dictionary"
	"kame/internal/resolver"
	"kame/internal/schema"
)

// Theme colors for consistent styling
var (
	ColorPrimary   = pterm.FgCyan
	ColorSecondary = pterm.FgLightBlue
	ColorSuccess   = pterm.FgGreen
	ColorWarning   = pterm.FgYellow
	ColorError     = pterm.FgRed
	ColorMuted     = pterm.FgGray
	// ColorChanged marks sounds changed by lenition or voicing.
	ColorChanged = pterm.FgMagenta
)

// UI wraps pterm components for kame.
type UI struct {
	quiet   bool
	verbose bool
}

// New creates a new UI instance.
func New(quiet, verbose bool) *UI {
	if quiet {
		pterm.DisableOutput()
	}
	return &UI{quiet: quiet, verbose: verbose}
}

// NewLogger returns a structured logger writing to stderr. Unknown levels
// fall back to info.
func NewLogger(level string, json bool) *pterm.Logger {
	logger := pterm.DefaultLogger.
		WithLevel(ParseLevel(level)).
		WithWriter(os.Stderr)
	if json {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger
}

// ParseLevel maps a level name to a pterm log level.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(level) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// Banner prints the application banner.
func (u *UI) Banner() {
	pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("ka", pterm.NewStyle(ColorPrimary)),
		pterm.NewLettersFromStringWithStyle("me", pterm.NewStyle(ColorSecondary)),
	).Render()

	pterm.DefaultCenter.Println(
		ColorMuted.Sprint("Na'vi morphology"),
	)
	fmt.Println()
}

// Config prints the configuration summary.
func (u *UI) Config(dialect string, sources []string, workers int) {
	pterm.DefaultSection.Println("Configuration")

	data := [][]string{
		{"Dialect", dialect},
		{"Dictionary", strings.Join(sources, ", ")},
		{"Workers", fmt.Sprintf("%d", workers)},
	}

	pterm.DefaultTable.WithData(data).Render()
	fmt.Println()
}

// Phase prints a phase header.
func (u *UI) Phase(number int, total int, name string) {
	pterm.DefaultSection.WithLevel(2).Println(
		fmt.Sprintf("[%d/%d] %s", number, total, name),
	)
}

// Spinner creates a spinner for long operations.
func (u *UI) Spinner(message string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		Start(message)
	return spinner
}

// Progress creates a progress bar.
func (u *UI) Progress(title string, total int) *pterm.ProgressbarPrinter {
	pb, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		Start()
	return pb
}

// SourceStatus prints status for one dictionary source.
func (u *UI) SourceStatus(source string, status string, details string) {
	prefix := ColorPrimary.Sprintf("[%s]", source)
	switch status {
	case "ok":
		pterm.Success.Println(prefix, details)
	case "skip":
		pterm.Warning.Println(prefix, details)
	case "error":
		pterm.Error.Println(prefix, details)
	case "info":
		pterm.Info.Println(prefix, details)
	default:
		fmt.Printf("%s %s\n", prefix, details)
	}
}

// Highlight renders a simple-format conjugation cell for display: morpheme
// dashes are dropped, alternatives are separated by " / ", and sounds
// wrapped in braces are colored.
func Highlight(cell string) string {
	alternatives := strings.Split(cell, ";")
	for i, alt := range alternatives {
		var b strings.Builder
		var changed strings.Builder
		inside := false
		for _, r := range alt {
			switch {
			case r == '-':
			case r == '{':
				inside = true
			case r == '}':
				inside = false
				b.WriteString(ColorChanged.Sprint(changed.String()))
				changed.Reset()
			case inside:
				changed.WriteRune(r)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteString(changed.String())
		alternatives[i] = b.String()
	}
	return strings.Join(alternatives, " / ")
}

// Analysis renders the root and affixes of a result, e.g. "kelku me- -l".
func Analysis(r *resolver.Result) string {
	root := ""
	if len(r.Steps) > 0 {
		root = stepRoot(r.Steps[0])
	}
	if root == "" {
		root = firstWord(r.Entry)
	}

	parts := []string{root}
	for _, a := range r.Affixes {
		switch a.Type {
		case schema.AffixPrefix:
			parts = append(parts, a.Affix+"-")
		case schema.AffixInfix:
			parts = append(parts, "<"+a.Affix+">")
		case schema.AffixSuffix:
			parts = append(parts, "-"+a.Affix)
		}
	}
	return strings.Join(parts, " ")
}

func stepRoot(step schema.Step) string {
	switch s := step.(type) {
	case *schema.NounStep:
		return s.Root
	case *schema.VerbStep:
		return s.Root
	case *schema.AdjectiveStep:
		return s.Root
	case *schema.VerbToNounStep:
		return s.Root
	case *schema.VerbToAdjectiveStep:
		return s.Root
	case *schema.VerbToParticipleStep:
		return s.Root
	case *schema.AdjectiveToAdverbStep:
		return s.Root
	case *schema.GerundStep:
		return s.Root
	}
	return ""
}

func firstWord(e schema.Entry) string {
	for _, d := range []dialect.Dialect{dialect.FN, dialect.Combined, dialect.RN} {
		if w := e.Word[d]; w != "" {
			return w
		}
	}
	return ""
}

// note describes how a result was reached.
func note(r *resolver.Result) string {
	var notes []string
	if r.Exact {
		notes = append(notes, ColorSuccess.Sprint("exact"))
	}
	if r.ExternalLenition {
		notes = append(notes, ColorChanged.Sprint("lenited"))
	}
	if r.Corrected() {
		notes = append(notes, ColorWarning.Sprint("corrected"))
	}
	return strings.Join(notes, ", ")
}

// Word prints the analyses of one query word.
func (u *UI) Word(w resolver.Word, limit int) {
	pterm.DefaultSection.WithLevel(2).Println(w.Query)

	if len(w.Results) == 0 {
		pterm.Warning.Println("No analysis found")
		u.Suggestions(w.Suggestions)
		return
	}

	data := pterm.TableData{{"#", "Word", "Type", "Analysis", "Gloss", "Note"}}
	for i := range w.Results {
		if limit > 0 && i >= limit {
			break
		}
		r := &w.Results[i]
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			firstWord(r.Entry),
			r.Entry.Type,
			Analysis(r),
			r.Gloss,
			note(r),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if limit > 0 && len(w.Results) > limit {
		u.Debug(fmt.Sprintf("%d more analyses hidden", len(w.Results)-limit))
	}
	fmt.Println()
}

// Suggestions prints nearest dictionary words.
func (u *UI) Suggestions(suggestions []dictionary.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	data := pterm.TableData{{"Did you mean", "Distance", "Meaning"}}
	for _, s := range suggestions {
		meaning := ""
		if len(s.Entries) > 0 {
			meaning = s.Entries[0].Translation("en")
		}
		data = append(data, []string{s.Word, fmt.Sprintf("%d", s.Distance), meaning})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// NounTable prints a plural × case table in simple format.
func (u *UI) NounTable(title string, plurals, cases []string, rows [][]string) {
	pterm.DefaultSection.WithLevel(2).Println(title)

	header := []string{""}
	for _, c := range cases {
		if c == "" {
			c = "-"
		}
		header = append(header, c)
	}
	data := pterm.TableData{header}
	for i, row := range rows {
		label := "-"
		if i < len(plurals) && plurals[i] != "" {
			label = plurals[i]
		}
		line := []string{label}
		for _, cell := range row {
			line = append(line, Highlight(cell))
		}
		data = append(data, line)
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
	fmt.Println()
}

// Forms prints labelled forms, e.g. adjective positions or verb infixes.
func (u *UI) Forms(title string, forms map[string]string) {
	pterm.DefaultSection.WithLevel(2).Println(title)

	keys := make([]string, 0, len(forms))
	for k := range forms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := pterm.TableData{{"Form", "Word"}}
	for _, k := range keys {
		data = append(data, []string{k, Highlight(forms[k])})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// Rhymes prints rhyme groups.
func (u *UI) Rhymes(word string, groups []dictionary.RhymeGroup, root func(schema.Entry) string) {
	pterm.DefaultSection.WithLevel(2).Println("Rhymes with " + word)
	if len(groups) == 0 {
		pterm.Warning.Println("No rhymes found")
		return
	}

	data := pterm.TableData{{"Syllables", "Words"}}
	for _, g := range groups {
		words := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			words = append(words, root(e))
		}
		data = append(data, []string{fmt.Sprintf("%d", g.Syllables), strings.Join(words, ", ")})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// Pronunciations prints word/IPA pairs.
func (u *UI) Pronunciations(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	pterm.DefaultSection.WithLevel(2).Println("IPA")
	data := pterm.TableData{{"Word", "IPA"}}
	data = append(data, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// ClassStats prints per-class counts.
func (u *UI) ClassStats(byClass map[string]int) {
	if len(byClass) == 0 {
		return
	}

	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	data := pterm.TableData{{"Class", "Entries"}}
	for _, c := range classes {
		data = append(data, []string{c, fmt.Sprintf("%d", byClass[c])})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// FinalReport prints the final summary report.
func (u *UI) FinalReport(entries int, queries int, duration time.Duration) {
	pterm.DefaultSection.Println("Summary")

	throughput := float64(0)
	if duration > 0 {
		throughput = float64(queries) / duration.Seconds()
	}
	panel := pterm.DefaultBox.WithTitle("Results").Sprint(
		fmt.Sprintf(
			"  Entries:     %s\n"+
				"  Queries:     %s\n"+
				"  Duration:    %s\n"+
				"  Throughput:  %s queries/sec",
			ColorSuccess.Sprintf("%d", entries),
			ColorPrimary.Sprintf("%d", queries),
			ColorWarning.Sprint(duration.Round(time.Millisecond)),
			pterm.FgMagenta.Sprintf("%.0f", throughput),
		),
	)
	fmt.Println(panel)
}

// Success prints a success message.
func (u *UI) Success(message string) {
	pterm.Success.Println(message)
}

// Error prints an error message.
func (u *UI) Error(message string) {
	pterm.Error.Println(message)
}

// Warning prints a warning message.
func (u *UI) Warning(message string) {
	pterm.Warning.Println(message)
}

// Info prints an info message.
func (u *UI) Info(message string) {
	pterm.Info.Println(message)
}

// Debug prints a debug message (only in verbose mode).
func (u *UI) Debug(message string) {
	if u.verbose {
		pterm.Debug.Println(message)
	}
}

// Separator prints a visual separator.
func (u *UI) Separator() {
	pterm.DefaultBasicText.Println(ColorMuted.Sprint("─────────────────────────────────────────────────────────────"))
}

// Done prints the completion message.
func (u *UI) Done() {
	fmt.Println()
	pterm.DefaultCenter.Println(
		ColorSuccess.Sprint("✓ Done!"),
	)
}
