package schema

import (
	"encoding/json"

	"kame/internal/adjective"
	"kame/internal/conjstring"
	"kame/internal/noun"
	"kame/internal/verb"
)

// StepKind names a conjugation or derivation step.
type StepKind string

const (
	StepNoun              StepKind = "n"
	StepVerb              StepKind = "v"
	StepAdjective         StepKind = "adj"
	StepVerbToNoun        StepKind = "v_to_n"
	StepVerbToAdjective   StepKind = "v_to_adj"
	StepVerbToParticiple  StepKind = "v_to_part"
	StepAdjectiveToAdverb StepKind = "adj_to_adv"
	StepGerund            StepKind = "gerund"
)

// Step is one conjugation or derivation applied to a word. The concrete
// types are the *...Step structs in this package.
type Step interface {
	Kind() StepKind
	Base() *StepResult
	isStep()
}

// StepResult is the part every step carries.
type StepResult struct {
	Conjugation string `json:"conjugation"`
	Correction  string `json:"correction,omitempty"`
	Translation string `json:"translation,omitempty"`
}

// Base returns r itself so embedding steps expose it through Step.
func (r *StepResult) Base() *StepResult { return r }

// Forms expands the conjugation string.
func (r *StepResult) Forms() []string {
	return conjstring.Expand(r.Conjugation)
}

type NounStep struct {
	StepResult
	Root     string       `json:"root"`
	Affixes  noun.Affixes `json:"affixes"`
	Loanword bool         `json:"loanword,omitempty"`
}

type VerbStep struct {
	StepResult
	Root    string       `json:"root"`
	Infixes verb.Infixes `json:"infixes"`
}

type AdjectiveStep struct {
	StepResult
	Root string         `json:"root"`
	Form adjective.Form `json:"form"`
}

// VerbToNounStep derives an agent (-yu) or ability (-tswo) noun.
type VerbToNounStep struct {
	StepResult
	Root   string `json:"root"`
	Suffix string `json:"suffix"`
}

// VerbToAdjectiveStep derives -tsuk (able to be) or ke-...-tsuk adjectives.
type VerbToAdjectiveStep struct {
	StepResult
	Root   string `json:"root"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix"`
}

// VerbToParticipleStep marks an active (us) or passive (awn) participle.
type VerbToParticipleStep struct {
	StepResult
	Root  string `json:"root"`
	Infix string `json:"infix"`
}

// AdjectiveToAdverbStep derives an adverb with nì-.
type AdjectiveToAdverbStep struct {
	StepResult
	Root   string `json:"root"`
	Prefix string `json:"prefix"`
}

// GerundStep derives a gerund with tì-...<us>.
type GerundStep struct {
	StepResult
	Root   string `json:"root"`
	Prefix string `json:"prefix"`
	Infix  string `json:"infix"`
}

func (*NounStep) Kind() StepKind              { return StepNoun }
func (*VerbStep) Kind() StepKind              { return StepVerb }
func (*AdjectiveStep) Kind() StepKind         { return StepAdjective }
func (*VerbToNounStep) Kind() StepKind        { return StepVerbToNoun }
func (*VerbToAdjectiveStep) Kind() StepKind   { return StepVerbToAdjective }
func (*VerbToParticipleStep) Kind() StepKind  { return StepVerbToParticiple }
func (*AdjectiveToAdverbStep) Kind() StepKind { return StepAdjectiveToAdverb }
func (*GerundStep) Kind() StepKind            { return StepGerund }

func (*NounStep) isStep()              {}
func (*VerbStep) isStep()              {}
func (*AdjectiveStep) isStep()         {}
func (*VerbToNounStep) isStep()        {}
func (*VerbToAdjectiveStep) isStep()   {}
func (*VerbToParticipleStep) isStep()  {}
func (*AdjectiveToAdverbStep) isStep() {}
func (*GerundStep) isStep()            {}

// Steps is an ordered step chain, innermost first.
type Steps []Step

// Corrected reports whether any step needed a correction.
func (s Steps) Corrected() bool {
	for _, step := range s {
		if step.Base().Correction != "" {
			return true
		}
	}
	return false
}

// MarshalJSON tags every step with its kind.
func (s Steps) MarshalJSON() ([]byte, error) {
	type tagged struct {
		Kind StepKind `json:"kind"`
		Step Step     `json:"step"`
	}
	out := make([]tagged, len(s))
	for i, step := range s {
		out[i] = tagged{Kind: step.Kind(), Step: step}
	}
	return json.Marshal(out)
}

// AffixType is the position of an affix.
type AffixType string

const (
	AffixPrefix AffixType = "prefix"
	AffixInfix  AffixType = "infix"
	AffixSuffix AffixType = "suffix"
)

// AffixData describes one affix found in a word. Entry is nil when the
// affix has no dictionary entry. CombinedFrom lists the parts of a fused
// infix for display.
type AffixData struct {
	Type         AffixType   `json:"type"`
	Affix        string      `json:"affix"`
	Entry        *Entry      `json:"entry,omitempty"`
	CombinedFrom []AffixData `json:"combined_from,omitempty"`
}
