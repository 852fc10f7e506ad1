package gloss

import (
	"strings"

	"kame/internal/schema"
)

type template func(gloss string) string

func prefix(p string) template {
	return func(g string) string { return p + g }
}

func suffix(s string) template {
	return func(g string) string { return g + s }
}

func verbPrefix(p string) template {
	return func(g string) string { return p + infinitive(g) }
}

func adverb(g string) string {
	switch {
	case strings.HasSuffix(g, "ly"):
		return g
	case strings.HasSuffix(g, "le"):
		return g[:len(g)-1] + "y"
	case strings.HasSuffix(g, "y") && len(g) > 1 && !isVowelByte(g[len(g)-2]):
		return g[:len(g)-1] + "ily"
	default:
		return g + "ly"
	}
}

// templates are keyed by step kind, then affix.
var templates = map[schema.StepKind]map[string]template{
	schema.StepNoun: {
		"fì":    prefix("this "),
		"tsa":   prefix("that "),
		"pe":    prefix("which "),
		"fra":   prefix("every "),
		"me":    func(g string) string { return "two " + plural(g) },
		"pxe":   func(g string) string { return "three " + plural(g) },
		"ay":    plural,
		"fne":   prefix("type of "),
		"tsyìp": prefix("little "),
		"fkeyk": prefix("state of "),
		"o":     prefix("some "),
		"l":     suffix(" (agent)"),
		"t":     accusative,
		"r":     prefix("to "),
		"ä":     possessive,
		"ri":    prefix("as for "),
		"sì":    prefix("and "),
		"to":    prefix("than "),
	},
	schema.StepVerb: {
		"äp":    suffix(" oneself"),
		"eyk":   verbPrefix("make (someone) "),
		"äpeyk": verbPrefix("make oneself "),
		"am":    verbPrefix("did "),
		"ìm":    verbPrefix("just "),
		"ìy":    verbPrefix("will soon "),
		"ay":    verbPrefix("will "),
		"ìsy":   verbPrefix("will soon intend to "),
		"asy":   verbPrefix("will intend to "),
		"ol":    suffix(" (completed)"),
		"er":    suffix(" (ongoing)"),
		"iv":    verbPrefix("may "),
		"ìyev":  verbPrefix("shall soon "),
		"us":    gerund,
		"awn":   pastParticiple,
		"ei":    suffix(" :)"),
		"äng":   suffix(" :("),
		"uy":    suffix(" (formal)"),
		"ats":   suffix(" (inferred)"),
	},
	schema.StepVerbToNoun: {
		"yu":   agent,
		"tswo": verbPrefix("ability to "),
	},
	schema.StepVerbToAdjective: {
		"tsuk":    func(g string) string { return infinitive(g) + "-able" },
		"ke-tsuk": func(g string) string { return "un" + infinitive(g) + "-able" },
	},
	schema.StepVerbToParticiple: {
		"us":  gerund,
		"awn": pastParticiple,
	},
	schema.StepAdjectiveToAdverb: {
		"nì": adverb,
	},
	schema.StepGerund: {
		"tì-us": gerund,
	},
}

// apply runs the template for affix, or the templates of its parts when
// affix is a fused infix without one of its own.
func apply(kind schema.StepKind, affix, g string, parts []string) string {
	if affix == "" {
		return g
	}
	if t, ok := templates[kind][affix]; ok {
		return t(g)
	}
	for _, p := range parts {
		if t, ok := templates[kind][p]; ok {
			g = t(g)
		}
	}
	return g
}
