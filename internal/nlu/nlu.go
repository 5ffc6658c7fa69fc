// Package nlu classifies a single Dutch user utterance into an intent and
// extracts styling slots from it. Parsing is rule-based: an ordered list of
// (predicate, constructor) pairs evaluated top to bottom, first match wins.
package nlu

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of one utterance.
type Intent string

const (
	IntentOutfitRequest Intent = "outfit.request"
	IntentOutfitRefine  Intent = "outfit.refine"
	IntentCapabilities  Intent = "info.capabilities"
	IntentSmalltalk     Intent = "smalltalk"
)

// ParsedQuery is the result of parsing one utterance. Zero-valued slots mean
// the utterance did not mention them.
type ParsedQuery struct {
	Intent     Intent   `json:"intent"`
	StyleLevel string   `json:"styleLevel,omitempty"`
	Season     string   `json:"season,omitempty"`
	Occasion   string   `json:"occasion,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Gender     string   `json:"gender,omitempty"`
}

var capabilityPhrases = []string{
	"wat kan je", "wat kun je", "mogelijkheden", "what can you do", "help", "hulp",
}

// greetingRe matches a short standalone greeting anchored at the start.
var greetingRe = regexp.MustCompile(`^(hoi|hallo|hey|hi|yo|goedemorgen|goedemiddag|goedenavond|goeiemorgen)\b[\s!.?]*(nova[\s!.?]*)?$`)

// styleSynonyms maps vocabulary keywords to a normalized style level. Order
// matters: the first keyword found in the text wins, so compound forms
// ("smart casual") precede their parts ("casual").
var styleSynonyms = []struct{ keyword, level string }{
	{"smart casual", "smart casual"},
	{"business casual", "smart casual"},
	{"business", "smart casual"},
	{"smart", "smart casual"},
	{"zakelijk", "smart casual"},
	{"netjes", "smart casual"},
	{"formeel", "formeel"},
	{"formal", "formeel"},
	{"chic", "formeel"},
	{"gala", "formeel"},
	{"casual", "casual"},
	{"relaxed", "casual"},
}

var seasonSynonyms = []struct{ keyword, season string }{
	{"lente", "lente"},
	{"voorjaar", "lente"},
	{"zomer", "zomer"},
	{"herfst", "herfst"},
	{"najaar", "herfst"},
	{"winter", "winter"},
}

var occasions = []string{
	"kantoor", "werk", "bruiloft", "date", "feest", "festival",
	"weekend", "vakantie", "sport",
}

var colors = []string{
	"zwart", "wit", "grijs", "beige", "navy", "blauw",
	"groen", "rood", "bruin", "roze", "camel",
}

var refineCues = []string{
	"nog een", "nog meer", "meer", "andere", "anders", "opnieuw", "varieer",
}

var maleRe = regexp.MustCompile(`\b(man|heren?)\b`)
var femaleRe = regexp.MustCompile(`\b(vrouw|dames?)\b`)

type rule struct {
	match func(string) bool
	build func(string) ParsedQuery
}

var rules = []rule{
	{
		match: func(q string) bool { return containsAny(q, capabilityPhrases) },
		build: func(string) ParsedQuery { return ParsedQuery{Intent: IntentCapabilities} },
	},
	{
		match: greetingRe.MatchString,
		build: func(string) ParsedQuery { return ParsedQuery{Intent: IntentSmalltalk} },
	},
	{
		match: func(string) bool { return true },
		build: buildOutfitQuery,
	},
}

// Parse maps raw user text to a ParsedQuery. It is pure and total: any
// input, including the empty string, yields a valid result and unclassified
// utterances default to an outfit request.
func Parse(text string) ParsedQuery {
	q := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if r.match(q) {
			return r.build(q)
		}
	}
	return ParsedQuery{Intent: IntentOutfitRequest}
}

func buildOutfitQuery(q string) ParsedQuery {
	pq := ParsedQuery{Intent: IntentOutfitRequest}

	for _, s := range styleSynonyms {
		if strings.Contains(q, s.keyword) {
			pq.StyleLevel = s.level
			break
		}
	}
	for _, s := range seasonSynonyms {
		if strings.Contains(q, s.keyword) {
			pq.Season = s.season
			break
		}
	}
	for _, o := range occasions {
		if strings.Contains(q, o) {
			pq.Occasion = o
			break
		}
	}
	// Colors are collected, not first-match: an outfit can name several.
	seen := map[string]bool{}
	for _, c := range colors {
		if strings.Contains(q, c) && !seen[c] {
			pq.Colors = append(pq.Colors, c)
			seen[c] = true
		}
	}
	switch {
	case maleRe.MatchString(q):
		pq.Gender = "male"
	case femaleRe.MatchString(q):
		pq.Gender = "female"
	}

	hasSignal := pq.StyleLevel != "" || pq.Season != "" || pq.Occasion != "" || len(pq.Colors) > 0
	if hasSignal && containsAny(q, refineCues) {
		pq.Intent = IntentOutfitRefine
	}
	return pq
}

func containsAny(q string, vocab []string) bool {
	for _, v := range vocab {
		if strings.Contains(q, v) {
			return true
		}
	}
	return false
}
