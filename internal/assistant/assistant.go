// Package assistant implements the chat-driven outfit flow: it interprets
// the user's utterance and answers either directly or via the external
// recommendation engine.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fitfi/nova-gateway/internal/nlu"
)

// maxOutfits bounds how many items are requested from the engine per turn.
const maxOutfits = 3

// Product is one catalog item returned by the recommendation engine.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Color    string  `json:"color,omitempty"`
	Price    float64 `json:"price,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Profile is the minimal user profile the engine needs.
type Profile struct {
	Gender    string `json:"gender"`
	Archetype string `json:"archetype,omitempty"`
}

// Recommender is the external recommendation engine. The gateway calls it
// but does not implement it.
type Recommender interface {
	Recommend(ctx context.Context, profile Profile, count int, season string) ([]Product, error)
}

// Request is one assistant turn.
type Request struct {
	Text    string   `json:"text"`
	Profile *Profile `json:"profile,omitempty"`
	Gender  string   `json:"gender,omitempty"`
}

// Outfit is one display-ready card in the assistant's answer.
type Outfit struct {
	Title string    `json:"title"`
	Items []Product `json:"items"`
	Tags  []string  `json:"tags,omitempty"`
}

// Response is the assistant's answer for one turn. Type is one of "text"
// (canned reply), "outfits" (cards attached) or "clarify" (refinement
// options attached).
type Response struct {
	Type    string          `json:"type"`
	Reply   string          `json:"reply"`
	Outfits []Outfit        `json:"outfits,omitempty"`
	Options []string        `json:"options,omitempty"`
	Query   nlu.ParsedQuery `json:"query"`
}

var clarifyOptions = []string{
	"Casual weekend look",
	"Smart casual voor kantoor",
	"Outfit voor een date",
}

const (
	greetReply        = "Hey! Waar heb je zin in vandaag—een outfitadvies, of iets specifieks zoeken?"
	capabilitiesReply = `Je kunt me vragen om outfits voor een gelegenheid, kleur of seizoen. Probeer: "Outfit voor kantoor in zwart."`
	clarifyReply      = "Vertel me iets meer over wat je zoekt, dan maak ik het concreet. Een paar ideeën:"
)

// Orchestrator drives the flow. A nil Recommender degrades every outfit
// request to a clarify response.
type Orchestrator struct {
	rec    Recommender
	season func() string
}

// New constructs an Orchestrator using the calendar season as fallback.
func New(rec Recommender) *Orchestrator {
	return &Orchestrator{rec: rec, season: CurrentSeason}
}

// NewWithSeason overrides the season helper. Intended for tests.
func NewWithSeason(rec Recommender, season func() string) *Orchestrator {
	return &Orchestrator{rec: rec, season: season}
}

// Respond handles one user turn. It never returns an error: engine failures
// degrade to a clarify response.
func (o *Orchestrator) Respond(ctx context.Context, req Request) Response {
	pq := nlu.Parse(req.Text)

	switch pq.Intent {
	case nlu.IntentCapabilities:
		return Response{Type: "text", Reply: capabilitiesReply, Query: pq}
	case nlu.IntentSmalltalk:
		return Response{Type: "text", Reply: greetReply, Query: pq}
	}

	profile := resolveProfile(req, pq)
	season := pq.Season
	if season == "" {
		season = o.season()
	}

	if o.rec == nil {
		return clarify(pq)
	}
	items, err := o.rec.Recommend(ctx, profile, maxOutfits, season)
	if err != nil {
		log.Warn().Err(err).Msg("recommendation engine failed, degrading to clarify")
		return clarify(pq)
	}
	if len(items) == 0 {
		return clarify(pq)
	}

	tags := slotTags(pq)
	outfits := make([]Outfit, 0, len(items))
	for _, item := range items {
		outfits = append(outfits, Outfit{Title: item.Name, Items: []Product{item}, Tags: tags})
	}

	return Response{Type: "outfits", Reply: buildOutfitReply(pq), Outfits: outfits, Query: pq}
}

func clarify(pq nlu.ParsedQuery) Response {
	return Response{Type: "clarify", Reply: clarifyReply, Options: clarifyOptions, Query: pq}
}

// resolveProfile picks the richest available context: explicit profile,
// then the supplied or parsed gender, then a neutral default.
func resolveProfile(req Request, pq nlu.ParsedQuery) Profile {
	if req.Profile != nil {
		return *req.Profile
	}
	if req.Gender != "" {
		return Profile{Gender: req.Gender}
	}
	if pq.Gender != "" {
		return Profile{Gender: pq.Gender}
	}
	return Profile{Gender: "neutral"}
}

func slotTags(pq nlu.ParsedQuery) []string {
	var tags []string
	if pq.StyleLevel != "" {
		tags = append(tags, pq.StyleLevel)
	}
	if pq.Occasion != "" {
		tags = append(tags, pq.Occasion)
	}
	if pq.Season != "" {
		tags = append(tags, pq.Season)
	}
	tags = append(tags, pq.Colors...)
	return tags
}

func buildOutfitReply(pq nlu.ParsedQuery) string {
	var bits []string
	if pq.Occasion != "" {
		bits = append(bits, "voor "+pq.Occasion)
	}
	if len(pq.Colors) > 0 {
		bits = append(bits, "in "+strings.Join(pq.Colors, " & "))
	}
	if pq.Season != "" {
		bits = append(bits, "voor de "+pq.Season)
	}
	scope := strings.Join(bits, " ")
	if scope == "" {
		scope = "die bij je stijl passen"
	}
	return fmt.Sprintf("Ik heb outfits %s gevonden. Wil je er een opslaan of meer vergelijkbare opties zien?", scope)
}
