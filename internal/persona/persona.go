// Package persona maps a conversation mode to an upstream model and a
// system prompt.
package persona

import "os"

// Mode is the declared conversation purpose.
type Mode string

const (
	ModeOutfits   Mode = "outfits"
	ModeArchetype Mode = "archetype"
	ModeShop      Mode = "shop"
)

const (
	// Outfit composition is the heavier generation task, so it defaults to
	// the more capable model.
	defaultModelOutfits   = "gpt-4o"
	defaultModelArchetype = "gpt-4o-mini"
	defaultModelShop      = "gpt-4o-mini"
)

const basePrompt = "Je bent Nova, premium AI-stylist. Antwoord NL, kort en duidelijk. " +
	"Geen generieke welkomsttekst na een vraag. Max. 1 verduidelijking."

// Resolved is the outcome of routing one request's mode.
type Resolved struct {
	Mode         Mode
	Model        string
	SystemPrompt string
}

// Router resolves modes to model/persona pairs. Model overrides are looked
// up through getenv on every call, so rotated configuration takes effect
// without a restart.
type Router struct {
	getenv func(string) string
}

// NewRouter returns a Router backed by the process environment.
func NewRouter() *Router {
	return &Router{getenv: os.Getenv}
}

// NewRouterWithEnv returns a Router with a custom environment lookup.
// Intended for tests.
func NewRouterWithEnv(getenv func(string) string) *Router {
	return &Router{getenv: getenv}
}

// Normalize coerces an unrecognized mode to outfits. This never errors.
func Normalize(raw string) Mode {
	switch Mode(raw) {
	case ModeOutfits, ModeArchetype, ModeShop:
		return Mode(raw)
	}
	return ModeOutfits
}

// Route resolves the given raw mode to its model identifier and persona
// system prompt.
func (r *Router) Route(raw string) Resolved {
	mode := Normalize(raw)
	res := Resolved{Mode: mode}

	switch mode {
	case ModeArchetype:
		res.Model = r.override("NOVA_MODEL_ARCHETYPE", defaultModelArchetype)
		res.SystemPrompt = basePrompt + " Leg archetype uit in 3 bullets + 1 do/don't."
	case ModeShop:
		res.Model = r.override("NOVA_MODEL_SHOP", defaultModelShop)
		res.SystemPrompt = basePrompt + " Geef 3–5 shoprichtingen met filters (fit, materiaal, kleur)."
	default:
		res.Model = r.override("NOVA_MODEL_OUTFITS", defaultModelOutfits)
		res.SystemPrompt = basePrompt + " Geef 3 outfits met titel, 1–2 bullets en 1 zin \"waarom\"."
	}
	return res
}

func (r *Router) override(key, fallback string) string {
	if v := r.getenv(key); v != "" {
		return v
	}
	return fallback
}
