package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecommender struct {
	items    []Product
	err      error
	profile  Profile
	season   string
	count    int
	numCalls int
}

func (s *stubRecommender) Recommend(_ context.Context, profile Profile, count int, season string) ([]Product, error) {
	s.numCalls++
	s.profile = profile
	s.count = count
	s.season = season
	return s.items, s.err
}

func fixedSeason() string { return "winter" }

func TestRespond_CapabilitiesSkipsBackends(t *testing.T) {
	rec := &stubRecommender{}
	o := NewWithSeason(rec, fixedSeason)

	resp := o.Respond(context.Background(), Request{Text: "wat kan je"})
	assert.Equal(t, "text", resp.Type)
	assert.NotEmpty(t, resp.Reply)
	assert.Zero(t, rec.numCalls)
}

func TestRespond_SmalltalkSkipsBackends(t *testing.T) {
	rec := &stubRecommender{}
	o := NewWithSeason(rec, fixedSeason)

	resp := o.Respond(context.Background(), Request{Text: "hoi"})
	assert.Equal(t, "text", resp.Type)
	assert.Zero(t, rec.numCalls)
}

func TestRespond_OutfitRequestMapsItems(t *testing.T) {
	rec := &stubRecommender{items: []Product{
		{ID: "p1", Name: "Wollen overshirt"},
		{ID: "p2", Name: "Donkere jeans"},
	}}
	o := NewWithSeason(rec, fixedSeason)

	resp := o.Respond(context.Background(), Request{Text: "smart casual zwart voor kantoor"})
	require.Equal(t, "outfits", resp.Type)
	require.Len(t, resp.Outfits, 2)
	assert.Equal(t, "Wollen overshirt", resp.Outfits[0].Title)
	assert.Contains(t, resp.Outfits[0].Tags, "smart casual")
	assert.Contains(t, resp.Outfits[0].Tags, "kantoor")
	assert.Contains(t, resp.Outfits[0].Tags, "zwart")
	assert.Contains(t, resp.Reply, "voor kantoor")
	assert.Equal(t, 3, rec.count)
}

func TestRespond_SeasonSlotOverridesCalendar(t *testing.T) {
	rec := &stubRecommender{items: []Product{{ID: "p1", Name: "Linnen shirt"}}}
	o := NewWithSeason(rec, fixedSeason)

	o.Respond(context.Background(), Request{Text: "outfit voor zomer"})
	assert.Equal(t, "zomer", rec.season)

	o.Respond(context.Background(), Request{Text: "outfit voor kantoor"})
	assert.Equal(t, "winter", rec.season)
}

func TestRespond_ProfilePrecedence(t *testing.T) {
	rec := &stubRecommender{items: []Product{{ID: "p1", Name: "Item"}}}
	o := NewWithSeason(rec, fixedSeason)

	o.Respond(context.Background(), Request{
		Text:    "outfit voor kantoor",
		Profile: &Profile{Gender: "female", Archetype: "klassiek"},
		Gender:  "male",
	})
	assert.Equal(t, "klassiek", rec.profile.Archetype)
	assert.Equal(t, "female", rec.profile.Gender)

	o.Respond(context.Background(), Request{Text: "outfit voor kantoor", Gender: "male"})
	assert.Equal(t, "male", rec.profile.Gender)

	o.Respond(context.Background(), Request{Text: "outfit voor een man"})
	assert.Equal(t, "male", rec.profile.Gender)

	o.Respond(context.Background(), Request{Text: "outfit voor kantoor"})
	assert.Equal(t, "neutral", rec.profile.Gender)
}

func TestRespond_EngineFailureDegradesToClarify(t *testing.T) {
	rec := &stubRecommender{err: errors.New("catalog unavailable")}
	o := NewWithSeason(rec, fixedSeason)

	resp := o.Respond(context.Background(), Request{Text: "outfit voor kantoor"})
	assert.Equal(t, "clarify", resp.Type)
	assert.NotEmpty(t, resp.Options)
	assert.Len(t, resp.Options, 3)
}

func TestRespond_ZeroItemsDegradesToClarify(t *testing.T) {
	rec := &stubRecommender{}
	o := NewWithSeason(rec, fixedSeason)

	resp := o.Respond(context.Background(), Request{Text: "outfit voor kantoor"})
	assert.Equal(t, "clarify", resp.Type)
	assert.NotEmpty(t, resp.Options)
}

func TestRespond_NilRecommenderDegradesToClarify(t *testing.T) {
	o := NewWithSeason(nil, fixedSeason)
	resp := o.Respond(context.Background(), Request{Text: "outfit voor kantoor"})
	assert.Equal(t, "clarify", resp.Type)
	assert.Len(t, resp.Options, 3)
}

func TestCurrentSeason_KnownValue(t *testing.T) {
	assert.Contains(t, []string{"lente", "zomer", "herfst", "winter"}, CurrentSeason())
}
