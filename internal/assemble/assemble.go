// Package assemble picks and renders report content from the DB-backed
// pools: short result cards, the longform markdown report, and the strategy
// deck. All three share one selection pattern: query by discriminator +
// score range + tone, gate on tags and conditions, sort by priority, then
// weighted-pick inside a bounded window.
package assemble

import (
	"github.com/todaylotto/backend/internal/condition"
	"github.com/todaylotto/backend/internal/domain"
)

// Context carries the scoring outcome the assemblers select against.
type Context struct {
	Score       int
	Tone        domain.Tone
	Axes        domain.AxisVector
	Tags        domain.TagSet
	WarningMode bool
}

func (c Context) conditionCtx() condition.Context {
	return condition.Context{Score: c.Score, Axes: c.Axes, Tags: c.Tags}
}

// tonesFor is the tone scope of every pool query: the session tone plus
// the ANY wildcard.
func tonesFor(tone domain.Tone) []domain.Tone {
	return []domain.Tone{tone, domain.ToneAny}
}

// ResultCard is one short card in the report.
type ResultCard struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// StrategyCard is one rendered strategy-deck card.
type StrategyCard struct {
	CardType string   `json:"cardType"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Footer   string   `json:"footer"`
	Tags     []string `json:"tags"`
}

// Longform is the rendered markdown report.
type Longform struct {
	Tone     domain.Tone
	Markdown string
}
