package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/todaylotto/backend/internal/condition"
	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/rng"
	"github.com/todaylotto/backend/internal/textgen"
)

// StrategyCardStore queries strategy-card templates for one card type,
// score and tone scope.
type StrategyCardStore interface {
	FindByTypeScoreTone(ctx context.Context, cardType string, score int, tones []domain.Tone) ([]domain.StrategyCardPool, error)
}

// StrategySlotStore queries slot values by slot key and tone scope.
type StrategySlotStore interface {
	FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.StrategySlotPool, error)
}

// StrategyRuleStore lists the deck-composition rules for a score band.
type StrategyRuleStore interface {
	FindByScoreBand(ctx context.Context, band domain.ScoreBand) ([]domain.StrategyRuleMap, error)
}

// StrategyAssembler builds the strategy-card deck.
type StrategyAssembler struct {
	cards  StrategyCardStore
	slots  StrategySlotStore
	rules  StrategyRuleStore
	logger *slog.Logger
}

func NewStrategyAssembler(cards StrategyCardStore, slots StrategySlotStore, rules StrategyRuleStore, logger *slog.Logger) *StrategyAssembler {
	return &StrategyAssembler{cards: cards, slots: slots, rules: rules, logger: logger}
}

// deckState tracks dedup across one deck build: picked pool rows, card
// types already in the deck, and (type|tags) keys.
type deckState struct {
	usedIDs     map[int64]struct{}
	usedTypes   map[string]struct{}
	usedTagKeys map[string]struct{}
}

func newDeckState() *deckState {
	return &deckState{
		usedIDs:     make(map[int64]struct{}),
		usedTypes:   make(map[string]struct{}),
		usedTagKeys: make(map[string]struct{}),
	}
}

// BuildDeck composes the strategy deck for the session: pick a rule row
// for the score band, fill the mandatory types in order, force a
// BUY_INTENSITY card to the front in warning mode, then fill from the
// optional types up to the rule's card budget. A band with no rules is a
// content-configuration failure.
func (a *StrategyAssembler) BuildDeck(ctx context.Context, ac Context, g *rng.Rng) ([]StrategyCard, error) {
	band := scoreBand(ac.Score, ac.WarningMode)

	rules, err := a.rules.FindByScoreBand(ctx, band)
	if err != nil {
		return nil, fmt.Errorf("query strategy rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, domain.NewContentConfig(fmt.Sprintf("No strategy_rule_map for band=%s", band))
	}

	rule := rng.PickOne(rules, g)

	mandatory := textgen.SplitCSV(rule.MandatoryTypes)
	optional := textgen.SplitCSV(rule.OptionalTypes)
	maxCards := max(2, min(4, rule.MaxCards))

	condCtx := ac.conditionCtx()
	state := newDeckState()
	var picked []StrategyCard

	for _, t := range mandatory {
		c, err := a.pickCard(ctx, t, ac, condCtx, state, g)
		if err != nil {
			return nil, err
		}
		if c != nil {
			card, err := a.renderCard(ctx, *c, ac.Tone, g)
			if err != nil {
				return nil, err
			}
			picked = append(picked, card)
			state.usedIDs[c.ID] = struct{}{}
			state.usedTypes[t] = struct{}{}
		}
	}

	if ac.WarningMode && !deckHasType(picked, domain.CardBuyIntensity) {
		forced, err := a.pickCard(ctx, domain.CardBuyIntensity, ac, condCtx, state, g)
		if err != nil {
			return nil, err
		}
		if forced != nil {
			card, err := a.renderCard(ctx, *forced, ac.Tone, g)
			if err != nil {
				return nil, err
			}
			picked = append([]StrategyCard{card}, picked...)
			state.usedIDs[forced.ID] = struct{}{}
			state.usedTypes[domain.CardBuyIntensity] = struct{}{}
		}
	}

	for len(picked) < maxCards && len(optional) > 0 {
		t := rng.PickOne(optional, g)
		if _, taken := state.usedTypes[t]; taken && len(picked) >= 2 {
			optional = removeType(optional, t)
			continue
		}
		c, err := a.pickCard(ctx, t, ac, condCtx, state, g)
		if err != nil {
			return nil, err
		}
		if c == nil {
			optional = removeType(optional, t)
			continue
		}
		card, err := a.renderCard(ctx, *c, ac.Tone, g)
		if err != nil {
			return nil, err
		}
		picked = append(picked, card)
		state.usedIDs[c.ID] = struct{}{}
		state.usedTypes[t] = struct{}{}
	}

	if len(picked) > 4 {
		picked = picked[:4]
	}
	if len(picked) < 2 {
		for _, t := range []string{domain.CardSafety, domain.CardRule} {
			c, err := a.pickCard(ctx, t, ac, condCtx, state, g)
			if err != nil {
				return nil, err
			}
			if c != nil {
				card, err := a.renderCard(ctx, *c, ac.Tone, g)
				if err != nil {
					return nil, err
				}
				picked = append(picked, card)
			}
		}
	}

	return picked, nil
}

func scoreBand(score int, warningMode bool) domain.ScoreBand {
	if warningMode {
		return domain.BandLow
	}
	if score <= 45 {
		return domain.BandLow
	}
	if score <= 70 {
		return domain.BandMid
	}
	return domain.BandHigh
}

func deckHasType(deck []StrategyCard, cardType string) bool {
	for _, c := range deck {
		if c.CardType == cardType {
			return true
		}
	}
	return false
}

func removeType(types []string, t string) []string {
	for i, v := range types {
		if v == t {
			return append(types[:i], types[i+1:]...)
		}
	}
	return types
}

// pickCard weighted-picks one eligible pool row for the card type, then
// applies the (type|tags) dedup key. A key collision rejects the pick and
// the type yields nothing this round.
func (a *StrategyAssembler) pickCard(ctx context.Context, cardType string, ac Context, condCtx condition.Context, state *deckState, g *rng.Rng) (*domain.StrategyCardPool, error) {
	raw, err := a.cards.FindByTypeScoreTone(ctx, cardType, ac.Score, tonesFor(ac.Tone))
	if err != nil {
		return nil, fmt.Errorf("query %s cards: %w", cardType, err)
	}

	candidates := make([]domain.StrategyCardPool, 0, len(raw))
	for _, c := range raw {
		if _, taken := state.usedIDs[c.ID]; taken {
			continue
		}
		if !textgen.ContainsAll(ac.Tags, c.RequiredTags) {
			continue
		}
		if textgen.ContainsAny(ac.Tags, c.BlockedTags) {
			continue
		}
		if !condition.Matches(c.Conditions, condCtx) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	window := min(120, len(candidates))
	chosen, ok := rng.PickWeighted(candidates[:window], func(c domain.StrategyCardPool) int {
		return max(1, c.Weight+c.Priority)
	}, g)
	if !ok {
		return nil, nil
	}

	// The key applies to untagged cards too, so two blank-tag cards of
	// one type cannot co-occur.
	key := cardType + "|" + chosen.Tags
	if _, taken := state.usedTagKeys[key]; taken {
		return nil, nil
	}
	state.usedTagKeys[key] = struct{}{}
	return &chosen, nil
}

// renderCard fills every slot referenced by the three templates, drawing
// each slot value once so title, body and footer agree.
func (a *StrategyAssembler) renderCard(ctx context.Context, card domain.StrategyCardPool, tone domain.Tone, g *rng.Rng) (StrategyCard, error) {
	merged := card.TitleTemplate + "\n" + card.BodyTemplate + "\n" + card.FooterTemplate
	slotValues := make(map[string]string)
	for _, k := range sortedSlots(merged) {
		v, err := a.pickSlot(ctx, k, tone, g)
		if err != nil {
			return StrategyCard{}, err
		}
		slotValues[k] = v
	}

	return StrategyCard{
		CardType: card.CardType,
		Title:    textgen.Render(card.TitleTemplate, slotValues),
		Body:     textgen.Render(card.BodyTemplate, slotValues),
		Footer:   textgen.Render(card.FooterTemplate, slotValues),
		Tags:     dedupOrdered(textgen.SplitCSV(card.Tags)),
	}, nil
}

func (a *StrategyAssembler) pickSlot(ctx context.Context, slotKey string, tone domain.Tone, g *rng.Rng) (string, error) {
	options, err := a.slots.FindBySlotKeyTone(ctx, slotKey, tonesFor(tone))
	if err != nil {
		return "", fmt.Errorf("query slot %s: %w", slotKey, err)
	}
	if len(options) == 0 {
		return "", nil
	}
	chosen, ok := rng.PickWeighted(options, func(o domain.StrategySlotPool) int {
		return max(1, o.Weight)
	}, g)
	if !ok {
		return "", nil
	}
	return chosen.Text, nil
}

func dedupOrdered(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.TrimSpace(it)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
