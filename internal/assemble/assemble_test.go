package assemble

import (
	"context"
	"io"
	"log/slog"

	"github.com/todaylotto/backend/internal/domain"
)

// The fake stores mirror the repository query contracts: they filter by
// discriminator, score range and tone scope before the assembler sees rows.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func toneIn(tone domain.Tone, tones []domain.Tone) bool {
	for _, t := range tones {
		if t == tone {
			return true
		}
	}
	return false
}

type fakeMessages struct {
	rows []domain.MessagePool
}

func (f *fakeMessages) FindByCategoryScoreTone(ctx context.Context, category domain.MessageCategory, score int, tones []domain.Tone) ([]domain.MessagePool, error) {
	var out []domain.MessagePool
	for _, m := range f.rows {
		if m.Category != category || score < m.MinScore || score > m.MaxScore || !toneIn(m.Tone, tones) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeBlocks struct {
	rows []domain.LongformBlock
}

func (f *fakeBlocks) FindBySectionScoreTone(ctx context.Context, section domain.LongformSection, score int, tones []domain.Tone) ([]domain.LongformBlock, error) {
	var out []domain.LongformBlock
	for _, b := range f.rows {
		if b.Section != section || score < b.MinScore || score > b.MaxScore || !toneIn(b.Tone, tones) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakePhrases struct {
	rows []domain.PhrasePool
}

func (f *fakePhrases) FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.PhrasePool, error) {
	var out []domain.PhrasePool
	for _, p := range f.rows {
		if p.SlotKey != slotKey || !toneIn(p.Tone, tones) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeStyles struct {
	byTone map[domain.Tone]*domain.StyleProfile
}

func (f *fakeStyles) FindByTone(ctx context.Context, tone domain.Tone) (*domain.StyleProfile, error) {
	return f.byTone[tone], nil
}

type fakeCards struct {
	rows []domain.StrategyCardPool
}

func (f *fakeCards) FindByTypeScoreTone(ctx context.Context, cardType string, score int, tones []domain.Tone) ([]domain.StrategyCardPool, error) {
	var out []domain.StrategyCardPool
	for _, c := range f.rows {
		if c.CardType != cardType || score < c.MinScore || score > c.MaxScore || !toneIn(c.Tone, tones) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeSlots struct {
	rows []domain.StrategySlotPool
}

func (f *fakeSlots) FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.StrategySlotPool, error) {
	var out []domain.StrategySlotPool
	for _, s := range f.rows {
		if s.SlotKey != slotKey || !toneIn(s.Tone, tones) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeRules struct {
	byBand map[domain.ScoreBand][]domain.StrategyRuleMap
}

func (f *fakeRules) FindByScoreBand(ctx context.Context, band domain.ScoreBand) ([]domain.StrategyRuleMap, error) {
	return f.byBand[band], nil
}

func normalContext(score int) Context {
	return Context{
		Score: score,
		Tone:  domain.ToneWarm,
		Axes:  domain.NewAxisVector(),
		Tags:  domain.NewTagSet(),
	}
}
