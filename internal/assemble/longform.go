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

// LongformBlockStore queries longform blocks for one section, score and
// tone scope.
type LongformBlockStore interface {
	FindBySectionScoreTone(ctx context.Context, section domain.LongformSection, score int, tones []domain.Tone) ([]domain.LongformBlock, error)
}

// PhraseStore queries slot phrases by slot key and tone scope.
type PhraseStore interface {
	FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.PhrasePool, error)
}

// StyleProfileStore resolves the style profile for a tone. A nil profile
// means none is configured; the assembler falls back to defaults.
type StyleProfileStore interface {
	FindByTone(ctx context.Context, tone domain.Tone) (*domain.StyleProfile, error)
}

// LongformAssembler renders the markdown report.
type LongformAssembler struct {
	blocks  LongformBlockStore
	phrases PhraseStore
	styles  StyleProfileStore
	logger  *slog.Logger
}

func NewLongformAssembler(blocks LongformBlockStore, phrases PhraseStore, styles StyleProfileStore, logger *slog.Logger) *LongformAssembler {
	return &LongformAssembler{blocks: blocks, phrases: phrases, styles: styles, logger: logger}
}

// Generate composes the longform markdown: a section flow decided by the
// warning mode (with one probabilistic insert), each section rendered from
// a weighted block pick with slot phrases, falling back to fixed copy when
// a section's pool is empty.
func (a *LongformAssembler) Generate(ctx context.Context, ac Context, g *rng.Rng) (Longform, error) {
	profile, err := a.styles.FindByTone(ctx, ac.Tone)
	if err != nil {
		return Longform{}, fmt.Errorf("query style profile: %w", err)
	}
	heading := "##"
	emojiRate := 15
	if profile != nil {
		heading = profile.HeadingStyle
		emojiRate = profile.EmojiRate
	}

	sections := decideSections(ac.WarningMode, g)

	var md strings.Builder
	for _, section := range sections {
		md.WriteString(heading)
		md.WriteString(" ")
		md.WriteString(titleForSection(section, ac.Tone))
		md.WriteString("\n")

		paragraph, err := a.pickAndRenderBlock(ctx, section, ac, g)
		if err != nil {
			return Longform{}, err
		}
		if strings.TrimSpace(paragraph) == "" {
			paragraph = fallbackText(section, ac.Tone)
		}

		if g.IntN(100) < emojiRate {
			paragraph += emojiForTone(ac.Tone, g)
		}

		md.WriteString(paragraph)
		md.WriteString("\n\n")
	}

	return Longform{Tone: ac.Tone, Markdown: strings.TrimSpace(md.String())}, nil
}

// decideSections returns the section flow. Warning mode swaps STRATEGY for
// CAUTION in the base flow and inserts STRATEGY back at 55%; the normal
// flow inserts a FUN section at 35%.
func decideSections(warningMode bool, g *rng.Rng) []domain.LongformSection {
	if warningMode {
		base := []domain.LongformSection{
			domain.SectionOpening,
			domain.SectionAnalysis,
			domain.SectionCaution,
			domain.SectionTip,
			domain.SectionConclusion,
		}
		if g.IntN(100) < 55 {
			base = insertAt(base, 3, domain.SectionStrategy)
		}
		return base
	}

	base := []domain.LongformSection{
		domain.SectionOpening,
		domain.SectionAnalysis,
		domain.SectionTip,
		domain.SectionStrategy,
		domain.SectionConclusion,
	}
	if g.IntN(100) < 35 {
		base = insertAt(base, 4, domain.SectionFun)
	}
	return base
}

func insertAt(s []domain.LongformSection, i int, v domain.LongformSection) []domain.LongformSection {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func (a *LongformAssembler) pickAndRenderBlock(ctx context.Context, section domain.LongformSection, ac Context, g *rng.Rng) (string, error) {
	raw, err := a.blocks.FindBySectionScoreTone(ctx, section, ac.Score, tonesFor(ac.Tone))
	if err != nil {
		return "", fmt.Errorf("query %s blocks: %w", section, err)
	}

	condCtx := ac.conditionCtx()
	candidates := make([]domain.LongformBlock, 0, len(raw))
	for _, b := range raw {
		if !textgen.ContainsAll(ac.Tags, b.RequiredTags) {
			continue
		}
		if textgen.ContainsAny(ac.Tags, b.BlockedTags) {
			continue
		}
		if !condition.Matches(b.Conditions, condCtx) {
			continue
		}
		candidates = append(candidates, b)
	}
	if len(candidates) == 0 {
		return "", nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	window := min(60, len(candidates))
	chosen, ok := rng.PickWeighted(candidates[:window], func(b domain.LongformBlock) int {
		return max(1, b.Weight+b.Priority)
	}, g)
	if !ok {
		return "", nil
	}

	template := chosen.TextTemplate
	slotValues := make(map[string]string)
	for _, slot := range sortedSlots(template) {
		value, err := a.pickPhrase(ctx, slot, ac.Tone, g)
		if err != nil {
			return "", err
		}
		slotValues[slot] = value
	}

	return textgen.Render(template, slotValues), nil
}

// sortedSlots gives the template's slot keys a stable fill order so the
// rng draw sequence is reproducible.
func sortedSlots(template string) []string {
	set := textgen.ExtractSlots(template)
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a *LongformAssembler) pickPhrase(ctx context.Context, slotKey string, tone domain.Tone, g *rng.Rng) (string, error) {
	phrases, err := a.phrases.FindBySlotKeyTone(ctx, slotKey, tonesFor(tone))
	if err != nil {
		return "", fmt.Errorf("query phrases for slot %s: %w", slotKey, err)
	}
	if len(phrases) == 0 {
		return "", nil
	}
	chosen, ok := rng.PickWeighted(phrases, func(p domain.PhrasePool) int {
		return max(1, p.Weight)
	}, g)
	if !ok {
		return "", nil
	}
	return chosen.Text, nil
}

func titleForSection(section domain.LongformSection, tone domain.Tone) string {
	switch section {
	case domain.SectionOpening:
		if tone == domain.ToneDry {
			return "요약"
		}
		return "오늘의 오프닝"
	case domain.SectionAnalysis:
		return "지표 분석"
	case domain.SectionTip:
		return "가벼운 팁"
	case domain.SectionCaution:
		return "과몰입 방지"
	case domain.SectionStrategy:
		return "오늘의 전략"
	case domain.SectionConclusion:
		return "결론"
	default:
		return "재미 요소"
	}
}

func emojiForTone(tone domain.Tone, g *rng.Rng) string {
	switch tone {
	case domain.ToneFunny:
		return rng.PickOne([]string{" 😆", " 🎲", " 🍀", " 🤹"}, g)
	case domain.ToneWarm:
		return rng.PickOne([]string{" 🙂", " ☕", " 🌿", " ✨"}, g)
	case domain.ToneDry:
		return rng.PickOne([]string{" 📌", " 🧾", " ✅", " ⏱️"}, g)
	case domain.ToneCool:
		return rng.PickOne([]string{" 😎", " 🧊", " 🔥", " 🛰️"}, g)
	default:
		return ""
	}
}

func fallbackText(section domain.LongformSection, tone domain.Tone) string {
	switch section {
	case domain.SectionOpening:
		return "오늘 리포트는 재미를 위한 참고용이에요. 당첨을 예측하는 기능은 없습니다."
	case domain.SectionAnalysis:
		return "응답 패턴상 현재 컨디션과 소비 리듬이 함께 움직이는 날로 보여요. 무리하지 않는 선에서만 접근해 주세요."
	case domain.SectionTip:
		return "구매 전 30초만 멈춰서 ‘오늘 목표’와 ‘한도’를 정해보면 만족도가 확 올라갑니다."
	case domain.SectionCaution:
		return "점수가 낮게 나왔다면 ‘사지 말기’가 더 멋진 선택일 수 있어요. 재미는 재미로만!"
	case domain.SectionStrategy:
		return "오늘은 단순한 룰(장수/한도/멈춤)을 정하는 게 핵심 전략입니다."
	case domain.SectionConclusion:
		if tone == domain.ToneDry {
			return "결론: 책임 소비를 최우선으로 판단하세요."
		}
		return "오늘의 결론은 ‘가볍게, 책임 있게’입니다."
	default:
		return "재미 미션: 편의점에서 가장 작은 행운의 간식을 하나 골라보세요."
	}
}
