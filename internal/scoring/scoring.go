// Package scoring turns quiz answers, a birth date and an optional free-text
// note into the session's axis vector, score, warning level and tone. All
// randomness flows through the caller's seeded stream, so the same request
// always produces the same outcome.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/rng"
)

// QuestionStore resolves answered question IDs.
type QuestionStore interface {
	FindByID(ctx context.Context, id int64) (domain.Question, error)
}

// Answer is one submitted quiz answer.
type Answer struct {
	QuestionID int64
	Value      int // 1..5
}

// Outcome is everything downstream assembly needs from the scoring stage.
type Outcome struct {
	Score        int
	Axes         domain.AxisVector
	Tags         domain.TagSet
	Warning      domain.WarningLevel
	WarningMode  bool
	Tone         domain.Tone
	Keyword      keyword.Result
	Interactions []string
	Positive     []string
	Caution      []string
}

// Engine runs the scoring pipeline.
type Engine struct {
	questions QuestionStore
	analyzer  *keyword.Analyzer
	logger    *slog.Logger
}

func NewEngine(questions QuestionStore, analyzer *keyword.Analyzer, logger *slog.Logger) *Engine {
	return &Engine{questions: questions, analyzer: analyzer, logger: logger}
}

// Score executes the fixed pipeline order: birth-month adjust, answer
// deltas, derived tags, keyword scan, base score, interaction rules, session
// noise, warning decision, tone pick. The rng draw order is part of the
// contract; reordering any stage changes every report.
func (e *Engine) Score(ctx context.Context, birthDate string, answers []Answer, extraText string, g *rng.Rng) (Outcome, error) {
	birth, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return Outcome{}, domain.NewBadInput("birthDate must be YYYY-MM-DD")
	}

	axes := domain.NewAxisVector()
	applyBirthMonthAdjust(int(birth.Month()), &axes)

	tags := domain.NewTagSet()
	for _, a := range answers {
		q, err := e.questions.FindByID(ctx, a.QuestionID)
		if err != nil {
			return Outcome{}, domain.NewBadInput(fmt.Sprintf("Unknown questionId=%d", a.QuestionID))
		}

		deltaBase := (a.Value - 3) * 4 // -8,-4,0,+4,+8
		applyQuestionDelta(q, deltaBase, &axes)

		if a.Value >= 4 {
			tags.Add(q.TagOnHigh)
		}
		if a.Value <= 2 {
			tags.Add(q.TagOnLow)
		}
	}

	addDerivedTags(axes, tags)

	kw, err := e.analyzer.Analyze(ctx, extraText, g)
	if err != nil {
		return Outcome{}, fmt.Errorf("keyword analysis: %w", err)
	}
	tags.AddAll(kw.Tags)

	base := 50 +
		0.24*float64(axes.Get(domain.AxisOptimism)-50) +
		0.18*float64(axes.Get(domain.AxisStability)-50) +
		0.18*float64(axes.Get(domain.AxisRisk)-50) +
		0.16*float64(axes.Get(domain.AxisFinEase)-50) +
		0.12*float64(axes.Get(domain.AxisEnergy)-50) -
		0.22*float64(axes.Get(domain.AxisImpulsivity)-50)

	var interactions []string
	interactionDelta := applyInteractions(axes, &interactions)

	score := domain.ClampScore(int(math.Round(base)) + interactionDelta + kw.ScoreDelta)

	// session noise -3..+3
	score = domain.ClampScore(score + g.IntRange(-3, 4))

	warning := decideWarning(score, axes, tags)
	warningMode := warning != domain.WarningNone
	if warningMode {
		tags.Add(domain.TagDontBuyToday)
	}

	tone := pickTone(g)

	e.logger.Debug("scoring done",
		slog.Int("score", score),
		slog.String("warning", warning.String()),
		slog.String("tone", string(tone)))

	return Outcome{
		Score:        score,
		Axes:         axes,
		Tags:         tags,
		Warning:      warning,
		WarningMode:  warningMode,
		Tone:         tone,
		Keyword:      kw,
		Interactions: interactions,
		Positive:     buildPositiveSignals(score, axes, tags),
		Caution:      buildCautionSignals(score, axes, tags, warning),
	}, nil
}

func applyBirthMonthAdjust(month int, axes *domain.AxisVector) {
	if month >= 1 && month <= 3 {
		axes.Add(domain.AxisStability, 5)
	}
	if month >= 4 && month <= 6 {
		axes.Add(domain.AxisOptimism, 5)
	}
	if month >= 7 && month <= 9 {
		axes.Add(domain.AxisRisk, 5)
	}
	if month >= 10 && month <= 12 {
		axes.Add(domain.AxisImpulsivity, -5)
	}
}

// applyQuestionDelta applies the primary-axis delta and, when a secondary
// axis exists, a half-magnitude delta. Strength is in hundredths, so the
// math stays in exact integers with half-up rounding away from zero.
func applyQuestionDelta(q domain.Question, deltaBase int, axes *domain.AxisVector) {
	strength := q.Strength
	if strength == 0 {
		strength = 100
	}
	polarity := q.Polarity
	if polarity == 0 {
		polarity = 1
	}

	num := deltaBase * strength * polarity // hundredths
	axes.Add(q.PrimaryAxis, roundHalfUpHundredths(num))

	if q.SecondaryAxis != nil {
		// half magnitude: same numerator over 200
		axes.Add(*q.SecondaryAxis, roundHalfUp(num, 200))
	}
}

func roundHalfUpHundredths(num int) int { return roundHalfUp(num, 100) }

func roundHalfUp(num, den int) int {
	if num >= 0 {
		return (num + den/2) / den
	}
	return (num - den/2) / den
}

func addDerivedTags(axes domain.AxisVector, tags domain.TagSet) {
	if axes.Get(domain.AxisStability) <= 35 {
		tags.Add("STABILITY_LOW")
	}
	if axes.Get(domain.AxisStability) >= 70 {
		tags.Add("STABILITY_HIGH")
	}
	if axes.Get(domain.AxisImpulsivity) >= 70 {
		tags.Add("IMPULSIVITY_HIGH")
	}
	if axes.Get(domain.AxisImpulsivity) <= 40 {
		tags.Add("IMPULSIVITY_LOW")
	}
	if axes.Get(domain.AxisFinEase) <= 40 {
		tags.Add(domain.TagMoneyTight)
	}
	if axes.Get(domain.AxisFinEase) >= 70 {
		tags.Add(domain.TagMoneyEasy)
	}
	if axes.Get(domain.AxisOptimism) >= 75 {
		tags.Add("OPTIMISM_HIGH")
	}
	if axes.Get(domain.AxisEnergy) >= 70 {
		tags.Add("ENERGY_HIGH_TAG")
	}
	if axes.Get(domain.AxisEnergy) <= 35 {
		tags.Add("ENERGY_LOW_TAG")
	}
}

// applyInteractions evaluates the four fixed interaction rules in order.
// Each rule fires independently and appends its label.
func applyInteractions(axes domain.AxisVector, interactions *[]string) int {
	delta := 0

	if axes.Get(domain.AxisImpulsivity) >= 70 && axes.Get(domain.AxisFinEase) <= 40 {
		delta -= 6
		*interactions = append(*interactions, "충동↑ + 여유↓ → -6")
	}
	if axes.Get(domain.AxisStability) >= 70 && axes.Get(domain.AxisImpulsivity) <= 40 {
		delta += 4
		*interactions = append(*interactions, "평정↑ + 충동↓ → +4")
	}
	if axes.Get(domain.AxisOptimism) >= 75 && axes.Get(domain.AxisEnergy) >= 70 {
		delta += 3
		*interactions = append(*interactions, "기분↑ + 컨디션↑ → +3")
	}
	if axes.Get(domain.AxisStability) <= 35 && axes.Get(domain.AxisImpulsivity) >= 65 {
		delta -= 5
		*interactions = append(*interactions, "불안정 + 충동↑ → -5")
	}

	return delta
}

func decideWarning(score int, axes domain.AxisVector, tags domain.TagSet) domain.WarningLevel {
	boosted := (axes.Get(domain.AxisImpulsivity) >= 70 && axes.Get(domain.AxisFinEase) <= 40) ||
		axes.Get(domain.AxisStability) <= 35 ||
		tags.Has(domain.TagStressHigh) ||
		tags.Has(domain.TagMoneyTight)

	switch {
	case score <= 25:
		return domain.WarningStrong
	case score <= 40:
		if boosted {
			return domain.WarningStrong
		}
		return domain.WarningNormal
	case boosted && score <= 55:
		return domain.WarningNormal
	default:
		return domain.WarningNone
	}
}

func pickTone(g *rng.Rng) domain.Tone {
	switch g.IntN(4) {
	case 0:
		return domain.ToneFunny
	case 1:
		return domain.ToneWarm
	case 2:
		return domain.ToneDry
	default:
		return domain.ToneCool
	}
}

func buildPositiveSignals(score int, axes domain.AxisVector, tags domain.TagSet) []string {
	var list []string
	if axes.Get(domain.AxisStability) >= 65 {
		list = append(list, "평정이 안정적")
	}
	if axes.Get(domain.AxisOptimism) >= 65 {
		list = append(list, "기분이 낙관적")
	}
	if axes.Get(domain.AxisEnergy) >= 65 {
		list = append(list, "컨디션이 좋은 편")
	}
	if axes.Get(domain.AxisFinEase) >= 65 {
		list = append(list, "재정 여유 신호")
	}
	if score >= 66 {
		list = append(list, "전체 점수 상향 구간")
	}
	if tags.Has(domain.TagLuckyVibe) {
		list = append(list, "행운 무드 태그")
	}
	return list
}

func buildCautionSignals(score int, axes domain.AxisVector, tags domain.TagSet, warning domain.WarningLevel) []string {
	var list []string
	if axes.Get(domain.AxisImpulsivity) >= 65 {
		list = append(list, "충동성이 높음")
	}
	if axes.Get(domain.AxisStability) <= 40 {
		list = append(list, "안정감이 낮음")
	}
	if axes.Get(domain.AxisFinEase) <= 45 {
		list = append(list, "재정 여유가 타이트")
	}
	if axes.Get(domain.AxisEnergy) <= 40 {
		list = append(list, "컨디션 저하")
	}
	if warning != domain.WarningNone {
		list = append(list, "말림 모드(책임 소비 강화)")
	}
	if tags.Has(domain.TagStressHigh) {
		list = append(list, "스트레스 키워드 감지")
	}
	return list
}
