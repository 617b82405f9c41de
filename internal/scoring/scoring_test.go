package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/rng"
)

type fakeQuestions struct {
	byID map[int64]domain.Question
}

func (f *fakeQuestions) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return domain.Question{}, errors.New("not found")
	}
	return q, nil
}

type emptyDictionary struct{}

func (emptyDictionary) FindAll(ctx context.Context) ([]domain.KeywordEntry, error) { return nil, nil }

type emptyRules struct{}

func (emptyRules) FindByKeywordID(ctx context.Context, keywordID int64) ([]domain.KeywordRule, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(questions map[int64]domain.Question) *Engine {
	analyzer := keyword.NewAnalyzer(emptyDictionary{}, emptyRules{}, testLogger())
	return NewEngine(&fakeQuestions{byID: questions}, analyzer, testLogger())
}

// neutralQuestions is a six-question set with default strength and polarity,
// one per bucket axis plus two mix items.
func neutralQuestions() map[int64]domain.Question {
	qs := map[int64]domain.Question{}
	axes := []domain.Axis{
		domain.AxisOptimism,
		domain.AxisStability,
		domain.AxisImpulsivity,
		domain.AxisRisk,
		domain.AxisFinEase,
		domain.AxisEnergy,
	}
	for i, a := range axes {
		id := int64(i + 1)
		qs[id] = domain.Question{ID: id, PrimaryAxis: a, Strength: 100, Polarity: 1}
	}
	return qs
}

func neutralAnswers() []Answer {
	return []Answer{
		{QuestionID: 1, Value: 3},
		{QuestionID: 2, Value: 3},
		{QuestionID: 3, Value: 3},
		{QuestionID: 4, Value: 3},
		{QuestionID: 5, Value: 3},
		{QuestionID: 6, Value: 3},
	}
}

func TestScore_BadBirthDate(t *testing.T) {
	e := newTestEngine(neutralQuestions())
	_, err := e.Score(context.Background(), "15-04-1990", neutralAnswers(), "", rng.New("s"))
	if !domain.IsBadInput(err) {
		t.Fatalf("err = %v, want bad-input", err)
	}
}

func TestScore_UnknownQuestion(t *testing.T) {
	e := newTestEngine(neutralQuestions())
	answers := neutralAnswers()
	answers[0].QuestionID = 999
	_, err := e.Score(context.Background(), "1990-04-15", answers, "", rng.New("s"))
	if !domain.IsBadInput(err) {
		t.Fatalf("err = %v, want bad-input", err)
	}
}

func TestScore_NeutralBaseline(t *testing.T) {
	// All-3 answers leave every axis untouched except the birth-month
	// adjust (April boosts OPTIMISM by 5). Base lands at 51, so with the
	// -3..+3 session noise the score stays in [48, 54] and out of any
	// warning band.
	e := newTestEngine(neutralQuestions())

	for _, seed := range []string{"a", "b", "c", "d", "e"} {
		out, err := e.Score(context.Background(), "1990-04-15", neutralAnswers(), "", rng.New(seed))
		if err != nil {
			t.Fatalf("Score error: %v", err)
		}
		if out.Score < 48 || out.Score > 54 {
			t.Errorf("seed %s: score = %d, want 48..54", seed, out.Score)
		}
		if out.Warning != domain.WarningNone {
			t.Errorf("seed %s: warning = %v, want NONE", seed, out.Warning)
		}
		if out.WarningMode {
			t.Errorf("seed %s: warning mode on for neutral answers", seed)
		}
		if out.Axes.Get(domain.AxisOptimism) != 55 {
			t.Errorf("seed %s: optimism = %d, want 55", seed, out.Axes.Get(domain.AxisOptimism))
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	e := newTestEngine(neutralQuestions())

	first, err := e.Score(context.Background(), "1990-04-15", neutralAnswers(), "", rng.New("replay"))
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	second, err := e.Score(context.Background(), "1990-04-15", neutralAnswers(), "", rng.New("replay"))
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if first.Score != second.Score || first.Tone != second.Tone || first.Warning != second.Warning {
		t.Errorf("replay mismatch: %+v vs %+v", first, second)
	}
}

func TestScore_ImpulsiveTightInteraction(t *testing.T) {
	// Push IMPULSIVITY to 74 and FIN_EASE down to 26: the impulsive-broke
	// interaction fires (-6) and boosts the warning decision.
	qs := neutralQuestions()
	qs[3] = domain.Question{ID: 3, PrimaryAxis: domain.AxisImpulsivity, Strength: 300, Polarity: 1}
	qs[5] = domain.Question{ID: 5, PrimaryAxis: domain.AxisFinEase, Strength: 300, Polarity: -1}
	e := newTestEngine(qs)

	answers := neutralAnswers()
	answers[2].Value = 5 // question 3
	answers[4].Value = 5 // question 5

	out, err := e.Score(context.Background(), "1990-05-15", answers, "", rng.New("interaction"))
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if got := out.Axes.Get(domain.AxisImpulsivity); got != 74 {
		t.Errorf("impulsivity = %d, want 74", got)
	}
	if got := out.Axes.Get(domain.AxisFinEase); got != 26 {
		t.Errorf("finEase = %d, want 26", got)
	}

	found := false
	for _, label := range out.Interactions {
		if label == "충동↑ + 여유↓ → -6" {
			found = true
		}
	}
	if !found {
		t.Errorf("interaction label missing: %v", out.Interactions)
	}

	if !out.Tags.Has(domain.TagMoneyTight) || !out.Tags.Has("IMPULSIVITY_HIGH") {
		t.Errorf("derived tags missing: %v", out.Tags.Sorted())
	}

	// Base 42 minus the interaction lands at 36; noise keeps it <= 39, so
	// the boosted low band forces a STRONG warning.
	if out.Warning != domain.WarningStrong {
		t.Errorf("warning = %v, want STRONG", out.Warning)
	}
	if !out.WarningMode {
		t.Error("warning mode should be on")
	}
	if !out.Tags.Has(domain.TagDontBuyToday) {
		t.Error("DONT_BUY_TODAY tag missing in warning mode")
	}
}

func TestApplyQuestionDelta_SecondaryHalf(t *testing.T) {
	secondary := domain.AxisEnergy
	q := domain.Question{
		PrimaryAxis:   domain.AxisOptimism,
		SecondaryAxis: &secondary,
		Strength:      100,
		Polarity:      1,
	}
	axes := domain.NewAxisVector()
	applyQuestionDelta(q, 8, &axes) // value 5

	if got := axes.Get(domain.AxisOptimism); got != 58 {
		t.Errorf("primary = %d, want 58", got)
	}
	if got := axes.Get(domain.AxisEnergy); got != 54 {
		t.Errorf("secondary = %d, want 54 (half magnitude)", got)
	}
}

func TestApplyQuestionDelta_StrengthAndPolarity(t *testing.T) {
	q := domain.Question{PrimaryAxis: domain.AxisRisk, Strength: 120, Polarity: -1}
	axes := domain.NewAxisVector()
	applyQuestionDelta(q, 4, &axes) // value 4

	// 4 * 1.20 * -1 = -4.8, half-up away from zero rounds to -5.
	if got := axes.Get(domain.AxisRisk); got != 45 {
		t.Errorf("risk = %d, want 45", got)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct{ num, den, want int }{
		{250, 100, 3},
		{249, 100, 2},
		{-250, 100, -3},
		{-249, 100, -2},
		{0, 100, 0},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.num, tt.den); got != tt.want {
			t.Errorf("roundHalfUp(%d, %d) = %d, want %d", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestApplyBirthMonthAdjust(t *testing.T) {
	tests := []struct {
		month int
		axis  domain.Axis
		want  int
	}{
		{2, domain.AxisStability, 55},
		{5, domain.AxisOptimism, 55},
		{8, domain.AxisRisk, 55},
		{11, domain.AxisImpulsivity, 45},
	}
	for _, tt := range tests {
		axes := domain.NewAxisVector()
		applyBirthMonthAdjust(tt.month, &axes)
		if got := axes.Get(tt.axis); got != tt.want {
			t.Errorf("month %d: %s = %d, want %d", tt.month, tt.axis, got, tt.want)
		}
	}
}

func TestDecideWarning(t *testing.T) {
	neutral := domain.NewAxisVector()
	boosted := domain.NewAxisVector()
	boosted.Add(domain.AxisStability, -20) // 30, boosts the decision

	noTags := domain.NewTagSet()

	tests := []struct {
		name  string
		score int
		axes  domain.AxisVector
		want  domain.WarningLevel
	}{
		{"very low is strong", 20, neutral, domain.WarningStrong},
		{"low unboosted is normal", 35, neutral, domain.WarningNormal},
		{"low boosted is strong", 35, boosted, domain.WarningStrong},
		{"mid boosted is normal", 50, boosted, domain.WarningNormal},
		{"mid unboosted is none", 50, neutral, domain.WarningNone},
		{"high boosted is none", 60, boosted, domain.WarningNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decideWarning(tt.score, tt.axes, noTags); got != tt.want {
				t.Errorf("decideWarning(%d) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestDecideWarning_TagBoost(t *testing.T) {
	tags := domain.NewTagSet()
	tags.Add(domain.TagStressHigh)
	if got := decideWarning(50, domain.NewAxisVector(), tags); got != domain.WarningNormal {
		t.Errorf("STRESS_HIGH at 50 = %v, want NORMAL", got)
	}
}

func TestPickTone_Deterministic(t *testing.T) {
	a := pickTone(rng.New("tone-seed"))
	b := pickTone(rng.New("tone-seed"))
	if a != b {
		t.Errorf("same seed picked %v and %v", a, b)
	}
	switch a {
	case domain.ToneFunny, domain.ToneWarm, domain.ToneDry, domain.ToneCool:
	default:
		t.Errorf("unexpected tone %v", a)
	}
}
