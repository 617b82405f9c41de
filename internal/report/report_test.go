package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/todaylotto/backend/internal/assemble"
	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/scoring"
)

// --- In-memory content fixtures ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memQuestions struct {
	list []domain.Question
}

func (m *memQuestions) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	for _, q := range m.list {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, errors.New("not found")
}

func (m *memQuestions) FindByBucket(ctx context.Context, bucket domain.QuestionBucket) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range m.list {
		if q.Bucket == bucket {
			out = append(out, q)
		}
	}
	return out, nil
}

type memChoices struct{ list []domain.Choice }

func (m *memChoices) FindAll(ctx context.Context) ([]domain.Choice, error) { return m.list, nil }

type memDictionary struct{ entries []domain.KeywordEntry }

func (m *memDictionary) FindAll(ctx context.Context) ([]domain.KeywordEntry, error) {
	return m.entries, nil
}

type memKeywordRules struct{ byID map[int64][]domain.KeywordRule }

func (m *memKeywordRules) FindByKeywordID(ctx context.Context, keywordID int64) ([]domain.KeywordRule, error) {
	return m.byID[keywordID], nil
}

func toneIn(tone domain.Tone, tones []domain.Tone) bool {
	for _, t := range tones {
		if t == tone {
			return true
		}
	}
	return false
}

type memMessages struct{ rows []domain.MessagePool }

func (m *memMessages) FindByCategoryScoreTone(ctx context.Context, category domain.MessageCategory, score int, tones []domain.Tone) ([]domain.MessagePool, error) {
	var out []domain.MessagePool
	for _, r := range m.rows {
		if r.Category == category && score >= r.MinScore && score <= r.MaxScore && toneIn(r.Tone, tones) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memBlocks struct{ rows []domain.LongformBlock }

func (m *memBlocks) FindBySectionScoreTone(ctx context.Context, section domain.LongformSection, score int, tones []domain.Tone) ([]domain.LongformBlock, error) {
	var out []domain.LongformBlock
	for _, r := range m.rows {
		if r.Section == section && score >= r.MinScore && score <= r.MaxScore && toneIn(r.Tone, tones) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memPhrases struct{ rows []domain.PhrasePool }

func (m *memPhrases) FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.PhrasePool, error) {
	var out []domain.PhrasePool
	for _, r := range m.rows {
		if r.SlotKey == slotKey && toneIn(r.Tone, tones) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memStyles struct{}

func (memStyles) FindByTone(ctx context.Context, tone domain.Tone) (*domain.StyleProfile, error) {
	return &domain.StyleProfile{Tone: tone, EmojiRate: 0, HeadingStyle: "##"}, nil
}

type memCards struct{ rows []domain.StrategyCardPool }

func (m *memCards) FindByTypeScoreTone(ctx context.Context, cardType string, score int, tones []domain.Tone) ([]domain.StrategyCardPool, error) {
	var out []domain.StrategyCardPool
	for _, r := range m.rows {
		if r.CardType == cardType && score >= r.MinScore && score <= r.MaxScore && toneIn(r.Tone, tones) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memSlots struct{ rows []domain.StrategySlotPool }

func (m *memSlots) FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.StrategySlotPool, error) {
	var out []domain.StrategySlotPool
	for _, r := range m.rows {
		if r.SlotKey == slotKey && toneIn(r.Tone, tones) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memStrategyRules struct{ byBand map[domain.ScoreBand][]domain.StrategyRuleMap }

func (m *memStrategyRules) FindByScoreBand(ctx context.Context, band domain.ScoreBand) ([]domain.StrategyRuleMap, error) {
	return m.byBand[band], nil
}

// testContent is a minimal but complete content set: six questions, message
// and card pools for every category and band.
func testContent() (*memQuestions, *Composer) {
	questions := &memQuestions{}
	axes := []struct {
		bucket domain.QuestionBucket
		axis   domain.Axis
	}{
		{domain.BucketOptimism, domain.AxisOptimism},
		{domain.BucketStability, domain.AxisStability},
		{domain.BucketImpulsivity, domain.AxisImpulsivity},
		{domain.BucketRisk, domain.AxisRisk},
		{domain.BucketMix, domain.AxisFinEase},
		{domain.BucketMix, domain.AxisEnergy},
	}
	for i, a := range axes {
		questions.list = append(questions.list, domain.Question{
			ID: int64(i + 1), Bucket: a.bucket, Text: "q", PrimaryAxis: a.axis, Strength: 100, Polarity: 1, Weight: 1,
		})
	}

	var messages []domain.MessagePool
	for i, cat := range []domain.MessageCategory{
		domain.CategoryInsight, domain.CategoryInsight, domain.CategoryInsight,
		domain.CategoryWarning, domain.CategoryAlternative,
	} {
		messages = append(messages, domain.MessagePool{
			ID: int64(i + 1), Category: cat, Tone: domain.ToneAny, MaxScore: 100, Text: "msg", Weight: 1,
		})
	}

	var cards []domain.StrategyCardPool
	for i, ct := range []string{
		domain.CardBuyIntensity, domain.CardBudget, domain.CardTiming,
		domain.CardNumberPick, domain.CardSafety, domain.CardRule,
	} {
		cards = append(cards, domain.StrategyCardPool{
			ID: int64(i + 1), CardType: ct, Tone: domain.ToneAny, MaxScore: 100,
			TitleTemplate: ct, BodyTemplate: "body", Weight: 1,
		})
	}

	strategyRules := &memStrategyRules{byBand: map[domain.ScoreBand][]domain.StrategyRuleMap{}}
	for _, band := range []domain.ScoreBand{domain.BandLow, domain.BandMid, domain.BandHigh} {
		strategyRules.byBand[band] = []domain.StrategyRuleMap{
			{ID: 1, ScoreBand: band, MandatoryTypes: "BUDGET", OptionalTypes: "TIMING,SAFETY,RULE", MaxCards: 3},
		}
	}

	blocks := &memBlocks{rows: []domain.LongformBlock{
		{ID: 1, Section: domain.SectionOpening, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "opening", Weight: 1},
	}}

	logger := testLogger()
	analyzer := keyword.NewAnalyzer(&memDictionary{}, &memKeywordRules{}, logger)
	engine := scoring.NewEngine(questions, analyzer, logger)
	messageAsm := assemble.NewMessageAssembler(&memMessages{rows: messages}, logger)
	longformAsm := assemble.NewLongformAssembler(blocks, &memPhrases{}, memStyles{}, logger)
	strategyAsm := assemble.NewStrategyAssembler(&memCards{rows: cards}, &memSlots{}, strategyRules, logger)

	return questions, NewComposer(engine, messageAsm, longformAsm, strategyAsm, logger)
}

func validRequest() ScoreRequest {
	return ScoreRequest{
		BirthDate:   "1990-04-15",
		SessionSeed: "f2a9e7c4-0a61-4a8e-9f11-2b7d8c3e5a90",
		Answers: []scoring.Answer{
			{QuestionID: 1, Value: 3}, {QuestionID: 2, Value: 3}, {QuestionID: 3, Value: 3},
			{QuestionID: 4, Value: 3}, {QuestionID: 5, Value: 3}, {QuestionID: 6, Value: 3},
		},
	}
}

// --- Validate ---

func TestScoreRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScoreRequest)
		wantOK bool
	}{
		{"valid", func(r *ScoreRequest) {}, true},
		{"blank birth date", func(r *ScoreRequest) { r.BirthDate = "  " }, false},
		{"blank seed", func(r *ScoreRequest) { r.SessionSeed = "" }, false},
		{"five answers", func(r *ScoreRequest) { r.Answers = r.Answers[:5] }, false},
		{"value too low", func(r *ScoreRequest) { r.Answers[0].Value = 0 }, false},
		{"value too high", func(r *ScoreRequest) { r.Answers[0].Value = 6 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !domain.IsBadInput(err) {
					t.Errorf("err = %v, want bad-input", err)
				}
			}
		})
	}
}

// --- AxisValues ---

func TestAxisValues_MarshalOrder(t *testing.T) {
	v := AxisValues(domain.NewAxisVector())
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	got := string(data)
	// Canonical axis order, not alphabetical.
	want := `{"OPTIMISM":50,"STABILITY":50,"IMPULSIVITY":50,"RISK":50,"FIN_EASE":50,"ENERGY":50}`
	if got != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

// --- Grade ---

func TestGradeFor_Bands(t *testing.T) {
	// One representative score per band; the exact copy matters less than
	// the band boundaries.
	bands := map[int]string{
		20:  gradeFor(20),
		40:  gradeFor(40),
		60:  gradeFor(60),
		80:  gradeFor(80),
		95:  gradeFor(95),
		25:  gradeFor(25),
		26:  gradeFor(26),
		45:  gradeFor(45),
		46:  gradeFor(46),
		65:  gradeFor(65),
		66:  gradeFor(66),
		85:  gradeFor(85),
		86:  gradeFor(86),
		100: gradeFor(100),
	}
	if bands[20] != bands[25] || bands[25] == bands[26] {
		t.Error("25/26 boundary wrong")
	}
	if bands[26] != bands[45] || bands[45] == bands[46] {
		t.Error("45/46 boundary wrong")
	}
	if bands[46] != bands[65] || bands[65] == bands[66] {
		t.Error("65/66 boundary wrong")
	}
	if bands[66] != bands[85] || bands[85] == bands[86] {
		t.Error("85/86 boundary wrong")
	}
	if bands[86] != bands[100] {
		t.Error("top band wrong")
	}
}

// --- Composer ---

func TestComposer_Generate(t *testing.T) {
	_, composer := testContent()

	rep, err := composer.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if rep.Score < 0 || rep.Score > 100 {
		t.Errorf("score = %d", rep.Score)
	}
	if rep.Grade == "" || rep.ActionConclusion == "" || rep.ShareText == "" {
		t.Error("presentation fields empty")
	}
	if len(rep.StrategyCards) < 2 {
		t.Errorf("strategy cards = %d, want >= 2", len(rep.StrategyCards))
	}
	if len(rep.Cards) != 3 {
		t.Errorf("result cards = %d, want 3 (no warning)", len(rep.Cards))
	}
	if rep.LongformText == "" {
		t.Error("longform empty")
	}
	if !strings.Contains(rep.ShareText, "점수:") {
		t.Errorf("share text = %q", rep.ShareText)
	}
	// Empty slices serialize as [], not null.
	if rep.Signals.PositiveSignals == nil || rep.Tags == nil {
		t.Error("nil slice leaked into the report")
	}
}

func TestComposer_GenerateDeterministic(t *testing.T) {
	_, composer := testContent()

	first, err := composer.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	second, err := composer.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical requests produced different reports")
	}
}

func TestComposer_DifferentSeedsDiffer(t *testing.T) {
	_, composer := testContent()

	a, err := composer.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	req := validRequest()
	req.SessionSeed = "0b1c2d3e-4444-4555-8666-777788889999"
	b, err := composer.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if a.Score == b.Score && a.Tone == b.Tone && a.ShareText == b.ShareText {
		t.Log("two seeds happened to coincide on score and tone; acceptable but unusual")
	}
}

func TestComposer_BadInputPropagates(t *testing.T) {
	_, composer := testContent()

	req := validRequest()
	req.BirthDate = "not-a-date"
	_, err := composer.Generate(context.Background(), req)
	if !domain.IsBadInput(err) {
		t.Fatalf("err = %v, want bad-input", err)
	}
}
