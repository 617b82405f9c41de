// Package report orchestrates the full pipeline into the final report
// aggregate, and generates fresh question sets. It owns the rng draw
// order across stages: scoring, strategy deck, result cards, longform,
// share text.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/todaylotto/backend/internal/assemble"
	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/rng"
	"github.com/todaylotto/backend/internal/scoring"
)

// ScoreRequest is one scoring submission.
type ScoreRequest struct {
	BirthDate   string           `json:"birthDate"`
	SessionSeed string           `json:"sessionSeed"`
	Answers     []scoring.Answer `json:"answers"`
	ExtraText   string           `json:"extraText"`
}

// Validate enforces the request shape before any work happens.
func (r ScoreRequest) Validate() error {
	if strings.TrimSpace(r.BirthDate) == "" {
		return domain.NewBadInput("birthDate must not be blank")
	}
	if strings.TrimSpace(r.SessionSeed) == "" {
		return domain.NewBadInput("sessionSeed must not be blank")
	}
	if len(r.Answers) != 6 {
		return domain.NewBadInput("answers must contain exactly 6 entries")
	}
	for _, a := range r.Answers {
		if a.Value < 1 || a.Value > 5 {
			return domain.NewBadInput("answer values must be between 1 and 5")
		}
	}
	return nil
}

// AxisValues marshals an axis vector as a JSON object in canonical axis
// order. encoding/json sorts map keys alphabetically, which would scramble
// the presentation order clients rely on.
type AxisValues domain.AxisVector

func (v AxisValues) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, a := range domain.Axes() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%d", a.String(), domain.AxisVector(v).Get(a))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Signals summarizes what drove the score.
type Signals struct {
	PositiveSignals     []string   `json:"positiveSignals"`
	CautionSignals      []string   `json:"cautionSignals"`
	DetectedKeywords    []string   `json:"detectedKeywords"`
	AppliedInteractions []string   `json:"appliedInteractions"`
	AxisDetails         AxisValues `json:"axisDetails"`
}

// Breakdown is the detailed view of the same signals.
type Breakdown struct {
	PositiveSignals []string        `json:"positiveSignals"`
	CautionSignals  []string        `json:"cautionSignals"`
	KeywordMatches  []keyword.Match `json:"keywordMatches"`
}

// Report is the final immutable aggregate returned to the client.
type Report struct {
	ActionConclusion string                  `json:"actionConclusion"`
	Score            int                     `json:"score"`
	Grade            string                  `json:"grade"`
	Tone             string                  `json:"tone"`
	StateVector      AxisValues              `json:"stateVector"`
	Tags             []string                `json:"tags"`
	Signals          Signals                 `json:"signals"`
	StrategyCards    []assemble.StrategyCard `json:"strategyCards"`
	Cards            []assemble.ResultCard   `json:"cards"`
	LongformText     string                  `json:"longformText"`
	Breakdown        Breakdown               `json:"breakdown"`
	ShareText        string                  `json:"shareText"`
}

// Composer wires the pipeline stages together.
type Composer struct {
	engine   *scoring.Engine
	messages *assemble.MessageAssembler
	longform *assemble.LongformAssembler
	strategy *assemble.StrategyAssembler
	logger   *slog.Logger
}

func NewComposer(engine *scoring.Engine, messages *assemble.MessageAssembler, longform *assemble.LongformAssembler, strategy *assemble.StrategyAssembler, logger *slog.Logger) *Composer {
	return &Composer{
		engine:   engine,
		messages: messages,
		longform: longform,
		strategy: strategy,
		logger:   logger,
	}
}

// Generate runs the full pipeline for one request. One rng instance is
// threaded through every stage in a fixed order, so the report is a pure
// function of (sessionSeed, answers, extraText, birthDate).
func (c *Composer) Generate(ctx context.Context, req ScoreRequest) (*Report, error) {
	g := rng.New(req.SessionSeed)

	outcome, err := c.engine.Score(ctx, req.BirthDate, req.Answers, req.ExtraText, g)
	if err != nil {
		return nil, err
	}

	ac := assemble.Context{
		Score:       outcome.Score,
		Tone:        outcome.Tone,
		Axes:        outcome.Axes,
		Tags:        outcome.Tags,
		WarningMode: outcome.WarningMode,
	}

	strategyCards, err := c.strategy.BuildDeck(ctx, ac, g)
	if err != nil {
		return nil, err
	}

	cards, err := c.messages.PickResultCards(ctx, ac, g)
	if err != nil {
		return nil, err
	}

	longform, err := c.longform.Generate(ctx, ac, g)
	if err != nil {
		return nil, err
	}

	detected := make([]string, 0, len(outcome.Keyword.Matches))
	for _, m := range outcome.Keyword.Matches {
		detected = append(detected, m.Keyword)
	}

	grade := gradeFor(outcome.Score)
	conclusion := conclusionFor(outcome.Score, outcome.Warning, outcome.Tone)
	shareText := shareTextFor(outcome.Score, grade, conclusion, outcome.Warning, outcome.Keyword.Matches, g)

	c.logger.Info("report generated",
		slog.Int("score", outcome.Score),
		slog.String("tone", string(outcome.Tone)),
		slog.String("warning", outcome.Warning.String()),
		slog.Int("strategyCards", len(strategyCards)),
		slog.Int("cards", len(cards)))

	return &Report{
		ActionConclusion: conclusion,
		Score:            outcome.Score,
		Grade:            grade,
		Tone:             string(longform.Tone),
		StateVector:      AxisValues(outcome.Axes),
		Tags:             outcome.Tags.Sorted(),
		Signals: Signals{
			PositiveSignals:     orEmpty(outcome.Positive),
			CautionSignals:      orEmpty(outcome.Caution),
			DetectedKeywords:    detected,
			AppliedInteractions: orEmpty(outcome.Interactions),
			AxisDetails:         AxisValues(outcome.Axes),
		},
		StrategyCards: orEmpty(strategyCards),
		Cards:         orEmpty(cards),
		LongformText:  longform.Markdown,
		Breakdown: Breakdown{
			PositiveSignals: orEmpty(outcome.Positive),
			CautionSignals:  orEmpty(outcome.Caution),
			KeywordMatches:  orEmpty(outcome.Keyword.Matches),
		},
		ShareText: shareText,
	}, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func gradeFor(score int) string {
	switch {
	case score <= 25:
		return "🚫 오늘은 쉬는 게 이득(강한 말림)"
	case score <= 45:
		return "🤔 굳이? 한 번 더 생각!(말림)"
	case score <= 65:
		return "🙂 재미로 한 장 정도"
	case score <= 85:
		return "😏 오늘 분위기 괜찮은데?"
	default:
		return "🎉 오늘은 가볍게 도전 데이"
	}
}

func conclusionFor(score int, warning domain.WarningLevel, tone domain.Tone) string {
	if warning == domain.WarningStrong {
		switch tone {
		case domain.ToneFunny:
			return "오늘은 로또 대신 ‘PASS’가 이기는 날! 지갑에게 하루 휴가를 주세요."
		case domain.ToneWarm:
			return "오늘은 쉬어가는 게 좋아요. 재미는 좋지만, 책임 소비가 먼저예요."
		case domain.ToneDry:
			return "오늘은 구매 비추천. 충동 구매 위험이 감지되었습니다."
		case domain.ToneCool:
			return "오늘은 PASS가 더 멋져요. 룰을 지키는 게 간지."
		default:
			return "오늘은 PASS 권장."
		}
	}
	if warning == domain.WarningNormal {
		switch tone {
		case domain.ToneFunny:
			return "살 수는 있는데… 오늘은 ‘한도’부터 정하고 들어가자!"
		case domain.ToneWarm:
			return "가볍게 즐기되, 오늘은 한 장 룰 정도로만 가요."
		case domain.ToneDry:
			return "구매는 가능하나 제한 권장. 과몰입 방지 룰을 적용하세요."
		case domain.ToneCool:
			return "원하면 한 장. 대신 멈춤 규칙은 필수."
		default:
			return "가볍게만 권장."
		}
	}

	if score <= 65 {
		switch tone {
		case domain.ToneFunny:
			return "오늘은 ‘재미로 한 장’이 딱! 과금은 금지, 웃음은 허용."
		case domain.ToneWarm:
			return "오늘은 가볍게 한 장 정도가 기분 전환에 좋아요."
		case domain.ToneDry:
			return "중립 구간. 소액·소량 원칙을 권장합니다."
		case domain.ToneCool:
			return "한 장이면 충분. 간결하게 가자."
		default:
			return "재미로 한 장."
		}
	}

	if score <= 85 {
		switch tone {
		case domain.ToneFunny:
			return "오? 오늘 분위기 괜찮은데? 그래도 ‘정해진 한도’ 안에서만!"
		case domain.ToneWarm:
			return "오늘은 기분이 좋아요. 다만 한도는 꼭 지켜요."
		case domain.ToneDry:
			return "지표 양호. 단, 과대 해석 금지."
		case domain.ToneCool:
			return "오늘은 무드 괜찮음. 룰만 지키면 완벽."
		default:
			return "오늘 분위기 괜찮음."
		}
	}

	switch tone {
	case domain.ToneFunny:
		return "오늘은 ‘가볍게 도전 데이’! 하지만 지갑이 울면 즉시 종료!"
	case domain.ToneWarm:
		return "좋은 흐름이에요. 그래도 책임 소비는 항상 우선이에요."
	case domain.ToneDry:
		return "점수 상위 구간. 엔터테인먼트로만 접근하세요."
	case domain.ToneCool:
		return "오늘은 도전해도 됨. 대신 멈춤 규칙부터 박자."
	default:
		return "오늘은 도전 데이."
	}
}

// shareTextFor renders the copy-paste summary. Its keyword pick is the
// last rng draw of the pipeline.
func shareTextFor(score int, grade, conclusion string, warning domain.WarningLevel, matches []keyword.Match, g *rng.Rng) string {
	var sb strings.Builder
	sb.WriteString("[오늘 로또 살까?]\n")
	fmt.Fprintf(&sb, "점수: %d / 100\n", score)
	fmt.Fprintf(&sb, "등급: %s\n", grade)
	fmt.Fprintf(&sb, "결론: %s\n", conclusion)

	if warning != domain.WarningNone {
		sb.WriteString("권장: PASS 또는 0~1장 (책임 소비)\n")
	} else {
		sb.WriteString("주의: 당첨 예측/보장 아님. 재미로만!\n")
	}

	if len(matches) > 0 {
		one := rng.PickOne(matches, g)
		if strings.TrimSpace(one.Keyword) != "" {
			fmt.Fprintf(&sb, "감지 키워드: %s\n", one.Keyword)
		}
	}

	sb.WriteString("\n※ 이 앱은 재미용이며 무리한 구매를 권하지 않습니다.")
	return sb.String()
}
