package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/rng"
)

// QuestionStore lists questions per bucket.
type QuestionStore interface {
	FindByBucket(ctx context.Context, bucket domain.QuestionBucket) ([]domain.Question, error)
}

// ChoiceStore lists the shared Likert answer options.
type ChoiceStore interface {
	FindAll(ctx context.Context) ([]domain.Choice, error)
}

// QuestionSet is a freshly drawn quiz: six questions and the session seed
// the client must echo back on submit.
type QuestionSet struct {
	SessionSeed string
	Questions   []domain.Question
}

// QuestionPicker draws question sets.
type QuestionPicker struct {
	questions QuestionStore
	logger    *slog.Logger
}

func NewQuestionPicker(questions QuestionStore, logger *slog.Logger) *QuestionPicker {
	return &QuestionPicker{questions: questions, logger: logger}
}

// Generate draws one question from each of the four axis buckets plus two
// MIX questions, shuffling per bucket and once more at the end. The set is
// seeded by a fresh random session seed, so every call differs.
func (p *QuestionPicker) Generate(ctx context.Context) (QuestionSet, error) {
	sessionSeed := uuid.NewString()
	g := rng.New(sessionSeed)

	selected := make([]domain.Question, 0, 6)
	for _, bucket := range []domain.QuestionBucket{
		domain.BucketOptimism,
		domain.BucketStability,
		domain.BucketImpulsivity,
		domain.BucketRisk,
	} {
		list, err := p.questions.FindByBucket(ctx, bucket)
		if err != nil {
			return QuestionSet{}, fmt.Errorf("query %s questions: %w", bucket, err)
		}
		rng.Shuffle(list, g)
		if len(list) == 0 {
			return QuestionSet{}, domain.NewContentConfig(fmt.Sprintf("Not enough questions for bucket %s", bucket))
		}
		selected = append(selected, list[0])
	}

	mix, err := p.questions.FindByBucket(ctx, domain.BucketMix)
	if err != nil {
		return QuestionSet{}, fmt.Errorf("query MIX questions: %w", err)
	}
	rng.Shuffle(mix, g)
	if len(mix) < 2 {
		return QuestionSet{}, domain.NewContentConfig("Not enough MIX questions (need >=2).")
	}
	selected = append(selected, mix[0], mix[1])

	rng.Shuffle(selected, g)

	p.logger.Debug("question set generated", slog.String("sessionSeed", sessionSeed))
	return QuestionSet{SessionSeed: sessionSeed, Questions: selected}, nil
}
