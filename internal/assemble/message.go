package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/todaylotto/backend/internal/condition"
	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/rng"
	"github.com/todaylotto/backend/internal/textgen"
)

// MessageStore queries message-pool rows for one category, a score inside
// [MinScore, MaxScore], and a tone in tones.
type MessageStore interface {
	FindByCategoryScoreTone(ctx context.Context, category domain.MessageCategory, score int, tones []domain.Tone) ([]domain.MessagePool, error)
}

// MessageAssembler picks the short result cards.
type MessageAssembler struct {
	messages MessageStore
	logger   *slog.Logger
}

func NewMessageAssembler(messages MessageStore, logger *slog.Logger) *MessageAssembler {
	return &MessageAssembler{messages: messages, logger: logger}
}

// PickResultCards returns three INSIGHT cards, plus one WARNING and one
// ALTERNATIVE card when the session is in warning mode. Under-filled pools
// yield fewer cards rather than an error.
func (a *MessageAssembler) PickResultCards(ctx context.Context, ac Context, g *rng.Rng) ([]ResultCard, error) {
	out := make([]ResultCard, 0, 5)

	insight, err := a.pickByCategory(ctx, domain.CategoryInsight, 3, ac, g)
	if err != nil {
		return nil, err
	}
	out = append(out, insight...)

	if ac.WarningMode {
		warning, err := a.pickByCategory(ctx, domain.CategoryWarning, 1, ac, g)
		if err != nil {
			return nil, err
		}
		out = append(out, warning...)

		alt, err := a.pickByCategory(ctx, domain.CategoryAlternative, 1, ac, g)
		if err != nil {
			return nil, err
		}
		out = append(out, alt...)
	}

	return out, nil
}

func (a *MessageAssembler) pickByCategory(ctx context.Context, category domain.MessageCategory, count int, ac Context, g *rng.Rng) ([]ResultCard, error) {
	raw, err := a.messages.FindByCategoryScoreTone(ctx, category, ac.Score, tonesFor(ac.Tone))
	if err != nil {
		return nil, fmt.Errorf("query %s messages: %w", category, err)
	}

	condCtx := ac.conditionCtx()
	candidates := make([]domain.MessagePool, 0, len(raw))
	for _, m := range raw {
		if !textgen.ContainsAll(ac.Tags, m.RequiredTags) {
			continue
		}
		if textgen.ContainsAny(ac.Tags, m.BlockedTags) {
			continue
		}
		if !condition.Matches(m.Conditions, condCtx) {
			continue
		}
		candidates = append(candidates, m)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	picked := make([]ResultCard, 0, count)
	used := make(map[int64]struct{})

	for i := 0; i < count; i++ {
		chosen, ok := pickOneDedup(candidates, used, g)
		if !ok {
			break
		}
		used[chosen.ID] = struct{}{}
		picked = append(picked, ResultCard{
			Category: string(category),
			Title:    titleForCategory(category),
			Text:     chosen.Text,
		})
	}

	return picked, nil
}

// pickOneDedup weighted-picks from the top-priority window of the not yet
// used candidates. Weight is base weight plus priority, floored at 1.
func pickOneDedup(candidates []domain.MessagePool, used map[int64]struct{}, g *rng.Rng) (domain.MessagePool, bool) {
	available := make([]domain.MessagePool, 0, len(candidates))
	for _, c := range candidates {
		if _, taken := used[c.ID]; !taken {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return domain.MessagePool{}, false
	}

	window := min(40, len(available))
	return rng.PickWeighted(available[:window], func(m domain.MessagePool) int {
		return max(1, m.Weight+m.Priority)
	}, g)
}

func titleForCategory(category domain.MessageCategory) string {
	switch category {
	case domain.CategoryInsight:
		return "한 줄 코멘트"
	case domain.CategoryWarning:
		return "말림/경고"
	case domain.CategoryAlternative:
		return "대체 행동"
	default:
		return "결론"
	}
}
