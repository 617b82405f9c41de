package assemble

import (
	"context"
	"testing"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/rng"
)

func insightRows(n int) []domain.MessagePool {
	rows := make([]domain.MessagePool, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, domain.MessagePool{
			ID:       int64(i + 1),
			Category: domain.CategoryInsight,
			Tone:     domain.ToneAny,
			MinScore: 0, MaxScore: 100,
			Text:   "insight",
			Weight: 1,
		})
	}
	return rows
}

func TestPickResultCards_NormalMode(t *testing.T) {
	a := NewMessageAssembler(&fakeMessages{rows: insightRows(5)}, testLogger())

	cards, err := a.PickResultCards(context.Background(), normalContext(60), rng.New("s"))
	if err != nil {
		t.Fatalf("PickResultCards error: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3 insights", len(cards))
	}
	for _, c := range cards {
		if c.Category != string(domain.CategoryInsight) {
			t.Errorf("category = %s, want INSIGHT", c.Category)
		}
	}
}

func TestPickResultCards_WarningModeAddsTwo(t *testing.T) {
	rows := insightRows(5)
	rows = append(rows,
		domain.MessagePool{ID: 100, Category: domain.CategoryWarning, Tone: domain.ToneAny, MaxScore: 100, Text: "warn", Weight: 1},
		domain.MessagePool{ID: 101, Category: domain.CategoryAlternative, Tone: domain.ToneAny, MaxScore: 100, Text: "alt", Weight: 1},
	)
	a := NewMessageAssembler(&fakeMessages{rows: rows}, testLogger())

	ac := normalContext(30)
	ac.WarningMode = true

	cards, err := a.PickResultCards(context.Background(), ac, rng.New("s"))
	if err != nil {
		t.Fatalf("PickResultCards error: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("got %d cards, want 3 insights + warning + alternative", len(cards))
	}
	if cards[3].Category != string(domain.CategoryWarning) || cards[4].Category != string(domain.CategoryAlternative) {
		t.Errorf("tail categories = %s, %s", cards[3].Category, cards[4].Category)
	}
}

func TestPickResultCards_UnderfilledPool(t *testing.T) {
	// Two eligible insights cannot fill three card slots; no error, fewer cards.
	a := NewMessageAssembler(&fakeMessages{rows: insightRows(2)}, testLogger())

	cards, err := a.PickResultCards(context.Background(), normalContext(60), rng.New("s"))
	if err != nil {
		t.Fatalf("PickResultCards error: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("got %d cards, want 2", len(cards))
	}
}

func TestPickResultCards_NoDuplicates(t *testing.T) {
	a := NewMessageAssembler(&fakeMessages{rows: insightRows(3)}, testLogger())

	for _, seed := range []string{"a", "b", "c", "d"} {
		cards, err := a.PickResultCards(context.Background(), normalContext(60), rng.New(seed))
		if err != nil {
			t.Fatalf("PickResultCards error: %v", err)
		}
		texts := map[string]int{}
		for _, c := range cards {
			texts[c.Text]++
		}
		// All rows carry the same text here, so dedup is asserted via count.
		if len(cards) != 3 {
			t.Errorf("seed %s: got %d cards from a pool of 3", seed, len(cards))
		}
	}
}

func TestPickResultCards_TagGating(t *testing.T) {
	rows := []domain.MessagePool{
		{ID: 1, Category: domain.CategoryInsight, Tone: domain.ToneAny, MaxScore: 100, RequiredTags: "LUCKY_VIBE", Text: "needs luck", Weight: 1},
		{ID: 2, Category: domain.CategoryInsight, Tone: domain.ToneAny, MaxScore: 100, BlockedTags: "MONEY_TIGHT", Text: "not when broke", Weight: 1},
		{ID: 3, Category: domain.CategoryInsight, Tone: domain.ToneAny, MaxScore: 100, Text: "always", Weight: 1},
	}
	a := NewMessageAssembler(&fakeMessages{rows: rows}, testLogger())

	ac := normalContext(60)
	ac.Tags.Add(domain.TagMoneyTight)

	cards, err := a.PickResultCards(context.Background(), ac, rng.New("s"))
	if err != nil {
		t.Fatalf("PickResultCards error: %v", err)
	}
	if len(cards) != 1 || cards[0].Text != "always" {
		t.Errorf("gating failed, got %+v", cards)
	}
}

func TestPickResultCards_ConditionGating(t *testing.T) {
	rows := []domain.MessagePool{
		{ID: 1, Category: domain.CategoryInsight, Tone: domain.ToneAny, MaxScore: 100,
			Conditions: `{"type":"score","op":">","value":80}`, Text: "high only", Weight: 1},
		{ID: 2, Category: domain.CategoryInsight, Tone: domain.ToneAny, MaxScore: 100, Text: "plain", Weight: 1},
	}
	a := NewMessageAssembler(&fakeMessages{rows: rows}, testLogger())

	cards, err := a.PickResultCards(context.Background(), normalContext(50), rng.New("s"))
	if err != nil {
		t.Fatalf("PickResultCards error: %v", err)
	}
	if len(cards) != 1 || cards[0].Text != "plain" {
		t.Errorf("condition gating failed, got %+v", cards)
	}
}

func TestPickOneDedup_SkipsUsed(t *testing.T) {
	candidates := []domain.MessagePool{
		{ID: 1, Text: "one", Weight: 1},
		{ID: 2, Text: "two", Weight: 1},
	}
	used := map[int64]struct{}{1: {}}

	g := rng.New("dedup")
	for i := 0; i < 20; i++ {
		chosen, ok := pickOneDedup(candidates, used, g)
		if !ok {
			t.Fatal("expected a pick")
		}
		if chosen.ID == 1 {
			t.Fatal("picked a used candidate")
		}
	}
}
