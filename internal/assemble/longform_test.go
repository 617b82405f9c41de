package assemble

import (
	"context"
	"strings"
	"testing"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/rng"
)

func quietStyles() *fakeStyles {
	// EmojiRate 0 keeps the output free of random emoji suffixes.
	return &fakeStyles{byTone: map[domain.Tone]*domain.StyleProfile{
		domain.ToneWarm: {ID: 1, Tone: domain.ToneWarm, EmojiRate: 0, HeadingStyle: "##"},
	}}
}

func TestDecideSections_NormalFlow(t *testing.T) {
	sections := decideSections(false, rng.New("flow"))
	if len(sections) != 5 && len(sections) != 6 {
		t.Fatalf("got %d sections", len(sections))
	}
	if sections[0] != domain.SectionOpening || sections[len(sections)-1] != domain.SectionConclusion {
		t.Errorf("flow = %v", sections)
	}
	for _, s := range sections {
		if s == domain.SectionCaution {
			t.Error("normal flow contains CAUTION")
		}
	}
}

func TestDecideSections_WarningFlow(t *testing.T) {
	sections := decideSections(true, rng.New("flow"))
	hasCaution := false
	for _, s := range sections {
		if s == domain.SectionCaution {
			hasCaution = true
		}
		if s == domain.SectionFun {
			t.Error("warning flow contains FUN")
		}
	}
	if !hasCaution {
		t.Errorf("warning flow misses CAUTION: %v", sections)
	}
}

func TestDecideSections_Deterministic(t *testing.T) {
	for _, warning := range []bool{false, true} {
		a := decideSections(warning, rng.New("same"))
		b := decideSections(warning, rng.New("same"))
		if len(a) != len(b) {
			t.Errorf("warning=%v: %v vs %v", warning, a, b)
		}
	}
}

func TestGenerate_RendersBlocksWithPhrases(t *testing.T) {
	blocks := &fakeBlocks{rows: []domain.LongformBlock{
		{ID: 1, Section: domain.SectionOpening, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "시작: {MOOD}", Weight: 1},
		{ID: 2, Section: domain.SectionAnalysis, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "분석 본문", Weight: 1},
		{ID: 3, Section: domain.SectionTip, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "팁 본문", Weight: 1},
		{ID: 4, Section: domain.SectionStrategy, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "전략 본문", Weight: 1},
		{ID: 5, Section: domain.SectionConclusion, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "결론 본문", Weight: 1},
		{ID: 6, Section: domain.SectionFun, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "재미 본문", Weight: 1},
	}}
	phrases := &fakePhrases{rows: []domain.PhrasePool{
		{ID: 1, SlotKey: "MOOD", Tone: domain.ToneAny, Text: "산뜻함", Weight: 1},
	}}

	a := NewLongformAssembler(blocks, phrases, quietStyles(), testLogger())

	got, err := a.Generate(context.Background(), normalContext(60), rng.New("s"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got.Tone != domain.ToneWarm {
		t.Errorf("tone = %v", got.Tone)
	}
	if !strings.Contains(got.Markdown, "시작: 산뜻함") {
		t.Errorf("slot not rendered:\n%s", got.Markdown)
	}
	if !strings.Contains(got.Markdown, "## ") {
		t.Errorf("heading style missing:\n%s", got.Markdown)
	}
}

func TestGenerate_FallbackOnEmptyPool(t *testing.T) {
	a := NewLongformAssembler(&fakeBlocks{}, &fakePhrases{}, quietStyles(), testLogger())

	got, err := a.Generate(context.Background(), normalContext(60), rng.New("s"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	// Every section must still render something.
	if strings.Contains(got.Markdown, "##\n") {
		t.Errorf("empty section body:\n%s", got.Markdown)
	}
	if !strings.Contains(got.Markdown, "참고용") {
		t.Errorf("opening fallback missing:\n%s", got.Markdown)
	}
}

func TestGenerate_NoProfileUsesDefaults(t *testing.T) {
	a := NewLongformAssembler(&fakeBlocks{}, &fakePhrases{}, &fakeStyles{byTone: map[domain.Tone]*domain.StyleProfile{}}, testLogger())

	got, err := a.Generate(context.Background(), normalContext(60), rng.New("s"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.HasPrefix(got.Markdown, "## ") {
		t.Errorf("default heading missing:\n%s", got.Markdown)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	blocks := &fakeBlocks{rows: []domain.LongformBlock{
		{ID: 1, Section: domain.SectionOpening, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "a", Weight: 1},
		{ID: 2, Section: domain.SectionOpening, Tone: domain.ToneAny, MaxScore: 100, TextTemplate: "b", Weight: 1},
	}}
	a := NewLongformAssembler(blocks, &fakePhrases{}, quietStyles(), testLogger())

	first, err := a.Generate(context.Background(), normalContext(60), rng.New("replay"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	second, err := a.Generate(context.Background(), normalContext(60), rng.New("replay"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if first.Markdown != second.Markdown {
		t.Errorf("replay mismatch:\n%s\n---\n%s", first.Markdown, second.Markdown)
	}
}

func TestSortedSlots_StableOrder(t *testing.T) {
	got := sortedSlots("{ZULU} {ALPHA} {MIKE} {ALPHA}")
	want := []string{"ALPHA", "MIKE", "ZULU"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot order = %v, want %v", got, want)
		}
	}
}
