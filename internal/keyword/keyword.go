// Package keyword scans a user's free-text note against the keyword
// dictionary and turns matches into a bounded score adjustment plus tags.
package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/rng"
)

// DictionaryStore lists every dictionary entry.
type DictionaryStore interface {
	FindAll(ctx context.Context) ([]domain.KeywordEntry, error)
}

// RuleStore lists the weighted rules attached to one keyword.
type RuleStore interface {
	FindByKeywordID(ctx context.Context, keywordID int64) ([]domain.KeywordRule, error)
}

// Match is one dictionary hit surfaced in the report breakdown.
type Match struct {
	Keyword         string `json:"keyword"`
	RuleDescription string `json:"ruleDescription"`
	ScoreDelta      int    `json:"scoreDelta"`
	TagApplied      string `json:"tagApplied"`
}

// Result is the outcome of one free-text scan. ScoreDelta is already
// clamped to [-5, +5].
type Result struct {
	ScoreDelta int
	Matches    []Match
	Tags       domain.TagSet
}

// Analyzer runs the dictionary scan.
type Analyzer struct {
	dictionary DictionaryStore
	rules      RuleStore
	logger     *slog.Logger
}

func NewAnalyzer(dictionary DictionaryStore, rules RuleStore, logger *slog.Logger) *Analyzer {
	return &Analyzer{dictionary: dictionary, rules: rules, logger: logger}
}

var (
	keepPattern     = regexp.MustCompile(`[^0-9a-z가-힣\s]`)
	collapsePattern = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, applies NFKC composition, strips everything but
// ASCII alphanumerics, Hangul syllables and whitespace, and collapses runs
// of whitespace. Dictionary rows store their needle in the same form.
func Normalize(input string) string {
	s := strings.ToLower(input)
	s = norm.NFKC.String(s)
	s = keepPattern.ReplaceAllString(s, " ")
	s = collapsePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Analyze scans extraText for dictionary hits. Each hit draws one weighted
// rule from the keyword's rule list; deltas sum and clamp to [-5, +5], and
// at most 10 matches survive (shuffled first so the cut is unbiased).
func (a *Analyzer) Analyze(ctx context.Context, extraText string, g *rng.Rng) (Result, error) {
	if strings.TrimSpace(extraText) == "" {
		return Result{Tags: domain.NewTagSet()}, nil
	}

	normalized := Normalize(extraText)

	dict, err := a.dictionary.FindAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load keyword dictionary: %w", err)
	}

	var matches []Match
	tags := domain.NewTagSet()
	sumDelta := 0

	for _, entry := range dict {
		needle := entry.Normalized
		if strings.TrimSpace(needle) == "" {
			continue
		}
		if !strings.Contains(normalized, needle) {
			continue
		}

		tags.Add(entry.Tag)

		rules, err := a.rules.FindByKeywordID(ctx, entry.ID)
		if err != nil {
			return Result{}, fmt.Errorf("load rules for keyword %d: %w", entry.ID, err)
		}
		if len(rules) == 0 {
			continue
		}

		chosen, ok := rng.PickWeighted(rules, func(r domain.KeywordRule) int {
			return max(1, r.Weight)
		}, g)
		if !ok {
			continue
		}

		sumDelta += chosen.ScoreDelta
		tags.Add(chosen.Tag)

		matches = append(matches, Match{
			Keyword:         entry.Keyword,
			RuleDescription: chosen.Description,
			ScoreDelta:      chosen.ScoreDelta,
			TagApplied:      chosen.Tag,
		})
	}

	if sumDelta > 5 {
		sumDelta = 5
	}
	if sumDelta < -5 {
		sumDelta = -5
	}

	if len(matches) > 10 {
		rng.Shuffle(matches, g)
		matches = matches[:10]
	}

	a.logger.Debug("keyword scan done",
		slog.Int("matches", len(matches)),
		slog.Int("delta", sumDelta))

	return Result{ScoreDelta: sumDelta, Matches: matches, Tags: tags}, nil
}
