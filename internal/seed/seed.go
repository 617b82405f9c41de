// Package seed loads a YAML content pack (questions, choices, message and
// longform pools, strategy content, keyword dictionary) and writes it into
// the store, replacing whatever content was there before.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/storage"
)

// Pack is the on-disk content pack. Every list maps to one content table.
type Pack struct {
	Questions     []QuestionRow     `yaml:"questions"`
	Choices       []ChoiceRow       `yaml:"choices"`
	Messages      []MessageRow      `yaml:"messages"`
	Longform      []LongformRow     `yaml:"longform_blocks"`
	Phrases       []PhraseRow       `yaml:"phrases"`
	StrategyCards []StrategyCardRow `yaml:"strategy_cards"`
	StrategySlots []PhraseRow       `yaml:"strategy_slots"`
	StrategyRules []StrategyRuleRow `yaml:"strategy_rules"`
	StyleProfiles []StyleProfileRow `yaml:"style_profiles"`
	Keywords      []KeywordRow      `yaml:"keywords"`
}

// QuestionRow is one quiz item. Strength is a decimal factor (1.0 = neutral);
// it is converted to integer hundredths on load.
type QuestionRow struct {
	ID            int64   `yaml:"id"`
	Bucket        string  `yaml:"bucket"`
	Text          string  `yaml:"text"`
	PrimaryAxis   string  `yaml:"primary_axis"`
	SecondaryAxis string  `yaml:"secondary_axis,omitempty"`
	Strength      float64 `yaml:"strength,omitempty"` // Default: 1.0.
	Polarity      int     `yaml:"polarity,omitempty"` // Default: +1.
	TagOnHigh     string  `yaml:"tag_on_high,omitempty"`
	TagOnLow      string  `yaml:"tag_on_low,omitempty"`
	Weight        int     `yaml:"weight,omitempty"`
}

// ChoiceRow is one Likert answer option.
type ChoiceRow struct {
	ID    int64  `yaml:"id"`
	Value int    `yaml:"value"`
	Label string `yaml:"label"`
}

// MessageRow is one short-card text fragment.
type MessageRow struct {
	ID           int64  `yaml:"id"`
	Category     string `yaml:"category"`
	Tone         string `yaml:"tone,omitempty"` // Default: ANY.
	MinScore     int    `yaml:"min_score"`
	MaxScore     int    `yaml:"max_score"`
	RequiredTags string `yaml:"required_tags,omitempty"`
	BlockedTags  string `yaml:"blocked_tags,omitempty"`
	Conditions   string `yaml:"conditions,omitempty"`
	Text         string `yaml:"text"`
	Weight       int    `yaml:"weight,omitempty"`
	Priority     int    `yaml:"priority,omitempty"`
}

// LongformRow is one longform paragraph template.
type LongformRow struct {
	ID           int64  `yaml:"id"`
	Section      string `yaml:"section"`
	Tone         string `yaml:"tone,omitempty"`
	MinScore     int    `yaml:"min_score"`
	MaxScore     int    `yaml:"max_score"`
	RequiredTags string `yaml:"required_tags,omitempty"`
	BlockedTags  string `yaml:"blocked_tags,omitempty"`
	Conditions   string `yaml:"conditions,omitempty"`
	Template     string `yaml:"template"`
	Weight       int    `yaml:"weight,omitempty"`
	Priority     int    `yaml:"priority,omitempty"`
}

// PhraseRow is one candidate slot value (longform phrase or strategy slot).
type PhraseRow struct {
	ID      int64  `yaml:"id"`
	SlotKey string `yaml:"slot_key"`
	Tone    string `yaml:"tone,omitempty"`
	Text    string `yaml:"text"`
	Weight  int    `yaml:"weight,omitempty"`
}

// StrategyCardRow is one strategy-card template triple.
type StrategyCardRow struct {
	ID           int64  `yaml:"id"`
	CardType     string `yaml:"card_type"`
	Tone         string `yaml:"tone,omitempty"`
	MinScore     int    `yaml:"min_score"`
	MaxScore     int    `yaml:"max_score"`
	RequiredTags string `yaml:"required_tags,omitempty"`
	BlockedTags  string `yaml:"blocked_tags,omitempty"`
	Conditions   string `yaml:"conditions,omitempty"`
	Title        string `yaml:"title"`
	Body         string `yaml:"body"`
	Footer       string `yaml:"footer,omitempty"`
	Weight       int    `yaml:"weight,omitempty"`
	Priority     int    `yaml:"priority,omitempty"`
	Tags         string `yaml:"tags,omitempty"`
}

// StrategyRuleRow is one deck-composition rule.
type StrategyRuleRow struct {
	ID             int64  `yaml:"id"`
	ScoreBand      string `yaml:"score_band"`
	MandatoryTypes string `yaml:"mandatory_types"`
	OptionalTypes  string `yaml:"optional_types,omitempty"`
	MaxCards       int    `yaml:"max_cards"`
	DedupeKeyRules string `yaml:"dedupe_key_rules,omitempty"`
}

// StyleProfileRow tunes longform presentation per tone.
type StyleProfileRow struct {
	ID           int64  `yaml:"id"`
	Tone         string `yaml:"tone"`
	EmojiRate    int    `yaml:"emoji_rate"`
	HeadingStyle string `yaml:"heading_style,omitempty"`
}

// KeywordRow is one dictionary entry with its attached scoring rules.
type KeywordRow struct {
	ID      int64            `yaml:"id"`
	Keyword string           `yaml:"keyword"`
	Tag     string           `yaml:"tag,omitempty"`
	Rules   []KeywordRuleRow `yaml:"rules,omitempty"`
}

// KeywordRuleRow is one weighted scoring rule for a keyword.
type KeywordRuleRow struct {
	ID          int64  `yaml:"id"`
	ScoreDelta  int    `yaml:"score_delta"`
	Tag         string `yaml:"tag,omitempty"`
	Description string `yaml:"description,omitempty"`
	Weight      int    `yaml:"weight,omitempty"`
}

// Load reads and validates a content pack from path.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content pack %s: %w", path, err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parsing content pack %s: %w", path, err)
	}

	if err := pack.validate(); err != nil {
		return nil, fmt.Errorf("invalid content pack %s: %w", path, err)
	}
	return &pack, nil
}

func (p *Pack) validate() error {
	buckets := map[string]bool{
		string(domain.BucketOptimism):    true,
		string(domain.BucketStability):   true,
		string(domain.BucketImpulsivity): true,
		string(domain.BucketRisk):        true,
		string(domain.BucketMix):         true,
	}
	for i, q := range p.Questions {
		if !buckets[q.Bucket] {
			return fmt.Errorf("questions[%d]: unknown bucket %q", i, q.Bucket)
		}
		if _, ok := domain.ParseAxis(q.PrimaryAxis); !ok {
			return fmt.Errorf("questions[%d]: unknown primary_axis %q", i, q.PrimaryAxis)
		}
		if q.SecondaryAxis != "" {
			if _, ok := domain.ParseAxis(q.SecondaryAxis); !ok {
				return fmt.Errorf("questions[%d]: unknown secondary_axis %q", i, q.SecondaryAxis)
			}
		}
		if q.Polarity != 0 && q.Polarity != 1 && q.Polarity != -1 {
			return fmt.Errorf("questions[%d]: polarity must be -1, 0 (default +1), or +1", i)
		}
	}
	for i, c := range p.Choices {
		if c.Value < 1 || c.Value > 5 {
			return fmt.Errorf("choices[%d]: value must be 1..5, got %d", i, c.Value)
		}
	}
	categories := map[string]bool{
		string(domain.CategoryInsight):     true,
		string(domain.CategoryWarning):     true,
		string(domain.CategoryAlternative): true,
		string(domain.CategoryConclusion):  true,
	}
	for i, m := range p.Messages {
		if !categories[m.Category] {
			return fmt.Errorf("messages[%d]: unknown category %q", i, m.Category)
		}
	}
	sections := map[string]bool{
		string(domain.SectionOpening):    true,
		string(domain.SectionAnalysis):   true,
		string(domain.SectionTip):        true,
		string(domain.SectionCaution):    true,
		string(domain.SectionStrategy):   true,
		string(domain.SectionConclusion): true,
		string(domain.SectionFun):        true,
	}
	for i, b := range p.Longform {
		if !sections[b.Section] {
			return fmt.Errorf("longform_blocks[%d]: unknown section %q", i, b.Section)
		}
	}
	bands := map[string]bool{
		string(domain.BandLow):  true,
		string(domain.BandMid):  true,
		string(domain.BandHigh): true,
	}
	for i, r := range p.StrategyRules {
		if !bands[r.ScoreBand] {
			return fmt.Errorf("strategy_rules[%d]: unknown score_band %q", i, r.ScoreBand)
		}
	}
	for i, k := range p.Keywords {
		if k.Keyword == "" {
			return fmt.Errorf("keywords[%d]: keyword is required", i)
		}
	}
	return nil
}

// Apply writes the pack into the store, replacing existing content table
// by table. Not atomic across tables; rerun the seed command on failure.
func Apply(ctx context.Context, pack *Pack, w storage.ContentWriter, logger *slog.Logger) error {
	if err := w.ReplaceQuestions(ctx, pack.questions()); err != nil {
		return err
	}
	if err := w.ReplaceChoices(ctx, pack.choices()); err != nil {
		return err
	}
	if err := w.ReplaceMessages(ctx, pack.messages()); err != nil {
		return err
	}
	if err := w.ReplaceLongformBlocks(ctx, pack.longform()); err != nil {
		return err
	}
	if err := w.ReplacePhrases(ctx, pack.phrases()); err != nil {
		return err
	}
	if err := w.ReplaceStrategyCards(ctx, pack.strategyCards()); err != nil {
		return err
	}
	if err := w.ReplaceStrategySlots(ctx, pack.strategySlots()); err != nil {
		return err
	}
	if err := w.ReplaceStrategyRules(ctx, pack.strategyRules()); err != nil {
		return err
	}
	if err := w.ReplaceStyleProfiles(ctx, pack.styleProfiles()); err != nil {
		return err
	}
	entries, rules := pack.keywordTables()
	if err := w.ReplaceKeywordEntries(ctx, entries); err != nil {
		return err
	}
	if err := w.ReplaceKeywordRules(ctx, rules); err != nil {
		return err
	}

	logger.Info("content pack applied",
		slog.Int("questions", len(pack.Questions)),
		slog.Int("choices", len(pack.Choices)),
		slog.Int("messages", len(pack.Messages)),
		slog.Int("longform_blocks", len(pack.Longform)),
		slog.Int("phrases", len(pack.Phrases)),
		slog.Int("strategy_cards", len(pack.StrategyCards)),
		slog.Int("strategy_slots", len(pack.StrategySlots)),
		slog.Int("strategy_rules", len(pack.StrategyRules)),
		slog.Int("style_profiles", len(pack.StyleProfiles)),
		slog.Int("keywords", len(pack.Keywords)),
	)
	return nil
}

func (p *Pack) questions() []domain.Question {
	out := make([]domain.Question, len(p.Questions))
	for i, q := range p.Questions {
		primary, _ := domain.ParseAxis(q.PrimaryAxis)
		var secondary *domain.Axis
		if q.SecondaryAxis != "" {
			if axis, ok := domain.ParseAxis(q.SecondaryAxis); ok {
				secondary = &axis
			}
		}
		strength := 100
		if q.Strength > 0 {
			strength = int(math.Round(q.Strength * 100))
		}
		polarity := q.Polarity
		if polarity == 0 {
			polarity = 1
		}
		out[i] = domain.Question{
			ID:            q.ID,
			Bucket:        domain.QuestionBucket(q.Bucket),
			Text:          q.Text,
			PrimaryAxis:   primary,
			SecondaryAxis: secondary,
			Strength:      strength,
			Polarity:      polarity,
			TagOnHigh:     q.TagOnHigh,
			TagOnLow:      q.TagOnLow,
			Weight:        defaultWeight(q.Weight),
		}
	}
	return out
}

func (p *Pack) choices() []domain.Choice {
	out := make([]domain.Choice, len(p.Choices))
	for i, c := range p.Choices {
		out[i] = domain.Choice{ID: c.ID, Value: c.Value, Label: c.Label}
	}
	return out
}

func (p *Pack) messages() []domain.MessagePool {
	out := make([]domain.MessagePool, len(p.Messages))
	for i, m := range p.Messages {
		out[i] = domain.MessagePool{
			ID:           m.ID,
			Category:     domain.MessageCategory(m.Category),
			Tone:         defaultTone(m.Tone),
			MinScore:     m.MinScore,
			MaxScore:     defaultMaxScore(m.MaxScore),
			RequiredTags: m.RequiredTags,
			BlockedTags:  m.BlockedTags,
			Conditions:   m.Conditions,
			Text:         m.Text,
			Weight:       defaultWeight(m.Weight),
			Priority:     m.Priority,
		}
	}
	return out
}

func (p *Pack) longform() []domain.LongformBlock {
	out := make([]domain.LongformBlock, len(p.Longform))
	for i, b := range p.Longform {
		out[i] = domain.LongformBlock{
			ID:           b.ID,
			Section:      domain.LongformSection(b.Section),
			Tone:         defaultTone(b.Tone),
			MinScore:     b.MinScore,
			MaxScore:     defaultMaxScore(b.MaxScore),
			RequiredTags: b.RequiredTags,
			BlockedTags:  b.BlockedTags,
			Conditions:   b.Conditions,
			TextTemplate: b.Template,
			Weight:       defaultWeight(b.Weight),
			Priority:     b.Priority,
		}
	}
	return out
}

func (p *Pack) phrases() []domain.PhrasePool {
	out := make([]domain.PhrasePool, len(p.Phrases))
	for i, row := range p.Phrases {
		out[i] = domain.PhrasePool{
			ID:      row.ID,
			SlotKey: row.SlotKey,
			Tone:    defaultTone(row.Tone),
			Text:    row.Text,
			Weight:  defaultWeight(row.Weight),
		}
	}
	return out
}

func (p *Pack) strategyCards() []domain.StrategyCardPool {
	out := make([]domain.StrategyCardPool, len(p.StrategyCards))
	for i, c := range p.StrategyCards {
		out[i] = domain.StrategyCardPool{
			ID:             c.ID,
			CardType:       c.CardType,
			Tone:           defaultTone(c.Tone),
			MinScore:       c.MinScore,
			MaxScore:       defaultMaxScore(c.MaxScore),
			RequiredTags:   c.RequiredTags,
			BlockedTags:    c.BlockedTags,
			Conditions:     c.Conditions,
			TitleTemplate:  c.Title,
			BodyTemplate:   c.Body,
			FooterTemplate: c.Footer,
			Weight:         defaultWeight(c.Weight),
			Priority:       c.Priority,
			Tags:           c.Tags,
		}
	}
	return out
}

func (p *Pack) strategySlots() []domain.StrategySlotPool {
	out := make([]domain.StrategySlotPool, len(p.StrategySlots))
	for i, row := range p.StrategySlots {
		out[i] = domain.StrategySlotPool{
			ID:      row.ID,
			SlotKey: row.SlotKey,
			Tone:    defaultTone(row.Tone),
			Text:    row.Text,
			Weight:  defaultWeight(row.Weight),
		}
	}
	return out
}

func (p *Pack) strategyRules() []domain.StrategyRuleMap {
	out := make([]domain.StrategyRuleMap, len(p.StrategyRules))
	for i, r := range p.StrategyRules {
		out[i] = domain.StrategyRuleMap{
			ID:             r.ID,
			ScoreBand:      domain.ScoreBand(r.ScoreBand),
			MandatoryTypes: r.MandatoryTypes,
			OptionalTypes:  r.OptionalTypes,
			MaxCards:       r.MaxCards,
			DedupeKeyRules: r.DedupeKeyRules,
		}
	}
	return out
}

func (p *Pack) styleProfiles() []domain.StyleProfile {
	out := make([]domain.StyleProfile, len(p.StyleProfiles))
	for i, s := range p.StyleProfiles {
		out[i] = domain.StyleProfile{
			ID:           s.ID,
			Tone:         domain.Tone(s.Tone),
			EmojiRate:    s.EmojiRate,
			HeadingStyle: s.HeadingStyle,
		}
	}
	return out
}

// keywordTables flattens the nested keyword rows into the dictionary and
// rule tables. Rule IDs fall back to a running counter when omitted.
func (p *Pack) keywordTables() ([]domain.KeywordEntry, []domain.KeywordRule) {
	entries := make([]domain.KeywordEntry, len(p.Keywords))
	var rules []domain.KeywordRule
	nextRuleID := int64(1)
	for i, k := range p.Keywords {
		entries[i] = domain.KeywordEntry{
			ID:         k.ID,
			Keyword:    k.Keyword,
			Normalized: keyword.Normalize(k.Keyword),
			Tag:        k.Tag,
		}
		for _, r := range k.Rules {
			id := r.ID
			if id == 0 {
				id = nextRuleID
			}
			nextRuleID = id + 1
			rules = append(rules, domain.KeywordRule{
				ID:          id,
				KeywordID:   k.ID,
				ScoreDelta:  r.ScoreDelta,
				Tag:         r.Tag,
				Description: r.Description,
				Weight:      defaultWeight(r.Weight),
			})
		}
	}
	return entries, rules
}

func defaultWeight(w int) int {
	if w > 0 {
		return w
	}
	return 1
}

func defaultTone(t string) domain.Tone {
	if t == "" {
		return domain.ToneAny
	}
	return domain.Tone(t)
}

func defaultMaxScore(max int) int {
	if max > 0 {
		return max
	}
	return 100
}
