// Package domain defines the closed enumerations and reference-data entity
// types shared across the scoring and content-generation pipeline.
package domain

import (
	"sort"
	"strings"
)

// Axis identifies one of the six psychological scales. The set is closed,
// so an AxisVector can be a fixed-size array instead of a map.
type Axis int

const (
	AxisOptimism Axis = iota
	AxisStability
	AxisImpulsivity
	AxisRisk
	AxisFinEase
	AxisEnergy

	axisCount
)

var axisNames = [axisCount]string{
	"OPTIMISM",
	"STABILITY",
	"IMPULSIVITY",
	"RISK",
	"FIN_EASE",
	"ENERGY",
}

func (a Axis) String() string {
	if a < 0 || a >= axisCount {
		return "UNKNOWN"
	}
	return axisNames[a]
}

// Axes returns all axes in presentation order.
func Axes() []Axis {
	return []Axis{AxisOptimism, AxisStability, AxisImpulsivity, AxisRisk, AxisFinEase, AxisEnergy}
}

// ParseAxis resolves an axis name. Returns false for unknown names.
func ParseAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

// AxisVector holds one value per axis, always clamped to [0,100].
type AxisVector [axisCount]int

// NewAxisVector returns a vector with every axis at the neutral baseline 50.
func NewAxisVector() AxisVector {
	var v AxisVector
	for i := range v {
		v[i] = 50
	}
	return v
}

// Get returns the value for the given axis (50 for an out-of-range axis).
func (v AxisVector) Get(a Axis) int {
	if a < 0 || a >= axisCount {
		return 50
	}
	return v[a]
}

// Add applies a delta to the given axis, clamping the result into [0,100].
func (v *AxisVector) Add(a Axis, delta int) {
	if a < 0 || a >= axisCount {
		return
	}
	v[a] = ClampScore(v[a] + delta)
}

// ClampScore clamps a value into the canonical [0,100] range.
func ClampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// TagSet accumulates the tags gathered during scoring.
type TagSet map[string]struct{}

func NewTagSet() TagSet { return make(TagSet) }

// Add inserts a tag. Blank tags are ignored.
func (t TagSet) Add(tag string) {
	if strings.TrimSpace(tag) == "" {
		return
	}
	t[tag] = struct{}{}
}

// AddAll merges another tag set.
func (t TagSet) AddAll(other TagSet) {
	for tag := range other {
		t[tag] = struct{}{}
	}
}

func (t TagSet) Has(tag string) bool {
	_, ok := t[tag]
	return ok
}

// Sorted returns the tags in lexicographic order for stable presentation.
func (t TagSet) Sorted() []string {
	out := make([]string, 0, len(t))
	for tag := range t {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Tone selects which voice variant of pool content is eligible.
type Tone string

const (
	ToneFunny Tone = "FUNNY"
	ToneWarm  Tone = "WARM"
	ToneDry   Tone = "DRY"
	ToneCool  Tone = "COOL"
	ToneAny   Tone = "ANY" // wildcard on content rows, never assigned to a session
)

// WarningLevel classifies how strongly the report discourages buying today.
type WarningLevel int

const (
	WarningNone WarningLevel = iota
	WarningNormal
	WarningStrong
)

func (w WarningLevel) String() string {
	switch w {
	case WarningNormal:
		return "NORMAL"
	case WarningStrong:
		return "STRONG"
	default:
		return "NONE"
	}
}

// ScoreBand buckets the final score for strategy-deck composition rules.
type ScoreBand string

const (
	BandLow  ScoreBand = "LOW"
	BandMid  ScoreBand = "MID"
	BandHigh ScoreBand = "HIGH"
)

// MessageCategory discriminates message-pool rows.
type MessageCategory string

const (
	CategoryInsight     MessageCategory = "INSIGHT"
	CategoryWarning     MessageCategory = "WARNING"
	CategoryAlternative MessageCategory = "ALTERNATIVE"
	CategoryConclusion  MessageCategory = "CONCLUSION"
)

// LongformSection discriminates longform-block rows.
type LongformSection string

const (
	SectionOpening    LongformSection = "OPENING"
	SectionAnalysis   LongformSection = "ANALYSIS"
	SectionTip        LongformSection = "TIP"
	SectionCaution    LongformSection = "CAUTION"
	SectionStrategy   LongformSection = "STRATEGY"
	SectionConclusion LongformSection = "CONCLUSION"
	SectionFun        LongformSection = "FUN"
)

// Strategy card types. Pool rows carry these as plain strings, so an
// unknown type in content data simply yields no candidates.
const (
	CardBuyIntensity = "BUY_INTENSITY"
	CardBudget       = "BUDGET"
	CardTiming       = "TIMING"
	CardNumberPick   = "NUMBER_PICK"
	CardSafety       = "SAFETY"
	CardRule         = "RULE"
)

// QuestionBucket groups questions for question-set assembly.
type QuestionBucket string

const (
	BucketOptimism    QuestionBucket = "OPTIMISM"
	BucketStability   QuestionBucket = "STABILITY"
	BucketImpulsivity QuestionBucket = "IMPULSIVITY"
	BucketRisk        QuestionBucket = "RISK"
	BucketMix         QuestionBucket = "MIX"
)

// Tags with fixed meaning in the scoring rules.
const (
	TagDontBuyToday = "DONT_BUY_TODAY"
	TagStressHigh   = "STRESS_HIGH"
	TagMoneyTight   = "MONEY_TIGHT"
	TagMoneyEasy    = "MONEY_EASY"
	TagLuckyVibe    = "LUCKY_VIBE"
)

// Question is one quiz item. Strength is a fixed-point factor stored in
// hundredths (120 means 1.20) so answer deltas stay in exact integer math.
type Question struct {
	ID            int64
	Bucket        QuestionBucket
	Text          string
	PrimaryAxis   Axis
	SecondaryAxis *Axis
	Strength      int // hundredths
	Polarity      int // +1 or -1
	TagOnHigh     string
	TagOnLow      string
	Weight        int
}

// Choice is one Likert answer option shared by all questions.
type Choice struct {
	ID    int64
	Value int
	Label string
}

// MessagePool is one short-card text fragment.
type MessagePool struct {
	ID           int64
	Category     MessageCategory
	Tone         Tone
	MinScore     int
	MaxScore     int
	RequiredTags string // CSV
	BlockedTags  string // CSV
	Conditions   string // condition JSON, may be empty
	Text         string
	Weight       int
	Priority     int
}

// LongformBlock is one longform paragraph template.
type LongformBlock struct {
	ID           int64
	Section      LongformSection
	Tone         Tone
	MinScore     int
	MaxScore     int
	RequiredTags string
	BlockedTags  string
	Conditions   string
	TextTemplate string
	Weight       int
	Priority     int
}

// PhrasePool is one candidate value for a longform template slot.
type PhrasePool struct {
	ID      int64
	SlotKey string
	Tone    Tone
	Text    string
	Weight  int
}

// StrategyCardPool is one strategy-card template triple.
type StrategyCardPool struct {
	ID             int64
	CardType       string
	Tone           Tone
	MinScore       int
	MaxScore       int
	RequiredTags   string
	BlockedTags    string
	Conditions     string
	TitleTemplate  string
	BodyTemplate   string
	FooterTemplate string
	Weight         int
	Priority       int
	Tags           string // CSV, also part of the dedup key
}

// StrategySlotPool is one candidate value for a strategy-card template slot.
type StrategySlotPool struct {
	ID      int64
	SlotKey string
	Tone    Tone
	Text    string
	Weight  int
}

// StrategyRuleMap is one deck-composition rule row for a score band.
type StrategyRuleMap struct {
	ID             int64
	ScoreBand      ScoreBand
	MandatoryTypes string // ordered CSV of card types
	OptionalTypes  string
	MaxCards       int
	DedupeKeyRules string
}

// StyleProfile tunes longform presentation per tone.
type StyleProfile struct {
	ID           int64
	Tone         Tone
	EmojiRate    int // percent chance of an emoji suffix per section
	HeadingStyle string
}

// KeywordEntry is one dictionary row scanned against free text.
type KeywordEntry struct {
	ID         int64
	Keyword    string
	Normalized string
	Tag        string
}

// KeywordRule is one weighted scoring rule attached to a keyword.
type KeywordRule struct {
	ID          int64
	KeywordID   int64
	ScoreDelta  int
	Tag         string
	Description string
	Weight      int
}
