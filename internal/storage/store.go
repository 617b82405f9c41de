// Package storage defines the unified Store interface that abstracts all
// persistence operations. Two backends are provided: SQLite (default,
// zero-config) and PostgreSQL (production).
package storage

import (
	"context"

	"github.com/todaylotto/backend/internal/assemble"
	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/report"
	"github.com/todaylotto/backend/internal/reportcache"
	"github.com/todaylotto/backend/internal/scoring"
)

// QuestionStore combines the two question views: answer resolution during
// scoring and bucket listing during question-set generation.
type QuestionStore interface {
	scoring.QuestionStore
	report.QuestionStore
}

// ContentWriter replaces whole content tables. Used by the seed command;
// each Replace runs in one transaction.
type ContentWriter interface {
	ReplaceQuestions(ctx context.Context, rows []domain.Question) error
	ReplaceChoices(ctx context.Context, rows []domain.Choice) error
	ReplaceMessages(ctx context.Context, rows []domain.MessagePool) error
	ReplaceLongformBlocks(ctx context.Context, rows []domain.LongformBlock) error
	ReplacePhrases(ctx context.Context, rows []domain.PhrasePool) error
	ReplaceStrategyCards(ctx context.Context, rows []domain.StrategyCardPool) error
	ReplaceStrategySlots(ctx context.Context, rows []domain.StrategySlotPool) error
	ReplaceStrategyRules(ctx context.Context, rows []domain.StrategyRuleMap) error
	ReplaceStyleProfiles(ctx context.Context, rows []domain.StyleProfile) error
	ReplaceKeywordEntries(ctx context.Context, rows []domain.KeywordEntry) error
	ReplaceKeywordRules(ctx context.Context, rows []domain.KeywordRule) error
}

// Store is the unified persistence interface. It provides access to all
// domain-specific sub-stores through accessor methods; both backends
// implement it.
type Store interface {
	Questions() QuestionStore
	Choices() report.ChoiceStore
	Messages() assemble.MessageStore
	LongformBlocks() assemble.LongformBlockStore
	Phrases() assemble.PhraseStore
	StrategyCards() assemble.StrategyCardStore
	StrategySlots() assemble.StrategySlotStore
	StrategyRules() assemble.StrategyRuleStore
	StyleProfiles() assemble.StyleProfileStore
	KeywordEntries() keyword.DictionaryStore
	KeywordRules() keyword.RuleStore
	ReportCache() reportcache.Store
	Content() ContentWriter

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error

	// Driver returns the storage driver name ("sqlite" or "postgres").
	Driver() string
}

// DriverSQLite is the SQLite driver name.
const DriverSQLite = "sqlite"

// DriverPostgres is the PostgreSQL driver name.
const DriverPostgres = "postgres"
