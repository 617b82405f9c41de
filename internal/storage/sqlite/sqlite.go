// Package sqlite implements the unified Store interface using SQLite via GORM.
// Uses modernc.org/sqlite (pure Go, no CGO) through the glebarez/sqlite GORM
// driver, and reuses the PostgreSQL repositories since both speak GORM.
//
// Key differences from the PostgreSQL backend:
//   - WAL mode enabled by default for concurrent reads
//   - No connection pooling (single file, WAL handles concurrency)
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/todaylotto/backend/internal/assemble"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/report"
	"github.com/todaylotto/backend/internal/reportcache"
	"github.com/todaylotto/backend/internal/storage"
	pgstore "github.com/todaylotto/backend/internal/storage/postgres"
)

// Config holds SQLite-specific configuration.
type Config struct {
	Path        string // Database file path.
	JournalMode string // WAL mode by default.
}

// Store implements storage.Store backed by SQLite.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	path   string

	// Sub-store instances (created lazily on first access).
	mu             sync.Mutex
	questions      storage.QuestionStore
	choices        report.ChoiceStore
	messages       assemble.MessageStore
	longform       assemble.LongformBlockStore
	phrases        assemble.PhraseStore
	strategyCards  assemble.StrategyCardStore
	strategySlots  assemble.StrategySlotStore
	strategyRules  assemble.StrategyRuleStore
	styleProfiles  assemble.StyleProfileStore
	keywordEntries keyword.DictionaryStore
	keywordRules   keyword.RuleStore
	cache          reportcache.Store
	content        storage.ContentWriter
}

var _ storage.Store = (*Store)(nil)

// Open creates a new SQLite-backed Store.
func Open(cfg Config, slogger *slog.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Ensure parent directory exists.
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	journalMode := cfg.JournalMode
	if journalMode == "" {
		journalMode = "wal"
	}

	// Build DSN with pragmas.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(%s)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path, journalMode)

	gormLogger := logger.New(
		slogAdapter{slogger},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: slogger,
		path:   cfg.Path,
	}

	slogger.Info("sqlite opened", slog.String("path", cfg.Path), slog.String("journal_mode", journalMode))
	return s, nil
}

// Migrate creates/updates the schema. The model set is shared with the
// PostgreSQL backend.
func (s *Store) Migrate(ctx context.Context) error {
	if err := pgstore.AutoMigrate(s.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrating sqlite schema: %w", err)
	}
	return nil
}

func (s *Store) Questions() storage.QuestionStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questions == nil {
		s.questions = pgstore.NewQuestionRepository(s.db)
	}
	return s.questions
}

func (s *Store) Choices() report.ChoiceStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.choices == nil {
		s.choices = pgstore.NewChoiceRepository(s.db)
	}
	return s.choices
}

func (s *Store) Messages() assemble.MessageStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.messages == nil {
		s.messages = pgstore.NewMessageRepository(s.db)
	}
	return s.messages
}

func (s *Store) LongformBlocks() assemble.LongformBlockStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.longform == nil {
		s.longform = pgstore.NewLongformRepository(s.db)
	}
	return s.longform
}

func (s *Store) Phrases() assemble.PhraseStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phrases == nil {
		s.phrases = pgstore.NewPhraseRepository(s.db)
	}
	return s.phrases
}

func (s *Store) StrategyCards() assemble.StrategyCardStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategyCards == nil {
		s.strategyCards = pgstore.NewStrategyCardRepository(s.db)
	}
	return s.strategyCards
}

func (s *Store) StrategySlots() assemble.StrategySlotStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategySlots == nil {
		s.strategySlots = pgstore.NewStrategySlotRepository(s.db)
	}
	return s.strategySlots
}

func (s *Store) StrategyRules() assemble.StrategyRuleStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategyRules == nil {
		s.strategyRules = pgstore.NewStrategyRuleRepository(s.db)
	}
	return s.strategyRules
}

func (s *Store) StyleProfiles() assemble.StyleProfileStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.styleProfiles == nil {
		s.styleProfiles = pgstore.NewStyleProfileRepository(s.db)
	}
	return s.styleProfiles
}

func (s *Store) KeywordEntries() keyword.DictionaryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keywordEntries == nil {
		s.keywordEntries = pgstore.NewKeywordDictionaryRepository(s.db)
	}
	return s.keywordEntries
}

func (s *Store) KeywordRules() keyword.RuleStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keywordRules == nil {
		s.keywordRules = pgstore.NewKeywordRuleRepository(s.db)
	}
	return s.keywordRules
}

func (s *Store) ReportCache() reportcache.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		s.cache = pgstore.NewCacheRepository(s.db)
	}
	return s.cache
}

func (s *Store) Content() storage.ContentWriter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		s.content = pgstore.NewContentRepository(s.db)
	}
	return s.content
}

// Ping checks the database connection for health/readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Driver returns "sqlite".
func (s *Store) Driver() string {
	return storage.DriverSQLite
}

// slogAdapter wraps *slog.Logger for GORM's logger.Writer interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (s slogAdapter) Printf(format string, args ...any) {
	s.logger.Info(fmt.Sprintf(format, args...))
}
