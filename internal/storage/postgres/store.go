package postgres

import (
	"context"
	"sync"

	"github.com/todaylotto/backend/internal/assemble"
	"github.com/todaylotto/backend/internal/keyword"
	"github.com/todaylotto/backend/internal/report"
	"github.com/todaylotto/backend/internal/reportcache"
	"github.com/todaylotto/backend/internal/storage"
)

// Store implements storage.Store backed by PostgreSQL. It wraps the
// connection and lazily creates sub-store repositories on first access.
type Store struct {
	db *DB

	mu             sync.Mutex
	questions      *QuestionRepository
	choices        *ChoiceRepository
	messages       *MessageRepository
	longform       *LongformRepository
	phrases        *PhraseRepository
	strategyCards  *StrategyCardRepository
	strategySlots  *StrategySlotRepository
	strategyRules  *StrategyRuleRepository
	styleProfiles  *StyleProfileRepository
	keywordEntries *KeywordDictionaryRepository
	keywordRules   *KeywordRuleRepository
	cache          *CacheRepository
	content        *ContentRepository
}

var _ storage.Store = (*Store)(nil)

// NewStore wraps an open connection as a storage.Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// DB returns the wrapped connection, for health probes.
func (s *Store) DB() *DB {
	return s.db
}

func (s *Store) Questions() storage.QuestionStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questions == nil {
		s.questions = NewQuestionRepository(s.db.GormDB())
	}
	return s.questions
}

func (s *Store) Choices() report.ChoiceStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.choices == nil {
		s.choices = NewChoiceRepository(s.db.GormDB())
	}
	return s.choices
}

func (s *Store) Messages() assemble.MessageStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.messages == nil {
		s.messages = NewMessageRepository(s.db.GormDB())
	}
	return s.messages
}

func (s *Store) LongformBlocks() assemble.LongformBlockStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.longform == nil {
		s.longform = NewLongformRepository(s.db.GormDB())
	}
	return s.longform
}

func (s *Store) Phrases() assemble.PhraseStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phrases == nil {
		s.phrases = NewPhraseRepository(s.db.GormDB())
	}
	return s.phrases
}

func (s *Store) StrategyCards() assemble.StrategyCardStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategyCards == nil {
		s.strategyCards = NewStrategyCardRepository(s.db.GormDB())
	}
	return s.strategyCards
}

func (s *Store) StrategySlots() assemble.StrategySlotStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategySlots == nil {
		s.strategySlots = NewStrategySlotRepository(s.db.GormDB())
	}
	return s.strategySlots
}

func (s *Store) StrategyRules() assemble.StrategyRuleStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategyRules == nil {
		s.strategyRules = NewStrategyRuleRepository(s.db.GormDB())
	}
	return s.strategyRules
}

func (s *Store) StyleProfiles() assemble.StyleProfileStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.styleProfiles == nil {
		s.styleProfiles = NewStyleProfileRepository(s.db.GormDB())
	}
	return s.styleProfiles
}

func (s *Store) KeywordEntries() keyword.DictionaryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keywordEntries == nil {
		s.keywordEntries = NewKeywordDictionaryRepository(s.db.GormDB())
	}
	return s.keywordEntries
}

func (s *Store) KeywordRules() keyword.RuleStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keywordRules == nil {
		s.keywordRules = NewKeywordRuleRepository(s.db.GormDB())
	}
	return s.keywordRules
}

func (s *Store) ReportCache() reportcache.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		s.cache = NewCacheRepository(s.db.GormDB())
	}
	return s.cache
}

func (s *Store) Content() storage.ContentWriter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		s.content = NewContentRepository(s.db.GormDB())
	}
	return s.content
}

// Migrate is a no-op: Open already runs AutoMigrate.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns "postgres".
func (s *Store) Driver() string {
	return storage.DriverPostgres
}
