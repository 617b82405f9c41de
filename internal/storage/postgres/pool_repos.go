package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/todaylotto/backend/internal/domain"
)

// MessageRepository implements message-pool queries with PostgreSQL.
// Candidate rows come back in stable ID order so the downstream weighted
// pick is reproducible.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a MessageRepository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// FindByCategoryScoreTone returns the rows whose score window contains
// score, scoped to one category and the given tones.
func (r *MessageRepository) FindByCategoryScoreTone(ctx context.Context, category domain.MessageCategory, score int, tones []domain.Tone) ([]domain.MessagePool, error) {
	var models []MessagePoolModel
	if err := r.db.WithContext(ctx).
		Where("category = ? AND min_score <= ? AND max_score >= ? AND tone IN ?",
			string(category), score, score, tonesToStrings(tones)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing %s messages: %w", category, err)
	}
	out := make([]domain.MessagePool, len(models))
	for i := range models {
		out[i] = toMessageDomain(&models[i])
	}
	return out, nil
}

// LongformRepository implements longform-block and phrase queries.
type LongformRepository struct {
	db *gorm.DB
}

// NewLongformRepository creates a LongformRepository.
func NewLongformRepository(db *gorm.DB) *LongformRepository {
	return &LongformRepository{db: db}
}

// FindBySectionScoreTone returns the blocks eligible for one section.
func (r *LongformRepository) FindBySectionScoreTone(ctx context.Context, section domain.LongformSection, score int, tones []domain.Tone) ([]domain.LongformBlock, error) {
	var models []LongformBlockModel
	if err := r.db.WithContext(ctx).
		Where("section = ? AND min_score <= ? AND max_score >= ? AND tone IN ?",
			string(section), score, score, tonesToStrings(tones)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing %s blocks: %w", section, err)
	}
	out := make([]domain.LongformBlock, len(models))
	for i := range models {
		out[i] = toLongformDomain(&models[i])
	}
	return out, nil
}

// PhraseRepository implements slot-phrase queries.
type PhraseRepository struct {
	db *gorm.DB
}

// NewPhraseRepository creates a PhraseRepository.
func NewPhraseRepository(db *gorm.DB) *PhraseRepository {
	return &PhraseRepository{db: db}
}

// FindBySlotKeyTone returns the phrases for one slot key.
func (r *PhraseRepository) FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.PhrasePool, error) {
	var models []PhrasePoolModel
	if err := r.db.WithContext(ctx).
		Where("slot_key = ? AND tone IN ?", slotKey, tonesToStrings(tones)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing phrases for slot %s: %w", slotKey, err)
	}
	out := make([]domain.PhrasePool, len(models))
	for i := range models {
		out[i] = toPhraseDomain(&models[i])
	}
	return out, nil
}

// StyleProfileRepository implements style-profile lookup.
type StyleProfileRepository struct {
	db *gorm.DB
}

// NewStyleProfileRepository creates a StyleProfileRepository.
func NewStyleProfileRepository(db *gorm.DB) *StyleProfileRepository {
	return &StyleProfileRepository{db: db}
}

// FindByTone resolves the profile for a tone. A missing profile is not an
// error; the assembler falls back to defaults.
func (r *StyleProfileRepository) FindByTone(ctx context.Context, tone domain.Tone) (*domain.StyleProfile, error) {
	var model StyleProfileModel
	err := r.db.WithContext(ctx).First(&model, "tone = ?", string(tone)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting style profile for tone %s: %w", tone, err)
	}
	profile := toStyleProfileDomain(&model)
	return &profile, nil
}
