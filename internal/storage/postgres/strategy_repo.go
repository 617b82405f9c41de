package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todaylotto/backend/internal/domain"
)

// StrategyCardRepository implements strategy-card template queries.
type StrategyCardRepository struct {
	db *gorm.DB
}

// NewStrategyCardRepository creates a StrategyCardRepository.
func NewStrategyCardRepository(db *gorm.DB) *StrategyCardRepository {
	return &StrategyCardRepository{db: db}
}

// FindByTypeScoreTone returns the card templates eligible for one type.
func (r *StrategyCardRepository) FindByTypeScoreTone(ctx context.Context, cardType string, score int, tones []domain.Tone) ([]domain.StrategyCardPool, error) {
	var models []StrategyCardPoolModel
	if err := r.db.WithContext(ctx).
		Where("card_type = ? AND min_score <= ? AND max_score >= ? AND tone IN ?",
			cardType, score, score, tonesToStrings(tones)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing %s cards: %w", cardType, err)
	}
	out := make([]domain.StrategyCardPool, len(models))
	for i := range models {
		out[i] = toStrategyCardDomain(&models[i])
	}
	return out, nil
}

// StrategySlotRepository implements strategy slot-value queries.
type StrategySlotRepository struct {
	db *gorm.DB
}

// NewStrategySlotRepository creates a StrategySlotRepository.
func NewStrategySlotRepository(db *gorm.DB) *StrategySlotRepository {
	return &StrategySlotRepository{db: db}
}

// FindBySlotKeyTone returns the slot values for one slot key.
func (r *StrategySlotRepository) FindBySlotKeyTone(ctx context.Context, slotKey string, tones []domain.Tone) ([]domain.StrategySlotPool, error) {
	var models []StrategySlotPoolModel
	if err := r.db.WithContext(ctx).
		Where("slot_key = ? AND tone IN ?", slotKey, tonesToStrings(tones)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing slot values for %s: %w", slotKey, err)
	}
	out := make([]domain.StrategySlotPool, len(models))
	for i := range models {
		out[i] = toStrategySlotDomain(&models[i])
	}
	return out, nil
}

// StrategyRuleRepository implements deck-composition rule queries.
type StrategyRuleRepository struct {
	db *gorm.DB
}

// NewStrategyRuleRepository creates a StrategyRuleRepository.
func NewStrategyRuleRepository(db *gorm.DB) *StrategyRuleRepository {
	return &StrategyRuleRepository{db: db}
}

// FindByScoreBand lists the rules for one score band.
func (r *StrategyRuleRepository) FindByScoreBand(ctx context.Context, band domain.ScoreBand) ([]domain.StrategyRuleMap, error) {
	var models []StrategyRuleMapModel
	if err := r.db.WithContext(ctx).
		Where("score_band = ?", string(band)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing strategy rules for band %s: %w", band, err)
	}
	out := make([]domain.StrategyRuleMap, len(models))
	for i := range models {
		out[i] = toStrategyRuleDomain(&models[i])
	}
	return out, nil
}
