package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todaylotto/backend/internal/domain"
)

// KeywordDictionaryRepository implements keyword dictionary persistence.
type KeywordDictionaryRepository struct {
	db *gorm.DB
}

// NewKeywordDictionaryRepository creates a KeywordDictionaryRepository.
func NewKeywordDictionaryRepository(db *gorm.DB) *KeywordDictionaryRepository {
	return &KeywordDictionaryRepository{db: db}
}

// FindAll lists every dictionary entry in stable ID order. The scan order
// feeds the rng draw sequence, so it must not vary between requests.
func (r *KeywordDictionaryRepository) FindAll(ctx context.Context) ([]domain.KeywordEntry, error) {
	var models []KeywordDictionaryModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing keyword dictionary: %w", err)
	}
	out := make([]domain.KeywordEntry, len(models))
	for i := range models {
		out[i] = toKeywordEntryDomain(&models[i])
	}
	return out, nil
}

// KeywordRuleRepository implements keyword rule persistence.
type KeywordRuleRepository struct {
	db *gorm.DB
}

// NewKeywordRuleRepository creates a KeywordRuleRepository.
func NewKeywordRuleRepository(db *gorm.DB) *KeywordRuleRepository {
	return &KeywordRuleRepository{db: db}
}

// FindByKeywordID lists the rules attached to one keyword.
func (r *KeywordRuleRepository) FindByKeywordID(ctx context.Context, keywordID int64) ([]domain.KeywordRule, error) {
	var models []KeywordRuleModel
	if err := r.db.WithContext(ctx).
		Where("keyword_id = ?", keywordID).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing rules for keyword %d: %w", keywordID, err)
	}
	out := make([]domain.KeywordRule, len(models))
	for i := range models {
		out[i] = toKeywordRuleDomain(&models[i])
	}
	return out, nil
}
