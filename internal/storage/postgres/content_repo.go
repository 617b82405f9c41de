package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todaylotto/backend/internal/domain"
)

// ContentRepository bulk-replaces content tables for the seed command.
// Each Replace wipes the table and inserts the new rows in one transaction.
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a ContentRepository.
func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func replaceAll[M any](ctx context.Context, db *gorm.DB, table string, models []M) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zero M
		if err := tx.Where("1 = 1").Delete(&zero).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(models, 200).Error; err != nil {
			return fmt.Errorf("seeding %s: %w", table, err)
		}
		return nil
	})
}

func (r *ContentRepository) ReplaceQuestions(ctx context.Context, rows []domain.Question) error {
	models := make([]QuestionModel, len(rows))
	for i, q := range rows {
		models[i] = toQuestionModel(q)
	}
	return replaceAll(ctx, r.db, "question", models)
}

func (r *ContentRepository) ReplaceChoices(ctx context.Context, rows []domain.Choice) error {
	models := make([]ChoiceModel, len(rows))
	for i, c := range rows {
		models[i] = toChoiceModel(c)
	}
	return replaceAll(ctx, r.db, "choice", models)
}

func (r *ContentRepository) ReplaceMessages(ctx context.Context, rows []domain.MessagePool) error {
	models := make([]MessagePoolModel, len(rows))
	for i, m := range rows {
		models[i] = toMessageModel(m)
	}
	return replaceAll(ctx, r.db, "message_pool", models)
}

func (r *ContentRepository) ReplaceLongformBlocks(ctx context.Context, rows []domain.LongformBlock) error {
	models := make([]LongformBlockModel, len(rows))
	for i, b := range rows {
		models[i] = toLongformModel(b)
	}
	return replaceAll(ctx, r.db, "longform_block", models)
}

func (r *ContentRepository) ReplacePhrases(ctx context.Context, rows []domain.PhrasePool) error {
	models := make([]PhrasePoolModel, len(rows))
	for i, p := range rows {
		models[i] = toPhraseModel(p)
	}
	return replaceAll(ctx, r.db, "phrase_pool", models)
}

func (r *ContentRepository) ReplaceStrategyCards(ctx context.Context, rows []domain.StrategyCardPool) error {
	models := make([]StrategyCardPoolModel, len(rows))
	for i, c := range rows {
		models[i] = toStrategyCardModel(c)
	}
	return replaceAll(ctx, r.db, "strategy_card_pool", models)
}

func (r *ContentRepository) ReplaceStrategySlots(ctx context.Context, rows []domain.StrategySlotPool) error {
	models := make([]StrategySlotPoolModel, len(rows))
	for i, s := range rows {
		models[i] = toStrategySlotModel(s)
	}
	return replaceAll(ctx, r.db, "strategy_slot_pool", models)
}

func (r *ContentRepository) ReplaceStrategyRules(ctx context.Context, rows []domain.StrategyRuleMap) error {
	models := make([]StrategyRuleMapModel, len(rows))
	for i, rule := range rows {
		models[i] = toStrategyRuleModel(rule)
	}
	return replaceAll(ctx, r.db, "strategy_rule_map", models)
}

func (r *ContentRepository) ReplaceStyleProfiles(ctx context.Context, rows []domain.StyleProfile) error {
	models := make([]StyleProfileModel, len(rows))
	for i, p := range rows {
		models[i] = toStyleProfileModel(p)
	}
	return replaceAll(ctx, r.db, "style_profile", models)
}

func (r *ContentRepository) ReplaceKeywordEntries(ctx context.Context, rows []domain.KeywordEntry) error {
	models := make([]KeywordDictionaryModel, len(rows))
	for i, e := range rows {
		models[i] = toKeywordEntryModel(e)
	}
	return replaceAll(ctx, r.db, "keyword_dictionary", models)
}

func (r *ContentRepository) ReplaceKeywordRules(ctx context.Context, rows []domain.KeywordRule) error {
	models := make([]KeywordRuleModel, len(rows))
	for i, rule := range rows {
		models[i] = toKeywordRuleModel(rule)
	}
	return replaceAll(ctx, r.db, "keyword_rule", models)
}
