package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todaylotto/backend/internal/domain"
)

// QuestionRepository implements question persistence with PostgreSQL.
type QuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a QuestionRepository.
func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FindByID retrieves one question.
func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	var model QuestionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return domain.Question{}, fmt.Errorf("getting question %d: %w", id, err)
	}
	return toQuestionDomain(&model), nil
}

// FindByBucket lists a bucket's questions in stable ID order.
func (r *QuestionRepository) FindByBucket(ctx context.Context, bucket domain.QuestionBucket) ([]domain.Question, error) {
	var models []QuestionModel
	if err := r.db.WithContext(ctx).
		Where("bucket = ?", string(bucket)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing %s questions: %w", bucket, err)
	}
	out := make([]domain.Question, len(models))
	for i := range models {
		out[i] = toQuestionDomain(&models[i])
	}
	return out, nil
}

// ChoiceRepository implements Likert choice persistence with PostgreSQL.
type ChoiceRepository struct {
	db *gorm.DB
}

// NewChoiceRepository creates a ChoiceRepository.
func NewChoiceRepository(db *gorm.DB) *ChoiceRepository {
	return &ChoiceRepository{db: db}
}

// FindAll lists every choice ordered by value.
func (r *ChoiceRepository) FindAll(ctx context.Context) ([]domain.Choice, error) {
	var models []ChoiceModel
	if err := r.db.WithContext(ctx).Order("value").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing choices: %w", err)
	}
	out := make([]domain.Choice, len(models))
	for i := range models {
		out[i] = toChoiceDomain(&models[i])
	}
	return out, nil
}
