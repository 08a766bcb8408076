package repository

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, "id = ?", id).Error
	return &quiz, err
}

func (r *QuizRepository) SetPublished(id string, published bool) error {
	return r.DB.Model(&model.Quiz{}).Where("id = ?", id).Update("published", published).Error
}

// Delete 级联删除题目与选项，作答记录保留
func (r *QuizRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Choice{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

func (r *QuizRepository) ListByCourse(courseID string, publishedOnly bool) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Order("open_at asc").Find(&quizzes).Error
	return quizzes, err
}

// ListAvailable 指定课程中已发布且当前处于开放窗口的测验
func (r *QuizRepository) ListAvailable(courseIDs []string, now time.Time) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	if len(courseIDs) == 0 {
		return quizzes, nil
	}
	err := r.DB.Where("course_id IN ? AND published = ? AND open_at <= ? AND close_at >= ?", courseIDs, true, now, now).
		Order("open_at asc").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

// GetQuiz 供作答引擎读取测验策略
func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).First(&quiz, "id = ?", quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetOrderedQuestions 按 order_index 排序返回题目及选项
func (r *QuizRepository) GetOrderedQuestions(ctx context.Context, quizID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		Where("quiz_id = ?", quizID).
		Order("order_index asc, created_at asc").
		Find(&questions).Error
	return questions, err
}
