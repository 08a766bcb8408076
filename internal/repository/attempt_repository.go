package repository

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func orderedResponses(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// ExpireStale 将该用户在该测验下已过截止时间的进行中作答置为 expired
func (r *AttemptRepository) ExpireStale(ctx context.Context, quizID string, userID uint, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("quiz_id = ? AND user_id = ? AND status = ? AND end_at <= ?", quizID, userID, model.AttemptInProgress, now).
		Updates(map[string]interface{}{"status": model.AttemptExpired, "active_key": nil})
	return res.RowsAffected, res.Error
}

// ExpireAllStale 全量过期扫描，后台任务与脚本使用
func (r *AttemptRepository) ExpireAllStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("status = ? AND end_at <= ?", model.AttemptInProgress, now).
		Updates(map[string]interface{}{"status": model.AttemptExpired, "active_key": nil})
	return res.RowsAffected, res.Error
}

// FindActive 返回未过期的进行中作答，不存在时返回 nil, nil
func (r *AttemptRepository) FindActive(ctx context.Context, quizID string, userID uint, now time.Time) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.WithContext(ctx).
		Preload("Responses", orderedResponses).
		Where("quiz_id = ? AND user_id = ? AND status = ? AND end_at > ?", quizID, userID, model.AttemptInProgress, now).
		Order("started_at desc").
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountUsed(ctx context.Context, quizID string, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("quiz_id = ? AND user_id = ? AND status IN ?", quizID, userID, model.UsedAttemptStatuses).
		Count(&count).Error
	return count, err
}

// Create 连同 Responses 一起写入；唯一索引冲突时返回 util.ErrActiveAttemptConflict
func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrActiveAttemptConflict
	}
	return err
}

// FindByID 不存在时返回 nil, nil
func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.WithContext(ctx).Preload("Responses", orderedResponses).First(&attempt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// UpdateWithLock 在事务内锁定作答行后调用 mutate，mutate 返回错误则整体回滚。
// 只持久化状态、得分、提交时间、ActiveKey，以及发生变化的 Response。
func (r *AttemptRepository) UpdateWithLock(ctx context.Context, id string, mutate func(*model.Attempt) error) (*model.Attempt, error) {
	var result *model.Attempt
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempt model.Attempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&attempt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrAttemptNotFound
			}
			return err
		}
		if err := tx.Where("attempt_id = ?", id).Order("position asc").Find(&attempt.Responses).Error; err != nil {
			return err
		}

		before := make(map[string]model.Response, len(attempt.Responses))
		for _, resp := range attempt.Responses {
			before[resp.ID] = cloneResponse(resp)
		}

		if err := mutate(&attempt); err != nil {
			return err
		}

		err := tx.Model(&model.Attempt{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":       attempt.Status,
			"score":        attempt.Score,
			"submitted_at": nullable(attempt.SubmittedAt),
			"active_key":   nullable(attempt.ActiveKey),
		}).Error
		if err != nil {
			return err
		}

		for _, resp := range attempt.Responses {
			old, ok := before[resp.ID]
			if ok && old.PointsAwarded == resp.PointsAwarded && slices.Equal(old.SelectedChoiceIDs, resp.SelectedChoiceIDs) {
				continue
			}
			selected := resp.SelectedChoiceIDs
			if selected == nil {
				selected = datatypes.JSONSlice[string]{}
			}
			err := tx.Model(&model.Response{}).Where("id = ?", resp.ID).Updates(map[string]interface{}{
				"selected_choice_ids": selected,
				"points_awarded":      resp.PointsAwarded,
			}).Error
			if err != nil {
				return err
			}
		}

		result = &attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func cloneResponse(resp model.Response) model.Response {
	resp.SelectedChoiceIDs = slices.Clone(resp.SelectedChoiceIDs)
	return resp
}

type QuizGradeRow struct {
	AttemptID   string              `json:"attemptId"`
	UserID      uint                `json:"userId"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Score       int                 `json:"score"`
	SubmittedAt *time.Time          `json:"submittedAt"`
	Status      model.AttemptStatus `json:"status"`
}

// ListGradedByQuiz 已评分作答，按提交时间倒序
func (r *AttemptRepository) ListGradedByQuiz(ctx context.Context, quizID string) ([]QuizGradeRow, error) {
	var rows []QuizGradeRow
	err := r.DB.WithContext(ctx).Table("attempts a").
		Select("a.id as attempt_id, a.user_id, u.name, u.email, a.score, a.submitted_at, a.status").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Where("a.quiz_id = ? AND a.status = ? AND a.deleted_at IS NULL", quizID, model.AttemptGraded).
		Order("a.submitted_at desc").
		Scan(&rows).Error
	return rows, err
}

type MyGradeRow struct {
	AttemptID   string              `json:"attemptId"`
	QuizID      string              `json:"quizId"`
	QuizTitle   *string             `json:"quizTitle"`
	CourseID    *string             `json:"courseId"`
	CourseTitle *string             `json:"courseTitle"`
	Score       int                 `json:"score"`
	SubmittedAt *time.Time          `json:"submittedAt"`
	Status      model.AttemptStatus `json:"status"`
}

// ListGradedByUser 测验或课程被删除时标题为 NULL
func (r *AttemptRepository) ListGradedByUser(ctx context.Context, userID uint) ([]MyGradeRow, error) {
	var rows []MyGradeRow
	err := r.DB.WithContext(ctx).Table("attempts a").
		Select("a.id as attempt_id, a.quiz_id, q.title as quiz_title, c.id as course_id, c.title as course_title, a.score, a.submitted_at, a.status").
		Joins("LEFT JOIN quizzes q ON q.id = a.quiz_id AND q.deleted_at IS NULL").
		Joins("LEFT JOIN courses c ON c.id = q.course_id AND c.deleted_at IS NULL").
		Where("a.user_id = ? AND a.status = ? AND a.deleted_at IS NULL", userID, model.AttemptGraded).
		Order("a.submitted_at desc").
		Scan(&rows).Error
	return rows, err
}
