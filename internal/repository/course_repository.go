package repository

import (
	"classquiz_backend/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	return &course, err
}

func (r *CourseRepository) FindByJoinCode(code string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("join_code = ?", code).First(&course).Error
	return &course, err
}

func (r *CourseRepository) JoinCodeExists(code string) (bool, error) {
	var count int64
	err := r.DB.Unscoped().Model(&model.Course{}).Where("join_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Model(course).Select("title", "description").Updates(course).Error
}

// Delete 删除课程及其全部成员关系
func (r *CourseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
}

func (r *CourseRepository) ListByTeacher(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByStudent(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Model(&model.Course{}).
		Joins("JOIN enrollments e ON e.course_id = courses.id").
		Where("e.user_id = ? AND e.status = ?", userID, model.EnrollmentActive).
		Order("courses.created_at desc").
		Find(&courses).Error
	return courses, err
}

// UpsertActiveEnrollment 已存在则恢复为 active
func (r *CourseRepository) UpsertActiveEnrollment(courseID string, userID uint) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{
		CourseID:     courseID,
		UserID:       userID,
		RoleInCourse: model.Student,
		Status:       model.EnrollmentActive,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"status": model.EnrollmentActive, "updated_at": time.Now()}),
	}).Create(enrollment).Error
	if err != nil {
		return nil, err
	}

	var stored model.Enrollment
	err = r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).First(&stored).Error
	return &stored, err
}

func (r *CourseRepository) RemoveEnrollment(courseID string, userID uint) (bool, error) {
	res := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ? AND status = ?", courseID, userID, model.EnrollmentActive).
		Update("status", model.EnrollmentRemoved)
	return res.RowsAffected > 0, res.Error
}

// IsActivelyEnrolled 供作答引擎做选课校验
func (r *CourseRepository) IsActivelyEnrolled(ctx context.Context, userID uint, courseID string) (bool, error) {
	var enrollment model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND user_id = ? AND status = ?", courseID, userID, model.EnrollmentActive).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *CourseRepository) ActiveCourseIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, model.EnrollmentActive).
		Pluck("course_id", &ids).Error
	return ids, err
}

type RosterRow struct {
	UserID   uint      `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (r *CourseRepository) ListRoster(courseID string) ([]RosterRow, error) {
	var rows []RosterRow
	err := r.DB.Table("enrollments e").
		Select("u.id as user_id, u.name, u.email, e.created_at as joined_at").
		Joins("JOIN users u ON u.id = e.user_id AND u.deleted_at IS NULL").
		Where("e.course_id = ? AND e.status = ? AND e.deleted_at IS NULL", courseID, model.EnrollmentActive).
		Order("u.name asc").
		Scan(&rows).Error
	return rows, err
}
