package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"gorm.io/gorm"
)

type CourseService struct {
	Repo *repository.CourseRepository
}

func NewCourseService(repo *repository.CourseRepository) *CourseService {
	return &CourseService{Repo: repo}
}

type CourseReq struct {
	Title       string `json:"title" binding:"required,min=2" validate:"required,min=2"`
	Description string `json:"description"`
}

// CourseView 学生视角不返回加入码
type CourseView struct {
	model.Course
	IsOwner bool `json:"isOwner"`
}

func (s *CourseService) CreateCourse(actor Actor, req CourseReq) (*model.Course, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	code, err := s.generateJoinCode()
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		JoinCode:    code,
		TeacherID:   actor.UserID,
	}
	if err := s.Repo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) generateJoinCode() (string, error) {
	alphabet := util.JoinCodeAlphabet
	max := big.NewInt(int64(len(alphabet)))

	for i := 0; i < 5; i++ {
		var sb strings.Builder
		for j := 0; j < util.JoinCodeLength; j++ {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", err
			}
			sb.WriteByte(alphabet[n.Int64()])
		}
		code := sb.String()
		exists, err := s.Repo.JoinCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("failed to generate unique join code")
}

// ListMyCourses 教师返回自己创建的课程，学生返回已加入的课程
func (s *CourseService) ListMyCourses(actor Actor) ([]model.Course, error) {
	if actor.Role == model.Teacher || actor.IsAdmin() {
		return s.Repo.ListByTeacher(actor.UserID)
	}
	courses, err := s.Repo.ListByStudent(actor.UserID)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].JoinCode = ""
	}
	return courses, nil
}

func (s *CourseService) findCourse(id string) (*model.Course, error) {
	course, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// findOwnedCourse 课程不存在返回 NotFound，非拥有者返回 Forbidden
func (s *CourseService) findOwnedCourse(actor Actor, id string) (*model.Course, error) {
	course, err := s.findCourse(id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(course) {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}

func (s *CourseService) GetCourse(actor Actor, id string) (*CourseView, error) {
	course, err := s.findCourse(id)
	if err != nil {
		return nil, err
	}
	if actor.owns(course) {
		return &CourseView{Course: *course, IsOwner: true}, nil
	}

	enrolled, err := s.Repo.IsActivelyEnrolled(context.Background(), actor.UserID, course.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	course.JoinCode = ""
	return &CourseView{Course: *course}, nil
}

func (s *CourseService) UpdateCourse(actor Actor, id string, req CourseReq) (*model.Course, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	course, err := s.findOwnedCourse(actor, id)
	if err != nil {
		return nil, err
	}
	course.Title = strings.TrimSpace(req.Title)
	course.Description = req.Description
	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(actor Actor, id string) error {
	if _, err := s.findOwnedCourse(actor, id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

// JoinCourse 通过课程ID + 加入码加入
func (s *CourseService) JoinCourse(actor Actor, courseID, joinCode string) (*model.Enrollment, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(course.JoinCode, strings.TrimSpace(joinCode)) {
		return nil, util.ErrInvalidJoinCode
	}
	return s.Repo.UpsertActiveEnrollment(course.ID, actor.UserID)
}

// JoinByCode 仅凭加入码加入
func (s *CourseService) JoinByCode(actor Actor, joinCode string) (*model.Course, *model.Enrollment, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if code == "" {
		return nil, nil, util.ErrInvalidJoinCode
	}
	course, err := s.Repo.FindByJoinCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrInvalidJoinCode
	}
	if err != nil {
		return nil, nil, err
	}
	enrollment, err := s.Repo.UpsertActiveEnrollment(course.ID, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	course.JoinCode = ""
	return course, enrollment, nil
}

func (s *CourseService) Roster(actor Actor, courseID string) ([]repository.RosterRow, error) {
	if _, err := s.findOwnedCourse(actor, courseID); err != nil {
		return nil, err
	}
	return s.Repo.ListRoster(courseID)
}

func (s *CourseService) RemoveStudent(actor Actor, courseID string, userID uint) error {
	if _, err := s.findOwnedCourse(actor, courseID); err != nil {
		return err
	}
	removed, err := s.Repo.RemoveEnrollment(courseID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return &util.AppError{Kind: util.KindNotFound, Message: fmt.Sprintf("Student %d not enrolled", userID)}
	}
	return nil
}
