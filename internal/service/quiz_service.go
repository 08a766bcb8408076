package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"gorm.io/gorm"
)

type QuizService struct {
	Repo       *repository.QuizRepository
	CourseRepo *repository.CourseRepository
	Clock      clock.Clock
}

func NewQuizService(repo *repository.QuizRepository, courseRepo *repository.CourseRepository, clk clock.Clock) *QuizService {
	if clk == nil {
		clk = clock.New()
	}
	return &QuizService{Repo: repo, CourseRepo: courseRepo, Clock: clk}
}

type CreateQuizReq struct {
	Title           string    `json:"title" binding:"required,min=2" validate:"required,min=2"`
	Description     string    `json:"description"`
	OpenAt          time.Time `json:"openAt" binding:"required" validate:"required"`
	CloseAt         time.Time `json:"closeAt" binding:"required,gtfield=OpenAt" validate:"required,gtfield=OpenAt"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,min=1" validate:"required,min=1"`
	AttemptsAllowed int       `json:"attemptsAllowed" binding:"omitempty,min=1" validate:"omitempty,min=1"`
}

type ChoiceReq struct {
	Text      string `json:"text" binding:"required" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type AddQuestionReq struct {
	Prompt     string      `json:"prompt" binding:"required,min=2" validate:"required,min=2"`
	Points     *int        `json:"points" binding:"omitempty,min=0" validate:"omitempty,min=0"`
	OrderIndex int         `json:"orderIndex" binding:"min=0" validate:"min=0"`
	Choices    []ChoiceReq `json:"choices" binding:"required,min=2,dive" validate:"required,min=2,dive"`
}

// QuizDetail 学生视角的测验详情，选项不含正确标记
type QuizDetail struct {
	ID              string         `json:"id"`
	CourseID        string         `json:"courseId"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	OpenAt          time.Time      `json:"openAt"`
	CloseAt         time.Time      `json:"closeAt"`
	DurationMinutes int            `json:"durationMinutes"`
	AttemptsAllowed int            `json:"attemptsAllowed"`
	Questions       []QuestionView `json:"questions"`
}

func (s *QuizService) findQuiz(id string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) findCourse(id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// findOwnedQuiz 测验所在课程必须属于当前教师
func (s *QuizService) findOwnedQuiz(actor Actor, id string) (*model.Quiz, error) {
	quiz, err := s.findQuiz(id)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !actor.owns(course) {
		return nil, util.ErrNotCourseOwner
	}
	return quiz, nil
}

func (s *QuizService) CreateQuiz(actor Actor, courseID string, req CreateQuizReq) (*model.Quiz, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !actor.owns(course) {
		return nil, util.ErrNotCourseOwner
	}

	attempts := req.AttemptsAllowed
	if attempts == 0 {
		attempts = 1
	}
	quiz := &model.Quiz{
		CourseID:        course.ID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		OpenAt:          req.OpenAt,
		CloseAt:         req.CloseAt,
		DurationMinutes: req.DurationMinutes,
		AttemptsAllowed: attempts,
	}
	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) AddQuestion(actor Actor, quizID string, req AddQuestionReq) (*model.Question, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	quiz, err := s.findOwnedQuiz(actor, quizID)
	if err != nil {
		return nil, err
	}

	points := 1
	if req.Points != nil {
		points = *req.Points
	}
	question := &model.Question{
		QuizID:     quiz.ID,
		Type:       model.QuestionMCQSingle,
		Prompt:     strings.TrimSpace(req.Prompt),
		Points:     points,
		OrderIndex: req.OrderIndex,
	}
	for i, c := range req.Choices {
		question.Choices = append(question.Choices, model.Choice{
			Text:      c.Text,
			IsCorrect: c.IsCorrect,
			Position:  i,
		})
	}
	if err := s.Repo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) Publish(actor Actor, quizID string) (*model.Quiz, error) {
	quiz, err := s.findOwnedQuiz(actor, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetPublished(quiz.ID, true); err != nil {
		return nil, err
	}
	quiz.Published = true
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(actor Actor, quizID string) error {
	if _, err := s.findOwnedQuiz(actor, quizID); err != nil {
		return err
	}
	return s.Repo.Delete(quizID)
}

// ListCourseQuizzes 课程拥有者可见全部测验，已加入的学生只可见已发布的
func (s *QuizService) ListCourseQuizzes(ctx context.Context, actor Actor, courseID string) ([]model.Quiz, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if actor.owns(course) {
		return s.Repo.ListByCourse(course.ID, false)
	}

	enrolled, err := s.CourseRepo.IsActivelyEnrolled(ctx, actor.UserID, course.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return s.Repo.ListByCourse(course.ID, true)
}

// ListAvailable 学生已加入课程中当前开放的测验
func (s *QuizService) ListAvailable(actor Actor) ([]model.Quiz, error) {
	courseIDs, err := s.CourseRepo.ActiveCourseIDs(actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListAvailable(courseIDs, s.Clock.Now())
}

// GetQuizDetails 拥有者返回完整题目（含正确标记），学生仅在已发布且开放期内可见
func (s *QuizService) GetQuizDetails(ctx context.Context, actor Actor, quizID string) (interface{}, error) {
	quiz, err := s.findQuiz(quizID)
	if err != nil {
		return nil, err
	}
	course, err := s.findCourse(quiz.CourseID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Repo.GetOrderedQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	if actor.owns(course) {
		quiz.Questions = questions
		return quiz, nil
	}

	enrolled, err := s.CourseRepo.IsActivelyEnrolled(ctx, actor.UserID, course.ID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	if !quiz.Published {
		return nil, util.ErrQuizNotPublished
	}
	now := s.Clock.Now()
	if now.Before(quiz.OpenAt) {
		return nil, util.ErrQuizNotOpen
	}
	if now.After(quiz.CloseAt) {
		return nil, util.ErrQuizClosed
	}

	views := make([]QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, toQuestionView(&questions[i]))
	}
	return &QuizDetail{
		ID:              quiz.ID,
		CourseID:        quiz.CourseID,
		Title:           quiz.Title,
		Description:     quiz.Description,
		OpenAt:          quiz.OpenAt,
		CloseAt:         quiz.CloseAt,
		DurationMinutes: quiz.DurationMinutes,
		AttemptsAllowed: quiz.MaxAttempts(),
		Questions:       views,
	}, nil
}
