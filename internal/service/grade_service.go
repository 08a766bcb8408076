package service

import (
	"bytes"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/logger"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	unknownQuizTitle   = "Unknown Quiz"
	unknownCourseTitle = "Unknown Course"
)

// GradeService 成绩查询与导出
type GradeService struct {
	Attempts *repository.AttemptRepository
	Quizzes  *QuizService
	Storage  *StorageService
	Clock    clock.Clock
}

func NewGradeService(attempts *repository.AttemptRepository, quizzes *QuizService, storage *StorageService, clk clock.Clock) *GradeService {
	if clk == nil {
		clk = clock.New()
	}
	return &GradeService{Attempts: attempts, Quizzes: quizzes, Storage: storage, Clock: clk}
}

type GradeStudent struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type QuizGradeEntry struct {
	AttemptID   string       `json:"attemptId"`
	Student     GradeStudent `json:"student"`
	Score       int          `json:"score"`
	SubmittedAt *time.Time   `json:"submittedAt"`
	Status      string       `json:"status"`
}

type QuizRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type QuizGrades struct {
	Quiz    QuizRef          `json:"quiz"`
	Results []QuizGradeEntry `json:"results"`
}

type CourseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type MyGradeEntry struct {
	AttemptID   string     `json:"attemptId"`
	Quiz        QuizRef    `json:"quiz"`
	Course      CourseRef  `json:"course"`
	Score       int        `json:"score"`
	SubmittedAt *time.Time `json:"submittedAt"`
	Status      string     `json:"status"`
}

type MyGrades struct {
	Results []MyGradeEntry `json:"results"`
}

type GradeExport struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// ListQuizGrades 课程拥有者查看某测验的已评分作答
func (s *GradeService) ListQuizGrades(ctx context.Context, actor Actor, quizID string) (*QuizGrades, error) {
	quiz, err := s.Quizzes.findOwnedQuiz(actor, quizID)
	if err != nil {
		return nil, err
	}

	rows, err := s.Attempts.ListGradedByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	out := &QuizGrades{
		Quiz:    QuizRef{ID: quiz.ID, Title: quiz.Title},
		Results: make([]QuizGradeEntry, 0, len(rows)),
	}
	for _, row := range rows {
		out.Results = append(out.Results, QuizGradeEntry{
			AttemptID:   row.AttemptID,
			Student:     GradeStudent{ID: row.UserID, Name: row.Name, Email: row.Email},
			Score:       row.Score,
			SubmittedAt: row.SubmittedAt,
			Status:      string(row.Status),
		})
	}
	return out, nil
}

// ListMyGrades 当前用户全部已评分作答，测验或课程已删除时使用占位标题
func (s *GradeService) ListMyGrades(ctx context.Context, userID uint) (*MyGrades, error) {
	rows, err := s.Attempts.ListGradedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &MyGrades{Results: make([]MyGradeEntry, 0, len(rows))}
	for _, row := range rows {
		entry := MyGradeEntry{
			AttemptID:   row.AttemptID,
			Quiz:        QuizRef{ID: row.QuizID, Title: unknownQuizTitle},
			Course:      CourseRef{Title: unknownCourseTitle},
			Score:       row.Score,
			SubmittedAt: row.SubmittedAt,
			Status:      string(row.Status),
		}
		if row.QuizTitle != nil {
			entry.Quiz.Title = *row.QuizTitle
		}
		if row.CourseID != nil {
			entry.Course.ID = *row.CourseID
		}
		if row.CourseTitle != nil {
			entry.Course.Title = *row.CourseTitle
		}
		out.Results = append(out.Results, entry)
	}
	return out, nil
}

// ExportQuizGrades 生成 CSV 并上传到配置的存储后端
func (s *GradeService) ExportQuizGrades(ctx context.Context, actor Actor, quizID string) (*GradeExport, error) {
	grades, err := s.ListQuizGrades(ctx, actor, quizID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"attempt_id", "student_id", "name", "email", "score", "submitted_at"}); err != nil {
		return nil, err
	}
	for _, r := range grades.Results {
		submitted := ""
		if r.SubmittedAt != nil {
			submitted = r.SubmittedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			r.AttemptID,
			strconv.FormatUint(uint64(r.Student.ID), 10),
			r.Student.Name,
			r.Student.Email,
			strconv.Itoa(r.Score),
			submitted,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/quiz_%s_%s.csv", grades.Quiz.ID, s.Clock.Now().UTC().Format("20060102150405"))
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimeCSV)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Quiz grades exported",
		zap.String("quizId", grades.Quiz.ID),
		zap.Int("rows", len(grades.Results)),
		zap.String("url", url))

	return &GradeExport{URL: url, Count: len(grades.Results)}, nil
}
