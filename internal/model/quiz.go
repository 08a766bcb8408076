package model

import "time"

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	CourseID        string     `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	OpenAt          time.Time  `gorm:"not null" json:"openAt"`
	CloseAt         time.Time  `gorm:"not null" json:"closeAt"`
	DurationMinutes int        `gorm:"not null" json:"durationMinutes"`
	AttemptsAllowed int        `gorm:"not null" json:"attemptsAllowed"`
	Published       bool       `gorm:"default:false" json:"published"`
	Questions       []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// IsOpenAt 开放窗口为闭区间 [OpenAt, CloseAt]
func (q *Quiz) IsOpenAt(now time.Time) bool {
	return !now.Before(q.OpenAt) && !now.After(q.CloseAt)
}

// MaxAttempts 未配置时按 1 次处理
func (q *Quiz) MaxAttempts() int {
	if q.AttemptsAllowed < 1 {
		return 1
	}
	return q.AttemptsAllowed
}

type QuestionType string

const QuestionMCQSingle QuestionType = "mcq_single"

type Question struct {
	UUIDBase
	QuizID     string       `gorm:"type:varchar(36);index;not null" json:"quizId"`
	Type       QuestionType `gorm:"size:20;not null" json:"type"`
	Prompt     string       `gorm:"type:text;not null" json:"prompt"`
	Points     int          `gorm:"not null" json:"points"`
	OrderIndex int          `gorm:"index" json:"orderIndex"`
	Choices    []Choice     `gorm:"foreignKey:QuestionID" json:"choices"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoiceID 按选项顺序返回第一个正确选项，没有则返回空串
func (q *Question) CorrectChoiceID() string {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c.ID
		}
	}
	return ""
}

type Choice struct {
	UUIDBase
	QuestionID string `gorm:"type:varchar(36);index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Position   int    `json:"position"`
}

func (Choice) TableName() string {
	return "choices"
}
