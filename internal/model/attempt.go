package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptGraded     AttemptStatus = "graded"
	AttemptExpired    AttemptStatus = "expired"
)

// UsedAttemptStatuses 计入已用次数的状态，expired 不计
var UsedAttemptStatuses = []AttemptStatus{AttemptInProgress, AttemptSubmitted, AttemptGraded}

// swagger:model Attempt
type Attempt struct {
	UUIDBase
	QuizID      string        `gorm:"type:varchar(36);not null;index:idx_attempt_quiz_user" json:"quizId"`
	UserID      uint          `gorm:"not null;index:idx_attempt_quiz_user" json:"userId"`
	StartedAt   time.Time     `gorm:"not null" json:"startedAt"`
	EndAt       time.Time     `gorm:"not null;index" json:"endAt"`
	SubmittedAt *time.Time    `json:"submittedAt"`
	Status      AttemptStatus `gorm:"size:20;not null;index" json:"status"`
	Score       int           `gorm:"not null;default:0" json:"score"`
	// ActiveKey 仅在 in_progress 时为 "quizId:userId"，其余为 NULL，由唯一索引保证同一用户同一测验只有一个进行中作答
	ActiveKey *string    `gorm:"size:80;uniqueIndex" json:"-"`
	Responses []Response `gorm:"foreignKey:AttemptID" json:"responses,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func ActiveAttemptKey(quizID string, userID uint) string {
	return fmt.Sprintf("%s:%d", quizID, userID)
}

// IsPastDeadline now 严格晚于 EndAt 才算超时
func (a *Attempt) IsPastDeadline(now time.Time) bool {
	return now.After(a.EndAt)
}

// EffectiveStatus 读路径使用：进行中但已过截止时间的作答视为 expired
func (a *Attempt) EffectiveStatus(now time.Time) AttemptStatus {
	if a.Status == AttemptInProgress && a.IsPastDeadline(now) {
		return AttemptExpired
	}
	return a.Status
}

func (a *Attempt) ResponseFor(questionID string) *Response {
	for i := range a.Responses {
		if a.Responses[i].QuestionID == questionID {
			return &a.Responses[i]
		}
	}
	return nil
}

// Response 开始作答时为每道题生成一条，之后只修改所选选项与得分
type Response struct {
	UUIDBase
	AttemptID         string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_response_attempt_question" json:"attemptId"`
	QuestionID        string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_response_attempt_question" json:"questionId"`
	Position          int                         `json:"position"`
	SelectedChoiceIDs datatypes.JSONSlice[string] `json:"selectedChoiceIds"`
	PointsAwarded     int                         `gorm:"not null;default:0" json:"pointsAwarded"`
}

func (Response) TableName() string {
	return "responses"
}
