package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/logger"
	"classquiz_backend/pkg/monitoring"
	"classquiz_backend/pkg/tracing"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QuizPolicy 只读测验策略，不存在时返回 util.ErrQuizNotFound
type QuizPolicy interface {
	GetQuiz(ctx context.Context, quizID string) (*model.Quiz, error)
}

type EnrollmentChecker interface {
	IsActivelyEnrolled(ctx context.Context, userID uint, courseID string) (bool, error)
}

// QuestionBank 按 orderIndex 排序返回题目与选项（含正确标记）
type QuestionBank interface {
	GetOrderedQuestions(ctx context.Context, quizID string) ([]model.Question, error)
}

// AttemptStore 作答持久化。FindActive / FindByID 未找到时返回 nil, nil；
// Create 遇到进行中作答唯一约束冲突时返回 util.ErrActiveAttemptConflict；
// UpdateWithLock 在行锁内执行 mutate，mutate 出错则不落库。
type AttemptStore interface {
	ExpireStale(ctx context.Context, quizID string, userID uint, now time.Time) (int64, error)
	ExpireAllStale(ctx context.Context, now time.Time) (int64, error)
	FindActive(ctx context.Context, quizID string, userID uint, now time.Time) (*model.Attempt, error)
	CountUsed(ctx context.Context, quizID string, userID uint) (int64, error)
	Create(ctx context.Context, attempt *model.Attempt) error
	FindByID(ctx context.Context, id string) (*model.Attempt, error)
	UpdateWithLock(ctx context.Context, id string, mutate func(*model.Attempt) error) (*model.Attempt, error)
}

type ChoiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView 发给学生的题目快照，不包含正确答案
type QuestionView struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Points  int          `json:"points"`
	Choices []ChoiceView `json:"choices"`
}

type StartAttemptResult struct {
	AttemptID string         `json:"attemptId"`
	EndAt     time.Time      `json:"endAt"`
	Resumed   bool           `json:"resumed"`
	Questions []QuestionView `json:"questions"`
}

type AutosaveInput struct {
	QuestionID        string   `json:"questionId" binding:"required" validate:"required"`
	SelectedChoiceIDs []string `json:"selectedChoiceIds" binding:"required,unique,dive,required" validate:"required,unique,dive,required"`
}

type SubmitResult struct {
	AttemptID   string    `json:"attemptId"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type AttemptResult struct {
	AttemptID   string              `json:"attemptId"`
	QuizID      string              `json:"quizId"`
	Status      model.AttemptStatus `json:"status"`
	Score       int                 `json:"score"`
	SubmittedAt *time.Time          `json:"submittedAt"`
	EndAt       time.Time           `json:"endAt"`
}

// AttemptService 作答生命周期：开始/续答、自动保存、提交评分、过期
type AttemptService struct {
	Quizzes     QuizPolicy
	Enrollments EnrollmentChecker
	Questions   QuestionBank
	Store       AttemptStore
	Locker      StartLocker
	Events      EventPublisher
	Clock       clock.Clock
	LockTTL     time.Duration
}

func NewAttemptService(quizzes QuizPolicy, enrollments EnrollmentChecker, questions QuestionBank, store AttemptStore, locker StartLocker, events EventPublisher, clk clock.Clock) *AttemptService {
	if clk == nil {
		clk = clock.New()
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	if events == nil {
		events = NoopPublisher{}
	}
	return &AttemptService{
		Quizzes:     quizzes,
		Enrollments: enrollments,
		Questions:   questions,
		Store:       store,
		Locker:      locker,
		Events:      events,
		Clock:       clk,
		LockTTL:     3 * time.Second,
	}
}

// Start 开始作答；已有未过期的进行中作答时原样续答，不重置计时
func (s *AttemptService) Start(ctx context.Context, userID uint, quizID string) (*StartAttemptResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Start")
	defer span.End()
	span.SetAttributes(attribute.String("quiz.id", quizID), attribute.Int64("user.id", int64(userID)))

	now := s.Clock.Now()

	quiz, err := s.Quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}
	if !quiz.Published {
		return nil, util.ErrQuizNotPublished
	}
	if now.Before(quiz.OpenAt) {
		return nil, util.ErrQuizNotOpen
	}
	if now.After(quiz.CloseAt) {
		return nil, util.ErrQuizClosed
	}

	enrolled, err := s.Enrollments.IsActivelyEnrolled(ctx, userID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	unlock := s.lockStart(ctx, quizID, userID)
	defer unlock()

	expired, err := s.Store.ExpireStale(ctx, quizID, userID, now)
	if err != nil {
		return nil, err
	}
	monitoring.RecordAttemptEvents("expired", expired)

	active, err := s.Store.FindActive(ctx, quizID, userID, now)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return s.resume(ctx, active)
	}

	used, err := s.Store.CountUsed(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if allowed := quiz.MaxAttempts(); int(used) >= allowed {
		monitoring.RecordAttemptEvent("exhausted")
		return nil, &util.AttemptsExhaustedError{Taken: int(used), Allowed: allowed}
	}

	questions, err := s.Questions.GetOrderedQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	endAt := now.Add(time.Duration(quiz.DurationMinutes) * time.Minute)
	if endAt.After(quiz.CloseAt) {
		endAt = quiz.CloseAt
	}

	key := model.ActiveAttemptKey(quizID, userID)
	attempt := &model.Attempt{
		QuizID:    quizID,
		UserID:    userID,
		StartedAt: now,
		EndAt:     endAt,
		Status:    model.AttemptInProgress,
		ActiveKey: &key,
		Responses: make([]model.Response, 0, len(questions)),
	}
	for i, q := range questions {
		attempt.Responses = append(attempt.Responses, model.Response{
			QuestionID:        q.ID,
			Position:          i,
			SelectedChoiceIDs: []string{},
		})
	}

	if err := s.Store.Create(ctx, attempt); err != nil {
		if !errors.Is(err, util.ErrActiveAttemptConflict) {
			return nil, err
		}
		// 并发请求已创建进行中作答，改为续答
		winner, ferr := s.Store.FindActive(ctx, quizID, userID, now)
		if ferr != nil {
			return nil, ferr
		}
		if winner == nil {
			return nil, err
		}
		return s.resume(ctx, winner)
	}

	monitoring.RecordAttemptEvent("started")
	logger.Log.Info("attempt started",
		zap.String("attemptId", attempt.ID),
		zap.String("quizId", quizID),
		zap.Uint("userId", userID),
		zap.Time("endAt", endAt),
	)

	return &StartAttemptResult{
		AttemptID: attempt.ID,
		EndAt:     attempt.EndAt,
		Resumed:   false,
		Questions: buildSnapshot(questions, attempt.Responses),
	}, nil
}

func (s *AttemptService) resume(ctx context.Context, attempt *model.Attempt) (*StartAttemptResult, error) {
	questions, err := s.Questions.GetOrderedQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	monitoring.RecordAttemptEvent("resumed")
	logger.Log.Debug("attempt resumed", zap.String("attemptId", attempt.ID))

	return &StartAttemptResult{
		AttemptID: attempt.ID,
		EndAt:     attempt.EndAt,
		Resumed:   true,
		Questions: buildSnapshot(questions, attempt.Responses),
	}, nil
}

// buildSnapshot 按作答创建时的题目顺序输出，已删除的题目跳过
func buildSnapshot(questions []model.Question, responses []model.Response) []QuestionView {
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	views := make([]QuestionView, 0, len(responses))
	for _, resp := range responses {
		q, ok := byID[resp.QuestionID]
		if !ok {
			continue
		}
		views = append(views, toQuestionView(q))
	}
	return views
}

func toQuestionView(q *model.Question) QuestionView {
	view := QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Points:  q.Points,
		Choices: make([]ChoiceView, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		view.Choices = append(view.Choices, ChoiceView{ID: c.ID, Text: c.Text})
	}
	return view
}

// Autosave 覆盖保存某题的选择，后写覆盖先写
func (s *AttemptService) Autosave(ctx context.Context, attemptID string, userID uint, in AutosaveInput) error {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Autosave")
	defer span.End()
	span.SetAttributes(attribute.String("attempt.id", attemptID))

	if err := validateStruct(in); err != nil {
		return err
	}

	now := s.Clock.Now()

	attempt, err := s.loadOwned(ctx, attemptID, userID)
	if err != nil {
		return err
	}
	if err := checkWritable(attempt, now); err != nil {
		return err
	}
	if attempt.ResponseFor(in.QuestionID) == nil {
		return util.ErrResponseNotFound
	}

	selected := slices.Clone(in.SelectedChoiceIDs)
	_, err = s.Store.UpdateWithLock(ctx, attemptID, func(a *model.Attempt) error {
		if err := checkWritable(a, now); err != nil {
			return err
		}
		resp := a.ResponseFor(in.QuestionID)
		if resp == nil {
			return util.ErrResponseNotFound
		}
		resp.SelectedChoiceIDs = selected
		return nil
	})
	return err
}

// Submit 提交并同步评分；超时提交会将作答置为 expired 并返回错误
func (s *AttemptService) Submit(ctx context.Context, attemptID string, userID uint) (*SubmitResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("attempt.id", attemptID))

	now := s.Clock.Now()

	attempt, err := s.loadOwned(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if err := checkSubmittable(attempt); err != nil {
		return nil, err
	}

	questions, err := s.Questions.GetOrderedQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	expiredNow := false
	updated, err := s.Store.UpdateWithLock(ctx, attemptID, func(a *model.Attempt) error {
		if err := checkSubmittable(a); err != nil {
			return err
		}
		if a.IsPastDeadline(now) {
			a.Status = model.AttemptExpired
			a.ActiveKey = nil
			expiredNow = true
			return nil
		}

		score, awarded := GradeAttempt(questions, a.Responses)
		for i := range a.Responses {
			a.Responses[i].PointsAwarded = awarded[i]
		}
		submittedAt := now
		a.Score = score
		a.Status = model.AttemptGraded
		a.SubmittedAt = &submittedAt
		a.ActiveKey = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expiredNow {
		monitoring.RecordAttemptEvent("expired")
		logger.Log.Info("attempt expired on submit", zap.String("attemptId", attemptID), zap.Time("endAt", updated.EndAt))
		s.publish(ctx, AttemptEventExpired, updated, now)
		return nil, util.ErrAttemptExpired
	}

	monitoring.RecordAttemptEvent("graded")
	monitoring.ObserveScore(updated.Score)
	logger.Log.Info("attempt graded",
		zap.String("attemptId", attemptID),
		zap.Uint("userId", userID),
		zap.Int("score", updated.Score),
	)
	s.publish(ctx, AttemptEventGraded, updated, now)

	return &SubmitResult{AttemptID: updated.ID, Score: updated.Score, SubmittedAt: now}, nil
}

// GetResult 进行中但已过截止时间的作答按 expired 返回
func (s *AttemptService) GetResult(ctx context.Context, attemptID string, userID uint) (*AttemptResult, error) {
	now := s.Clock.Now()

	attempt, err := s.loadOwned(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}

	return &AttemptResult{
		AttemptID:   attempt.ID,
		QuizID:      attempt.QuizID,
		Status:      attempt.EffectiveStatus(now),
		Score:       attempt.Score,
		SubmittedAt: attempt.SubmittedAt,
		EndAt:       attempt.EndAt,
	}, nil
}

// SweepExpired 将所有已过截止时间的进行中作答置为 expired
func (s *AttemptService) SweepExpired(ctx context.Context) (int64, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AttemptService.SweepExpired")
	defer span.End()

	n, err := s.Store.ExpireAllStale(ctx, s.Clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		monitoring.RecordAttemptEvents("swept", n)
		logger.Log.Info("expired stale attempts", zap.Int64("count", n))
	}
	return n, nil
}

func (s *AttemptService) loadOwned(ctx context.Context, attemptID string, userID uint) (*model.Attempt, error) {
	attempt, err := s.Store.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptForbidden
	}
	return attempt, nil
}

func checkSubmittable(a *model.Attempt) error {
	switch a.Status {
	case model.AttemptGraded, model.AttemptSubmitted:
		return util.ErrAttemptAlreadySubmitted
	case model.AttemptExpired:
		return util.ErrAttemptExpired
	}
	return nil
}

func checkWritable(a *model.Attempt, now time.Time) error {
	if err := checkSubmittable(a); err != nil {
		return err
	}
	if a.IsPastDeadline(now) {
		return util.ErrAttemptExpired
	}
	return nil
}

func (s *AttemptService) lockStart(ctx context.Context, quizID string, userID uint) func() {
	key := "attempt:start:" + model.ActiveAttemptKey(quizID, userID)
	for i := 0; i < 5; i++ {
		unlock, ok, err := s.Locker.TryLock(ctx, key, s.LockTTL)
		if err != nil {
			// 锁服务不可用时继续执行，唯一索引兜底
			logger.Log.Warn("start lock unavailable", zap.String("key", key), zap.Error(err))
			return func() {}
		}
		if ok {
			return unlock
		}
		select {
		case <-ctx.Done():
			return func() {}
		case <-time.After(50 * time.Millisecond):
		}
	}
	logger.Log.Debug("start lock contended, proceeding", zap.String("key", key))
	return func() {}
}

func (s *AttemptService) publish(ctx context.Context, eventType string, a *model.Attempt, now time.Time) {
	evt := AttemptEvent{
		Type:       eventType,
		AttemptID:  a.ID,
		QuizID:     a.QuizID,
		UserID:     a.UserID,
		Score:      a.Score,
		Status:     a.Status,
		OccurredAt: now,
	}
	if err := s.Events.PublishAttemptEvent(ctx, evt); err != nil {
		logger.Log.Warn("publish attempt event failed", zap.String("type", eventType), zap.Error(err))
	}
}
