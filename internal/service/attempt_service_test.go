package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// memStore 内存版作答存储，模拟 active_key 唯一约束与行锁
type memStore struct {
	mu       sync.Mutex
	attempts map[string]*model.Attempt
	order    []string
	seq      int
}

func newMemStore() *memStore {
	return &memStore{attempts: make(map[string]*model.Attempt)}
}

func cloneAttempt(a *model.Attempt) *model.Attempt {
	c := *a
	if a.ActiveKey != nil {
		k := *a.ActiveKey
		c.ActiveKey = &k
	}
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		c.SubmittedAt = &t
	}
	c.Responses = make([]model.Response, len(a.Responses))
	for i, r := range a.Responses {
		r.SelectedChoiceIDs = slices.Clone(r.SelectedChoiceIDs)
		c.Responses[i] = r
	}
	return &c
}

func (m *memStore) ExpireStale(ctx context.Context, quizID string, userID uint, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID && a.Status == model.AttemptInProgress && !a.EndAt.After(now) {
			a.Status = model.AttemptExpired
			a.ActiveKey = nil
			n++
		}
	}
	return n, nil
}

func (m *memStore) ExpireAllStale(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.attempts {
		if a.Status == model.AttemptInProgress && !a.EndAt.After(now) {
			a.Status = model.AttemptExpired
			a.ActiveKey = nil
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindActive(ctx context.Context, quizID string, userID uint, now time.Time) (*model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		a := m.attempts[id]
		if a.QuizID == quizID && a.UserID == userID && a.Status == model.AttemptInProgress && a.EndAt.After(now) {
			return cloneAttempt(a), nil
		}
	}
	return nil, nil
}

func (m *memStore) CountUsed(ctx context.Context, quizID string, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID && slices.Contains(model.UsedAttemptStatuses, a.Status) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Create(ctx context.Context, attempt *model.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if attempt.ActiveKey != nil {
		for _, a := range m.attempts {
			if a.ActiveKey != nil && *a.ActiveKey == *attempt.ActiveKey {
				return util.ErrActiveAttemptConflict
			}
		}
	}
	m.seq++
	attempt.ID = fmt.Sprintf("att-%d", m.seq)
	for i := range attempt.Responses {
		attempt.Responses[i].ID = fmt.Sprintf("%s-r%d", attempt.ID, i)
		attempt.Responses[i].AttemptID = attempt.ID
	}
	m.attempts[attempt.ID] = cloneAttempt(attempt)
	m.order = append(m.order, attempt.ID)
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id string) (*model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, nil
	}
	return cloneAttempt(a), nil
}

func (m *memStore) UpdateWithLock(ctx context.Context, id string, mutate func(*model.Attempt) error) (*model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, util.ErrAttemptNotFound
	}
	working := cloneAttempt(a)
	if err := mutate(working); err != nil {
		return nil, err
	}
	m.attempts[id] = cloneAttempt(working)
	return working, nil
}

type fakeQuizzes map[string]*model.Quiz

func (f fakeQuizzes) GetQuiz(ctx context.Context, quizID string) (*model.Quiz, error) {
	q, ok := f[quizID]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	return q, nil
}

type fakeEnrollments map[string]bool

func (f fakeEnrollments) IsActivelyEnrolled(ctx context.Context, userID uint, courseID string) (bool, error) {
	return f[fmt.Sprintf("%s:%d", courseID, userID)], nil
}

type fakeBank map[string][]model.Question

func (f fakeBank) GetOrderedQuestions(ctx context.Context, quizID string) ([]model.Question, error) {
	return f[quizID], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AttemptEvent
}

func (p *recordingPublisher) PublishAttemptEvent(ctx context.Context, evt AttemptEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

const (
	studentID  uint = 7
	strangerID uint = 8
)

var midnight = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	svc    *AttemptService
	store  *memStore
	clock  *clock.Mock
	quiz   *model.Quiz
	events *recordingPublisher
}

// newHarness 测验开放 00:00-01:00，一道 1 分题，A 为正确选项
func newHarness(t *testing.T, duration, allowed int) *harness {
	t.Helper()

	quiz := &model.Quiz{
		CourseID:        "course-1",
		Title:           "Quiz",
		OpenAt:          midnight,
		CloseAt:         midnight.Add(time.Hour),
		DurationMinutes: duration,
		AttemptsAllowed: allowed,
		Published:       true,
	}
	quiz.ID = "quiz-1"

	q := model.Question{Prompt: "Pick A", Points: 1, Type: model.QuestionMCQSingle}
	q.ID = "q1"
	a := model.Choice{Text: "A", IsCorrect: true, Position: 0}
	a.ID = "A"
	b := model.Choice{Text: "B", Position: 1}
	b.ID = "B"
	q.Choices = []model.Choice{a, b}

	mock := clock.NewMock()
	mock.Set(midnight)

	store := newMemStore()
	events := &recordingPublisher{}
	svc := NewAttemptService(
		fakeQuizzes{quiz.ID: quiz},
		fakeEnrollments{fmt.Sprintf("course-1:%d", studentID): true},
		fakeBank{quiz.ID: {q}},
		store,
		nil,
		events,
		mock,
	)

	return &harness{svc: svc, store: store, clock: mock, quiz: quiz, events: events}
}

func (h *harness) at(minutes int) {
	h.clock.Set(midnight.Add(time.Duration(minutes) * time.Minute))
}

func TestStartExampleScenario(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	h.at(50)
	res, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if want := midnight.Add(time.Hour); !res.EndAt.Equal(want) {
		t.Errorf("endAt = %v, want %v", res.EndAt, want)
	}
	if len(res.Questions) != 1 || len(res.Questions[0].Choices) != 2 {
		t.Fatalf("unexpected snapshot: %+v", res.Questions)
	}

	if err := h.svc.Autosave(ctx, res.AttemptID, studentID, AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: []string{"A"}}); err != nil {
		t.Fatalf("Autosave: %v", err)
	}

	h.at(55)
	sub, err := h.svc.Submit(ctx, res.AttemptID, studentID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Score != 1 {
		t.Errorf("score = %d, want 1", sub.Score)
	}

	result, err := h.svc.GetResult(ctx, res.AttemptID, studentID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if result.Status != model.AttemptGraded || result.SubmittedAt == nil {
		t.Errorf("result = %+v", result)
	}

	_, err = h.svc.Start(ctx, studentID, "quiz-1")
	var exhausted *util.AttemptsExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if exhausted.Taken != 1 || exhausted.Allowed != 1 {
		t.Errorf("exhausted = %+v", exhausted)
	}

	if got := h.events.types(); !slices.Equal(got, []string{AttemptEventGraded}) {
		t.Errorf("events = %v", got)
	}
}

func TestStartClampsEndAtToCloseAt(t *testing.T) {
	h := newHarness(t, 30, 1)
	h.at(50)

	res, err := h.svc.Start(context.Background(), studentID, "quiz-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if want := midnight.Add(time.Hour); !res.EndAt.Equal(want) {
		t.Errorf("endAt = %v, want %v", res.EndAt, want)
	}
}

func TestStartUsesDurationWhenWithinWindow(t *testing.T) {
	h := newHarness(t, 10, 1)
	h.at(5)

	res, err := h.svc.Start(context.Background(), studentID, "quiz-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if want := midnight.Add(15 * time.Minute); !res.EndAt.Equal(want) {
		t.Errorf("endAt = %v, want %v", res.EndAt, want)
	}
}

func TestStartTwiceResumesSameAttempt(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()
	h.at(1)

	first, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	h.at(3)
	second, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}

	if second.AttemptID != first.AttemptID {
		t.Errorf("resumed attempt %s, want %s", second.AttemptID, first.AttemptID)
	}
	if !second.Resumed || first.Resumed {
		t.Errorf("resumed flags = %v, %v", first.Resumed, second.Resumed)
	}
	if !second.EndAt.Equal(first.EndAt) {
		t.Errorf("timer reset: %v vs %v", second.EndAt, first.EndAt)
	}
	if len(h.store.attempts) != 1 {
		t.Errorf("stored attempts = %d", len(h.store.attempts))
	}
}

func TestStartConcurrentCallsCreateOneAttempt(t *testing.T) {
	h := newHarness(t, 10, 3)
	h.at(1)

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := h.svc.Start(context.Background(), studentID, "quiz-1")
			errs[i] = err
			if res != nil {
				ids[i] = res.AttemptID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("call %d got attempt %s, want %s", i, ids[i], ids[0])
		}
	}
	if len(h.store.attempts) != 1 {
		t.Errorf("stored attempts = %d, want 1", len(h.store.attempts))
	}
}

func TestStartPreconditionsInOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("missing quiz", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		if _, err := h.svc.Start(ctx, studentID, "nope"); !errors.Is(err, util.ErrQuizNotFound) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("unpublished beats not enrolled", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		h.quiz.Published = false
		if _, err := h.svc.Start(ctx, strangerID, "quiz-1"); !errors.Is(err, util.ErrQuizNotPublished) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("not open yet", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		h.clock.Set(midnight.Add(-time.Second))
		if _, err := h.svc.Start(ctx, studentID, "quiz-1"); !errors.Is(err, util.ErrQuizNotOpen) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("closed", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		h.clock.Set(midnight.Add(time.Hour + time.Second))
		if _, err := h.svc.Start(ctx, studentID, "quiz-1"); !errors.Is(err, util.ErrQuizClosed) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("not enrolled", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		if _, err := h.svc.Start(ctx, strangerID, "quiz-1"); !errors.Is(err, util.ErrNotEnrolled) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestStartSweepsStaleAttemptAndExcludesItFromCount(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	h.at(0)
	first, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 超过截止时间后再次开始：旧作答被扫为 expired，不占用次数
	h.at(20)
	second, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if second.AttemptID == first.AttemptID || second.Resumed {
		t.Fatalf("expected a fresh attempt, got %+v", second)
	}
	if got := h.store.attempts[first.AttemptID].Status; got != model.AttemptExpired {
		t.Errorf("stale attempt status = %s", got)
	}
	if h.store.attempts[first.AttemptID].ActiveKey != nil {
		t.Error("stale attempt still holds the active key")
	}
}

func TestStartExpiredAttemptsDoNotCount(t *testing.T) {
	h := newHarness(t, 5, 1)
	ctx := context.Background()

	h.at(0)
	if _, err := h.svc.Start(ctx, studentID, "quiz-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 第一次作答超时未提交，不占用次数
	h.at(10)
	second, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("start after expiry: %v", err)
	}
	if _, err := h.svc.Submit(ctx, second.AttemptID, studentID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	h.at(20)
	_, err = h.svc.Start(ctx, studentID, "quiz-1")
	var exhausted *util.AttemptsExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Taken != 1 || exhausted.Allowed != 1 {
		t.Fatalf("err = %v", err)
	}
}

func TestStartExhaustedReportsCounts(t *testing.T) {
	h := newHarness(t, 5, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		h.at(i * 10)
		res, err := h.svc.Start(ctx, studentID, "quiz-1")
		if err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		if _, err := h.svc.Submit(ctx, res.AttemptID, studentID); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	h.at(30)
	_, err := h.svc.Start(ctx, studentID, "quiz-1")
	var exhausted *util.AttemptsExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Taken != 2 || exhausted.Allowed != 2 {
		t.Fatalf("err = %v", err)
	}
}

func TestStartZeroAllowedTreatedAsOne(t *testing.T) {
	h := newHarness(t, 5, 0)
	ctx := context.Background()

	res, err := h.svc.Start(ctx, studentID, "quiz-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := h.svc.Submit(ctx, res.AttemptID, studentID); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err = h.svc.Start(ctx, studentID, "quiz-1")
	var exhausted *util.AttemptsExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Allowed != 1 {
		t.Fatalf("err = %v", err)
	}
}

func TestAutosave(t *testing.T) {
	ctx := context.Background()

	t.Run("last write wins", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		res, _ := h.svc.Start(ctx, studentID, "quiz-1")
		for _, sel := range [][]string{{"B"}, {"A"}, {}} {
			if err := h.svc.Autosave(ctx, res.AttemptID, studentID, AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: sel}); err != nil {
				t.Fatalf("Autosave %v: %v", sel, err)
			}
		}
		got := h.store.attempts[res.AttemptID].Responses[0].SelectedChoiceIDs
		if len(got) != 0 {
			t.Errorf("selection = %v, want empty", got)
		}
	})

	t.Run("not found vs forbidden", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		res, _ := h.svc.Start(ctx, studentID, "quiz-1")
		in := AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: []string{"A"}}
		if err := h.svc.Autosave(ctx, "missing", studentID, in); !errors.Is(err, util.ErrAttemptNotFound) {
			t.Errorf("missing: %v", err)
		}
		if err := h.svc.Autosave(ctx, res.AttemptID, strangerID, in); !errors.Is(err, util.ErrAttemptForbidden) {
			t.Errorf("stranger: %v", err)
		}
	})

	t.Run("unknown question", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		res, _ := h.svc.Start(ctx, studentID, "quiz-1")
		err := h.svc.Autosave(ctx, res.AttemptID, studentID, AutosaveInput{QuestionID: "q9", SelectedChoiceIDs: []string{"A"}})
		if !errors.Is(err, util.ErrResponseNotFound) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("malformed selection", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		res, _ := h.svc.Start(ctx, studentID, "quiz-1")
		cases := []AutosaveInput{
			{QuestionID: "q1", SelectedChoiceIDs: nil},
			{QuestionID: "q1", SelectedChoiceIDs: []string{"A", "A"}},
			{QuestionID: "q1", SelectedChoiceIDs: []string{""}},
			{QuestionID: "", SelectedChoiceIDs: []string{"A"}},
		}
		for _, in := range cases {
			err := h.svc.Autosave(ctx, res.AttemptID, studentID, in)
			if kind, ok := util.KindOf(err); !ok || kind != util.KindValidation {
				t.Errorf("input %+v: err = %v", in, err)
			}
		}
	})

	t.Run("at deadline accepted, after rejected", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		res, _ := h.svc.Start(ctx, studentID, "quiz-1")
		in := AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: []string{"A"}}

		h.at(10)
		if err := h.svc.Autosave(ctx, res.AttemptID, studentID, in); err != nil {
			t.Fatalf("at deadline: %v", err)
		}
		h.clock.Add(time.Millisecond)
		if err := h.svc.Autosave(ctx, res.AttemptID, studentID, in); !errors.Is(err, util.ErrAttemptExpired) {
			t.Fatalf("after deadline: %v", err)
		}
		if got := h.store.attempts[res.AttemptID].Status; got != model.AttemptInProgress {
			t.Errorf("autosave must not transition status, got %s", got)
		}
	})

	t.Run("after submit rejected", func(t *testing.T) {
		h := newHarness(t, 10, 1)
		res, _ := h.svc.Start(ctx, studentID, "quiz-1")
		if _, err := h.svc.Submit(ctx, res.AttemptID, studentID); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		err := h.svc.Autosave(ctx, res.AttemptID, studentID, AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: []string{"A"}})
		if !errors.Is(err, util.ErrAttemptAlreadySubmitted) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestSubmitAfterDeadlineExpires(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	res, _ := h.svc.Start(ctx, studentID, "quiz-1")
	_ = h.svc.Autosave(ctx, res.AttemptID, studentID, AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: []string{"A"}})

	h.at(11)
	if _, err := h.svc.Submit(ctx, res.AttemptID, studentID); !errors.Is(err, util.ErrAttemptExpired) {
		t.Fatalf("err = %v", err)
	}

	stored := h.store.attempts[res.AttemptID]
	if stored.Status != model.AttemptExpired || stored.Score != 0 || stored.ActiveKey != nil {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := h.svc.Submit(ctx, res.AttemptID, studentID); !errors.Is(err, util.ErrAttemptExpired) {
		t.Errorf("second submit err = %v", err)
	}
	if got := h.events.types(); !slices.Equal(got, []string{AttemptEventExpired}) {
		t.Errorf("events = %v", got)
	}
}

func TestSubmitTwiceKeepsScore(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	res, _ := h.svc.Start(ctx, studentID, "quiz-1")
	_ = h.svc.Autosave(ctx, res.AttemptID, studentID, AutosaveInput{QuestionID: "q1", SelectedChoiceIDs: []string{"A"}})

	h.at(2)
	first, err := h.svc.Submit(ctx, res.AttemptID, studentID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	h.at(3)
	if _, err := h.svc.Submit(ctx, res.AttemptID, studentID); !errors.Is(err, util.ErrAttemptAlreadySubmitted) {
		t.Fatalf("second submit err = %v", err)
	}

	stored := h.store.attempts[res.AttemptID]
	if stored.Score != first.Score || stored.Score != 1 {
		t.Errorf("score = %d, want %d", stored.Score, first.Score)
	}
	if !stored.SubmittedAt.Equal(midnight.Add(2 * time.Minute)) {
		t.Errorf("submittedAt changed: %v", stored.SubmittedAt)
	}
	if stored.Responses[0].PointsAwarded != 1 {
		t.Errorf("points awarded = %d", stored.Responses[0].PointsAwarded)
	}
}

func TestSubmitForbiddenForOtherUser(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	res, _ := h.svc.Start(ctx, studentID, "quiz-1")
	if _, err := h.svc.Submit(ctx, res.AttemptID, strangerID); !errors.Is(err, util.ErrAttemptForbidden) {
		t.Fatalf("err = %v", err)
	}
	if got := h.store.attempts[res.AttemptID].Status; got != model.AttemptInProgress {
		t.Errorf("status = %s", got)
	}
}

func TestGetResultProjectsExpiry(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	res, _ := h.svc.Start(ctx, studentID, "quiz-1")

	h.at(5)
	r, err := h.svc.GetResult(ctx, res.AttemptID, studentID)
	if err != nil || r.Status != model.AttemptInProgress {
		t.Fatalf("before deadline: %+v, %v", r, err)
	}

	h.at(30)
	r, err = h.svc.GetResult(ctx, res.AttemptID, studentID)
	if err != nil || r.Status != model.AttemptExpired {
		t.Fatalf("after deadline: %+v, %v", r, err)
	}

	if _, err := h.svc.GetResult(ctx, res.AttemptID, strangerID); !errors.Is(err, util.ErrAttemptForbidden) {
		t.Errorf("stranger err = %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	h := newHarness(t, 10, 1)
	ctx := context.Background()

	res, _ := h.svc.Start(ctx, studentID, "quiz-1")

	h.at(5)
	if n, err := h.svc.SweepExpired(ctx); err != nil || n != 0 {
		t.Fatalf("early sweep = %d, %v", n, err)
	}

	h.at(10)
	if n, err := h.svc.SweepExpired(ctx); err != nil || n != 1 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
	if got := h.store.attempts[res.AttemptID].Status; got != model.AttemptExpired {
		t.Errorf("status = %s", got)
	}
}

func TestSnapshotHidesCorrectness(t *testing.T) {
	h := newHarness(t, 10, 1)
	res, err := h.svc.Start(context.Background(), studentID, "quiz-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, q := range res.Questions {
		for _, c := range q.Choices {
			if c.ID == "" || c.Text == "" {
				t.Errorf("incomplete choice %+v", c)
			}
		}
	}
}
