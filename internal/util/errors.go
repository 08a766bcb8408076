package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 业务错误分类，控制器据此映射 HTTP 状态码
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindForbidden
	KindInvalidState
	KindValidation
	KindConflict
	KindUnauthorized
)

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState, KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound       = &AppError{KindNotFound, "User not found"}
	ErrEmailRegistered    = &AppError{KindConflict, "Email already registered"}
	ErrInvalidCredentials = &AppError{KindUnauthorized, "Invalid email or password"}

	ErrCourseNotFound  = &AppError{KindNotFound, "Course not found"}
	ErrNotCourseOwner  = &AppError{KindForbidden, "Not course owner"}
	ErrInvalidJoinCode = &AppError{KindValidation, "Invalid join code"}
	ErrNotEnrolled     = &AppError{KindForbidden, "Not enrolled in course"}

	ErrQuizNotFound     = &AppError{KindNotFound, "Quiz not found"}
	ErrQuizNotPublished = &AppError{KindInvalidState, "Quiz not published"}
	ErrQuizNotOpen      = &AppError{KindInvalidState, "Quiz not yet open"}
	ErrQuizClosed       = &AppError{KindInvalidState, "Quiz has closed"}

	ErrAttemptNotFound         = &AppError{KindNotFound, "Attempt not found"}
	ErrAttemptForbidden        = &AppError{KindForbidden, "Not your attempt"}
	ErrAttemptExpired          = &AppError{KindInvalidState, "Attempt expired"}
	ErrAttemptAlreadySubmitted = &AppError{KindInvalidState, "Attempt already submitted"}
	ErrResponseNotFound        = &AppError{KindNotFound, "Response not found"}

	// ErrActiveAttemptConflict 存储层唯一索引冲突，说明并发请求已创建了进行中的作答
	ErrActiveAttemptConflict = errors.New("active attempt already exists")
)

// AttemptsExhaustedError 作答次数用尽，携带已用与允许次数
type AttemptsExhaustedError struct {
	Taken   int
	Allowed int
}

func (e *AttemptsExhaustedError) Error() string {
	return fmt.Sprintf("Attempts exhausted (%d/%d used)", e.Taken, e.Allowed)
}

// KindOf 返回错误分类，非业务错误返回 false
func KindOf(err error) (ErrorKind, bool) {
	var exhausted *AttemptsExhaustedError
	if errors.As(err, &exhausted) {
		return KindInvalidState, true
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}
