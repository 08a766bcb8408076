package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", ErrQuizNotFound, http.StatusNotFound, "Quiz not found"},
		{"forbidden", ErrNotEnrolled, http.StatusForbidden, "Not enrolled in course"},
		{"invalid state", ErrAttemptExpired, http.StatusBadRequest, "Attempt expired"},
		{"validation", NewValidationError("bad %s", "input"), http.StatusBadRequest, "bad input"},
		{"conflict", ErrEmailRegistered, http.StatusConflict, "Email already registered"},
		{"unauthorized", ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"wrapped", fmt.Errorf("start: %w", ErrQuizClosed), http.StatusBadRequest, "Quiz has closed"},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMsg)
			}
		})
	}
}

func TestRespondErrorExhaustedCarriesCounts(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	RespondError(c, &AttemptsExhaustedError{Taken: 2, Allowed: 2})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Taken   int `json:"taken"`
			Allowed int `json:"allowed"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Taken != 2 || resp.Data.Allowed != 2 {
		t.Errorf("data = %+v", resp.Data)
	}
	if resp.Message != "Attempts exhausted (2/2 used)" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestKindOf(t *testing.T) {
	if k, ok := KindOf(&AttemptsExhaustedError{Taken: 1, Allowed: 1}); !ok || k != KindInvalidState {
		t.Errorf("exhausted kind = %v, %v", k, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("plain error should not have a kind")
	}
}
