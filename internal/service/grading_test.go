package service

import (
	"classquiz_backend/internal/model"
	"testing"
)

func question(id string, points int, correct ...bool) model.Question {
	q := model.Question{Points: points}
	q.ID = id
	for i, ok := range correct {
		c := model.Choice{IsCorrect: ok, Position: i}
		c.ID = id + "-c" + string(rune('a'+i))
		q.Choices = append(q.Choices, c)
	}
	return q
}

func TestGradeResponse(t *testing.T) {
	single := question("q1", 3, false, true, false)
	none := question("q2", 5, false, false)
	multi := question("q3", 2, true, true)

	tests := []struct {
		name     string
		q        *model.Question
		selected []string
		want     int
	}{
		{"correct", &single, []string{"q1-cb"}, 3},
		{"wrong", &single, []string{"q1-ca"}, 0},
		{"empty", &single, nil, 0},
		{"two selected incl correct", &single, []string{"q1-ca", "q1-cb"}, 0},
		{"duplicate correct", &single, []string{"q1-cb", "q1-cb"}, 0},
		{"unknown id", &single, []string{"nope"}, 0},
		{"no correct choice", &none, []string{"q2-ca"}, 0},
		{"multi correct first wins", &multi, []string{"q3-ca"}, 2},
		{"multi correct second loses", &multi, []string{"q3-cb"}, 0},
		{"missing question", nil, []string{"x"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeResponse(tt.q, tt.selected); got != tt.want {
				t.Errorf("GradeResponse() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGradeResponseZeroPoints(t *testing.T) {
	q := question("q", 0, true, false)
	if got := GradeResponse(&q, []string{"q-ca"}); got != 0 {
		t.Errorf("zero-point question awarded %d", got)
	}
}

func TestGradeAttemptSumsAndSkipsDeletedQuestions(t *testing.T) {
	questions := []model.Question{
		question("q1", 1, true, false),
		question("q2", 4, false, true),
	}
	responses := []model.Response{
		{QuestionID: "q1", SelectedChoiceIDs: []string{"q1-ca"}},
		{QuestionID: "q2", SelectedChoiceIDs: []string{"q2-cb"}},
		{QuestionID: "gone", SelectedChoiceIDs: []string{"x"}},
	}

	total, awarded := GradeAttempt(questions, responses)
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	want := []int{1, 4, 0}
	for i := range want {
		if awarded[i] != want[i] {
			t.Errorf("awarded[%d] = %d, want %d", i, awarded[i], want[i])
		}
	}
}
