package service

import "classquiz_backend/internal/model"

// GradeResponse 单选题判分：恰好选择一个且等于正确选项时得满分，否则 0 分。
// 没有正确选项的题目恒为 0 分；多个正确选项时以选项顺序中的第一个为准。
func GradeResponse(q *model.Question, selected []string) int {
	if q == nil || len(selected) != 1 {
		return 0
	}
	correct := q.CorrectChoiceID()
	if correct == "" || selected[0] != correct {
		return 0
	}
	return q.Points
}

// GradeAttempt 为每条作答计算得分并返回总分，题目已被删除的作答计 0 分
func GradeAttempt(questions []model.Question, responses []model.Response) (int, []int) {
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	total := 0
	awarded := make([]int, len(responses))
	for i, resp := range responses {
		points := GradeResponse(byID[resp.QuestionID], resp.SelectedChoiceIDs)
		awarded[i] = points
		total += points
	}
	return total, awarded
}
