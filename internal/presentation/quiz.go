package presentation

import "github.com/ziadkadry99/edugen/internal/content"

// QuestionResult is the outcome of one quiz question.
type QuestionResult struct {
	ID       int               `json:"id"`
	Selected content.OptionKey `json:"selected,omitempty"`
	Correct  content.OptionKey `json:"correct"`
	Answered bool              `json:"answered"`
	IsRight  bool              `json:"isCorrect"`
}

// Score is the outcome of a submitted quiz.
type Score struct {
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}

// ScoreQuiz grades answers, keyed by question id. Unanswered and
// unrecognised answers count as wrong.
func ScoreQuiz(quiz []content.QuizQuestion, answers map[int]content.OptionKey) Score {
	s := Score{Total: len(quiz), Results: make([]QuestionResult, 0, len(quiz))}
	for _, q := range quiz {
		r := QuestionResult{ID: q.ID, Correct: q.CorrectAnswer}
		if sel, ok := answers[q.ID]; ok && sel.Valid() {
			r.Selected = sel
			r.Answered = true
			r.IsRight = sel == q.CorrectAnswer
		}
		if r.IsRight {
			s.Correct++
		}
		s.Results = append(s.Results, r)
	}
	return s
}
