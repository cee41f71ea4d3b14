package passquiz

// PassPercentage is the score at or above which a quiz counts as passed
const PassPercentage = 75

// CalculateScore compares answers with the answer key of every question.
// Questions without an answer count as incorrect, so Total is always len(questions).
func CalculateScore(questions []Question, answers map[int]int) Score {
	correct := 0
	for _, q := range questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectIndex {
			correct++
		}
	}

	return Score{
		Correct:    correct,
		Total:      len(questions),
		Percentage: Percentage(correct, len(questions)),
	}
}

// Percentage returns correct/total*100 rounded half up, using integer math
// so that x.5 always rounds away from zero. A zero total yields 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// Passed reports whether a percentage reaches PassPercentage
func Passed(percentage int) bool {
	return percentage >= PassPercentage
}
