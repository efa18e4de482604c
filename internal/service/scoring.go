package service

import (
	"math"

	"mcq_platform_backend/internal/model"
)

// PassThreshold is the fixed percentage at or above which an attempt passes.
const PassThreshold = 60

const (
	ClassificationPassed           = "passed"
	ClassificationNeedsImprovement = "needs_improvement"
)

// Score counts the questions whose recorded answer equals the correct label,
// using exact case-sensitive equality. No partial credit, no weighting.
func Score(questions []model.Question, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		if answers[q.ID] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage returns round(score/total*100). A zero total yields 0.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

func Classify(percentage int) string {
	if percentage >= PassThreshold {
		return ClassificationPassed
	}
	return ClassificationNeedsImprovement
}
