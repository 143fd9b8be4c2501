package domain

import "regexp"

// EscalationScore is the heuristic threshold at which a ready brief is
// escalated straight to owner approval instead of parking at BRIEF_READY.
const EscalationScore = 70

var (
	commercialPattern = regexp.MustCompile(`(?i)(presupuesto|precio|contratar|empezar|necesito\s+web)`)
	urgencyPattern    = regexp.MustCompile(`(?i)(esta\s+semana|urgente|ya|cuanto\s+antes)`)
)

// Score computes the heuristic lead score after a user message. Signals are
// added on top of the score the conversation already carries, so interest
// accumulates across turns. The result is clamped to [0, 100].
func Score(current int, message string, intent bool, brief Brief) int {
	score := current
	if intent {
		score += 40
	}
	if commercialPattern.MatchString(message) {
		score += 25
	}
	if urgencyPattern.MatchString(message) {
		score += 10
	}
	if brief.Ready() {
		score += 20
	}
	return Clamp(score)
}

// ReconcileScore combines the local heuristic with the model-reported score,
// trusting whichever is higher. The model may spot intent the regexes miss,
// but it is never allowed to lower a locally-earned score.
func ReconcileScore(heuristic, model int) int {
	if model > heuristic {
		return Clamp(model)
	}
	return Clamp(heuristic)
}

// Clamp bounds a score to the [0, 100] range.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
