package domain

import "regexp"

// Buying intent is a substring match over the raw user message, case
// insensitive. Kept deliberately loose: a false positive only means the
// owner gets pinged a little early.
var intentPattern = regexp.MustCompile(`(?i)(presupuesto|contratar|empezar|quiero\s+ya|precio\s+exacto|adelante)`)

// DetectIntent reports whether the message expresses explicit buying intent.
func DetectIntent(message string) bool {
	return intentPattern.MatchString(message)
}
