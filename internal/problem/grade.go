package problem

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AnswerTolerance absorbs floating-point representation noise when comparing
// a parsed user answer to the stored correct answer. It does not grant
// partial credit.
const AnswerTolerance = 1e-9

// ParseAnswer parses a free-form numeric answer. Comma grouping separators
// and surrounding whitespace are stripped before parsing. A value that does
// not parse as a finite number is a validation error, not a grading outcome.
func ParseAnswer(raw string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("empty answer")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	// ParseFloat accepts "NaN" and "Inf" spellings.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

// Grade reports whether userAnswer matches correctAnswer within tolerance.
func Grade(userAnswer, correctAnswer float64) bool {
	return math.Abs(userAnswer-correctAnswer) < AnswerTolerance
}
