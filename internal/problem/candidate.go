package problem

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Candidate is one structurally valid reply from the completion service.
type Candidate struct {
	ProblemText string
	FinalAnswer float64
	Hint        string
	Steps       []string
}

const (
	minProblemLen = 10
	minHintLen    = 5
	maxSteps      = 10
)

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
	stepSplitRe  = regexp.MustCompile(`\s*\n+\s*`)
)

// Unfence strips an optional Markdown code-fence wrapping from s.
func Unfence(s string) string {
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseCandidate decodes and validates a raw completion reply against the
// problem schema. Field constraints: problem_text is a string of at least 10
// characters, final_answer must coerce to a finite number, hint is optional
// with at least 5 characters, steps is an optional list of 1-10 strings where
// a single newline-delimited string is accepted and split.
func ParseCandidate(raw string) (*Candidate, error) {
	raw = Unfence(strings.TrimSpace(raw))

	var payload struct {
		ProblemText string          `json:"problem_text"`
		FinalAnswer json.RawMessage `json:"final_answer"`
		Hint        *string         `json:"hint"`
		Steps       json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	if len(payload.ProblemText) < minProblemLen {
		return nil, fmt.Errorf("problem_text must be at least %d characters", minProblemLen)
	}

	answer, err := coerceNumber(payload.FinalAnswer)
	if err != nil {
		return nil, fmt.Errorf("final_answer: %w", err)
	}

	c := &Candidate{
		ProblemText: payload.ProblemText,
		FinalAnswer: answer,
	}

	if payload.Hint != nil {
		if len(*payload.Hint) < minHintLen {
			return nil, fmt.Errorf("hint must be at least %d characters", minHintLen)
		}
		c.Hint = *payload.Hint
	}

	if len(payload.Steps) > 0 && string(payload.Steps) != "null" {
		steps, err := coerceSteps(payload.Steps)
		if err != nil {
			return nil, fmt.Errorf("steps: %w", err)
		}
		c.Steps = steps
	}

	return c, nil
}

// coerceNumber accepts a JSON number or a numeric string.
func coerceNumber(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("not coercible to a number: %q", s)
		}
		return n, nil
	}
	return 0, fmt.Errorf("not a number: %s", string(raw))
}

// coerceSteps accepts a JSON string array or a newline-delimited string.
func coerceSteps(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("not a string list: %s", string(raw))
		}
		for _, part := range stepSplitRe.Split(strings.TrimSpace(s), -1) {
			if part != "" {
				list = append(list, part)
			}
		}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("must contain at least one step")
	}
	if len(list) > maxSteps {
		return nil, fmt.Errorf("must contain at most %d steps", maxSteps)
	}
	return list, nil
}
