package problem_test

import (
	"strings"
	"testing"

	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/problem"
	"github.com/stretchr/testify/assert"
)

func TestExtractBannedWords(t *testing.T) {
	texts := []string{
		"Sam bought 12 apples from the fruit stall.",
		"The stall sold apples and pears to Sam.",
	}
	words := problem.ExtractBannedWords(texts, 40)

	assert.Contains(t, words, "apples")
	assert.Contains(t, words, "fruit")
	assert.Contains(t, words, "stall")
	// Short tokens and duplicates are excluded.
	assert.NotContains(t, words, "sam")
	assert.NotContains(t, words, "the")
	assert.Equal(t, len(words), len(uniqueStrings(words)))
}

func TestExtractBannedWords_Limit(t *testing.T) {
	texts := []string{strings.Repeat("alpha bravo charlie delta echoes foxtrot golfing hotels ", 20)}
	words := problem.ExtractBannedWords(texts, 5)
	assert.Len(t, words, 5)
}

func TestComposePrompt_EmbedsConstraints(t *testing.T) {
	prompt := problem.ComposePrompt(models.DifficultyHard, models.OpMul, models.TopicRatio, "zoo animals", []string{"Sam counted 14 giraffes at the zoo."})

	assert.Contains(t, prompt, "Return ONLY JSON")
	assert.Contains(t, prompt, "Difficulty: HARD")
	assert.Contains(t, prompt, "Theme: zoo animals.")
	assert.Contains(t, prompt, "Operation must be multiplication.")
	assert.Contains(t, prompt, "numbers <= 1000")
	assert.Contains(t, prompt, "Ratio:")
	assert.NotContains(t, prompt, "Percentage:")
	assert.Contains(t, prompt, "giraffes")
}

func TestComposePrompt_AnyTopicConcatenatesScopes(t *testing.T) {
	prompt := problem.ComposePrompt(models.DifficultyEasy, models.OpAny, models.TopicAny, "pets", nil)

	assert.Contains(t, prompt, "Pick one topic from:")
	assert.Contains(t, prompt, "Percentage:")
	assert.Contains(t, prompt, "Ratio:")
	assert.Contains(t, prompt, "Volume of cube and cuboid:")
	assert.Contains(t, prompt, "(none)")
	assert.Contains(t, prompt, "Use exactly one of: addition, subtraction, multiplication, or division.")
}

func uniqueStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
