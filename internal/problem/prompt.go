package problem

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mathbuddy/mathbuddy/internal/models"
)

// RetryNudge is appended to the prompt from the second attempt onward.
const RetryNudge = "\nRegenerate with a DIFFERENT scenario than before; do NOT reuse entities or phrasing.\n"

// bannedWordLimit keeps the prompt compact.
const bannedWordLimit = 40

var bannedWordRe = regexp.MustCompile(`\b[a-z]{4,}\b`)

var opTexts = map[models.OpType]string{
	models.OpAny: "Use exactly one of: addition, subtraction, multiplication, or division.",
	models.OpAdd: "Operation must be addition.",
	models.OpSub: "Operation must be subtraction.",
	models.OpMul: "Operation must be multiplication.",
	models.OpDiv: "Operation must be division.",
}

var difficultyRules = map[models.Difficulty]string{
	models.DifficultyEasy:   "- Single-step, numbers <= 100, integer answer.",
	models.DifficultyMedium: "- Two steps, numbers <= 500, integer answer.",
	models.DifficultyHard:   "- 2-3 steps mixing operations, numbers <= 1000, integer answer.",
}

// Topic scope rules from the Primary 5 syllabus. When the topic is
// unconstrained the whole table is offered and the model picks one.
var topicRules = map[models.Topic]string{
	models.TopicFractionsDivision: "Fractions (division): divide a proper fraction by a whole number, or a whole number by a proper fraction.",
	models.TopicPercentage:        "Percentage: find a percentage part of a whole, discounts, and simple interest style amounts.",
	models.TopicRatio:             "Ratio: compare two or three quantities, equivalent ratios, find a quantity from its ratio share.",
	models.TopicRate:              "Rate: amount per unit, such as price per item, distance per hour, or work done per day.",
	models.TopicAreaTriangle:      "Area of triangle: identify base and height, area equals half of base times height.",
	models.TopicVolumeCubeCuboid:  "Volume of cube and cuboid: volume equals length times width times height, counting unit cubes.",
	models.TopicAngles:            "Angles: angles on a straight line, angles at a point, vertically opposite angles.",
	models.TopicTriangles:         "Triangles: angle sum of a triangle, properties of isosceles and equilateral triangles.",
	models.TopicQuadrilaterals:    "Parallelogram, rhombus and trapezium: find unknown angles using their properties.",
}

// topicOrder fixes the concatenation order for the unconstrained case.
var topicOrder = []models.Topic{
	models.TopicFractionsDivision,
	models.TopicPercentage,
	models.TopicRatio,
	models.TopicRate,
	models.TopicAreaTriangle,
	models.TopicVolumeCubeCuboid,
	models.TopicAngles,
	models.TopicTriangles,
	models.TopicQuadrilaterals,
}

// ExtractBannedWords collects up to max distinct lowercase alphabetic tokens of
// length >= 4 from the given texts, in first-seen order.
func ExtractBannedWords(texts []string, max int) []string {
	seen := map[string]bool{}
	var words []string
	for _, t := range texts {
		for _, w := range bannedWordRe.FindAllString(strings.ToLower(t), -1) {
			if seen[w] {
				continue
			}
			seen[w] = true
			words = append(words, w)
			if len(words) >= max {
				return words
			}
		}
	}
	return words
}

// ComposePrompt assembles the generation instruction from the request
// constraints, the selected theme, and the recent problem texts.
func ComposePrompt(difficulty models.Difficulty, opType models.OpType, topic models.Topic, theme string, recentTexts []string) string {
	banned := strings.Join(ExtractBannedWords(recentTexts, bannedWordLimit), ", ")
	if banned == "" {
		banned = "(none)"
	}

	var topicText string
	if topic == models.TopicAny || topic == "" {
		var parts []string
		for _, t := range topicOrder {
			parts = append(parts, topicRules[t])
		}
		topicText = "Pick one topic from: " + strings.Join(parts, " ")
	} else {
		topicText = topicRules[topic]
	}

	var sb strings.Builder
	sb.WriteString("Return ONLY JSON with keys: problem_text (string), final_answer (number), hint (string), steps (string[]).\n")
	fmt.Fprintf(&sb, "Primary 5 Singapore Math. Difficulty: %s.\n", strings.ToUpper(string(difficulty)))
	fmt.Fprintf(&sb, "Theme: %s.\n", theme)
	sb.WriteString(opTexts[opType] + "\n")
	sb.WriteString(difficultyRules[difficulty] + "\n")
	fmt.Fprintf(&sb, "- Topic scope: %s\n", topicText)
	sb.WriteString("- Keep the word problem to <= 2 sentences.\n")
	sb.WriteString("- Use a scenario consistent with the theme.\n")
	fmt.Fprintf(&sb, "- Avoid using these words or an obviously similar scenario: %s.\n", banned)
	sb.WriteString("- final_answer must be numeric only (no units).\n")
	sb.WriteString("- steps should be a short step-by-step solution a student can follow.\n")
	return sb.String()
}

// ComposeFeedbackPrompt builds the best-effort feedback instruction for a
// graded submission.
func ComposeFeedbackPrompt(problemText string, correctAnswer, userAnswer float64, isCorrect bool) string {
	verdict := "wrong"
	if isCorrect {
		verdict = "correct"
	}
	return fmt.Sprintf(`Problem: %s
Correct numeric answer: %v
Student answer: %v (%s)
Write friendly feedback in <=3 sentences. If wrong, hint the key step. Return plain text only.`,
		problemText, correctAnswer, userAnswer, verdict)
}
