package models

import "time"

// Difficulty controls the numeric range and step count of generated problems.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// OpType constrains the arithmetic operation of a generated problem.
type OpType string

const (
	OpAny OpType = "any"
	OpAdd OpType = "add"
	OpSub OpType = "sub"
	OpMul OpType = "mul"
	OpDiv OpType = "div"
)

// Valid reports whether o is a known operation type.
func (o OpType) Valid() bool {
	switch o {
	case OpAny, OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Topic is a curriculum-scoped subject tag.
type Topic string

const (
	TopicAny               Topic = "any"
	TopicFractionsDivision Topic = "fractions-division"
	TopicPercentage        Topic = "percentage"
	TopicRatio             Topic = "ratio"
	TopicRate              Topic = "rate"
	TopicAreaTriangle      Topic = "area-triangle"
	TopicVolumeCubeCuboid  Topic = "volume-cube-cuboid"
	TopicAngles            Topic = "angles"
	TopicTriangles         Topic = "triangles"
	TopicQuadrilaterals    Topic = "quadrilaterals"
)

// Valid reports whether t is a known topic tag.
func (t Topic) Valid() bool {
	switch t {
	case TopicAny, TopicFractionsDivision, TopicPercentage, TopicRatio, TopicRate,
		TopicAreaTriangle, TopicVolumeCubeCuboid, TopicAngles, TopicTriangles,
		TopicQuadrilaterals:
		return true
	}
	return false
}

// Session is one generated problem instance. Rows are insert-only.
type Session struct {
	ID            string
	CreatedAt     time.Time
	ProblemText   string
	CorrectAnswer float64
	Difficulty    Difficulty
	OpType        OpType // empty when the problem was generated unconstrained
	Topic         Topic  // empty when the problem was generated unconstrained
	Hint          string
	SolutionSteps []string
}

// Submission is one graded attempt at answering a session. Rows are insert-only.
type Submission struct {
	ID           int64
	SessionID    string
	UserAnswer   float64
	IsCorrect    bool
	FeedbackText string
	CreatedAt    time.Time
}

// HistoryItem is a session annotated with its latest submission's correctness.
// LatestCorrect is nil when the session was never answered.
type HistoryItem struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	ProblemText   string     `json:"problem_text"`
	Difficulty    Difficulty `json:"difficulty"`
	OpType        *OpType    `json:"opType"`
	Topic         *Topic     `json:"topic"`
	LatestCorrect *bool      `json:"latest_correct"`
}

// Score is a rolling accuracy aggregate over the most recent sessions.
// Total counts sessions with at least one submission; Correct counts those
// whose latest submission was correct.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// HistoryPage is one page of session history plus pagination metadata.
type HistoryPage struct {
	Items     []HistoryItem `json:"items"`
	Score     Score         `json:"score"`
	Page      int           `json:"page"`
	PageSize  int           `json:"pageSize"`
	Total     int           `json:"total"`
	PageCount int           `json:"pageCount"`
	HasMore   bool          `json:"hasMore"`
}
