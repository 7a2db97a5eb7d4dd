package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mathbuddy/mathbuddy/internal/gemini"
	"github.com/mathbuddy/mathbuddy/internal/logger"
	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/problem"
	"github.com/mathbuddy/mathbuddy/internal/repository"

	apperrors "github.com/mathbuddy/mathbuddy/internal/errors"
)

// recentLimit is how many recent problems steer diversity and de-duplication.
const recentLimit = 10

// Fallback feedback when the completion service is unavailable or fails.
const (
	fallbackCorrect = "Great job! That's correct."
	fallbackWrong   = "Good try! Re-check your arithmetic and give it another go."
)

// GenerateRequest carries the validated constraints for one generation call.
type GenerateRequest struct {
	Difficulty models.Difficulty
	OpType     models.OpType
	Topic      models.Topic
}

// GeneratedProblem is the client-facing result of a generation call.
type GeneratedProblem struct {
	SessionID   string            `json:"sessionId"`
	ProblemText string            `json:"problem_text"`
	Difficulty  models.Difficulty `json:"difficulty"`
	OpType      models.OpType     `json:"opType"`
	Topic       models.Topic      `json:"topic"`
	Hint        string            `json:"hint"`
	Steps       []string          `json:"steps"`
}

// SubmitResult is the client-facing result of grading one answer.
type SubmitResult struct {
	IsCorrect  bool              `json:"is_correct"`
	Feedback   string            `json:"feedback"`
	Hint       string            `json:"hint"`
	Steps      []string          `json:"steps"`
	Difficulty models.Difficulty `json:"difficulty"`
	OpType     models.OpType     `json:"opType"`
}

// ProblemService handles problem generation and answer grading
type ProblemService interface {
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedProblem, error)
	Submit(ctx context.Context, sessionID, rawAnswer string) (*SubmitResult, error)
}

type problemService struct {
	sessions    repository.SessionRepository
	submissions repository.SubmissionRepository
	llm         gemini.CompletionClient // nil when no credential is configured
}

// NewProblemService creates a new ProblemService. llm may be nil; generation
// and feedback then fail fast with a configuration error and a fixed fallback
// respectively.
func NewProblemService(sessions repository.SessionRepository, submissions repository.SubmissionRepository, llm gemini.CompletionClient) ProblemService {
	return &problemService{
		sessions:    sessions,
		submissions: submissions,
		llm:         llm,
	}
}

func (s *problemService) Generate(ctx context.Context, req GenerateRequest) (*GeneratedProblem, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating problem: difficulty=%s, op=%s, topic=%s", req.Difficulty, req.OpType, req.Topic)

	// Fail fast before any external call when the credential is missing.
	if s.llm == nil {
		return nil, apperrors.NewConfigError("GOOGLE_API_KEY missing")
	}

	recent, err := s.sessions.RecentProblemTexts(ctx, recentLimit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	seen := problem.NormalizeAll(recent)

	theme := problem.PickTheme(recent)
	prompt := problem.ComposePrompt(req.Difficulty, req.OpType, req.Topic, theme, recent)
	log.Debug("selected theme: %s", theme)

	candidate, err := problem.NewGenerator(s.llm).Generate(ctx, prompt, seen)
	if err != nil {
		var invalid *problem.InvalidOutputError
		switch {
		case errors.As(err, &invalid):
			return nil, apperrors.NewBadUpstreamError(invalid.Raw, invalid.Err)
		case errors.Is(err, problem.ErrNoDiverseProblem):
			return nil, apperrors.NewNoDiversityError()
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	session := models.Session{
		ID:            uuid.NewString(),
		ProblemText:   candidate.ProblemText,
		CorrectAnswer: candidate.FinalAnswer,
		Difficulty:    req.Difficulty,
		Hint:          candidate.Hint,
		SolutionSteps: candidate.Steps,
	}
	// "any" means unconstrained; stored as absent.
	if req.OpType != models.OpAny {
		session.OpType = req.OpType
	}
	if req.Topic != models.TopicAny {
		session.Topic = req.Topic
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	log.Info("problem generated: session_id=%s, difficulty=%s", session.ID, session.Difficulty)
	return &GeneratedProblem{
		SessionID:   session.ID,
		ProblemText: session.ProblemText,
		Difficulty:  req.Difficulty,
		OpType:      req.OpType,
		Topic:       req.Topic,
		Hint:        session.Hint,
		Steps:       stepsOrEmpty(session.SolutionSteps),
	}, nil
}

func (s *problemService) Submit(ctx context.Context, sessionID, rawAnswer string) (*SubmitResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("grading submission: session_id=%s", sessionID)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("session", sessionID)
	}

	userAnswer, err := problem.ParseAnswer(rawAnswer)
	if err != nil {
		log.Warn("non-numeric answer rejected: %v", err)
		return nil, apperrors.NewValidationError("userAnswer", "must be a number")
	}

	isCorrect := problem.Grade(userAnswer, session.CorrectAnswer)
	feedback := s.feedbackFor(ctx, session, userAnswer, isCorrect)

	submission := models.Submission{
		SessionID:    session.ID,
		UserAnswer:   userAnswer,
		IsCorrect:    isCorrect,
		FeedbackText: feedback,
	}
	if _, err := s.submissions.Insert(ctx, submission); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	log.Info("submission graded: session_id=%s, is_correct=%v", session.ID, isCorrect)
	return &SubmitResult{
		IsCorrect:  isCorrect,
		Feedback:   feedback,
		Hint:       session.Hint,
		Steps:      stepsOrEmpty(session.SolutionSteps),
		Difficulty: session.Difficulty,
		OpType:     session.OpType,
	}, nil
}

// feedbackFor asks the completion service for feedback, substituting a fixed
// sentence on any failure. A feedback failure never blocks the submission.
func (s *problemService) feedbackFor(ctx context.Context, session *models.Session, userAnswer float64, isCorrect bool) string {
	fallback := fallbackWrong
	if isCorrect {
		fallback = fallbackCorrect
	}
	if s.llm == nil {
		return fallback
	}

	log := logger.FromContext(ctx)
	prompt := problem.ComposeFeedbackPrompt(session.ProblemText, session.CorrectAnswer, userAnswer, isCorrect)
	feedback, err := s.llm.GenerateFeedback(ctx, prompt)
	if err != nil {
		log.Warn("feedback generation failed, using fallback: %v", err)
		return fallback
	}
	if feedback == "" {
		return fallback
	}
	return feedback
}

func stepsOrEmpty(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
