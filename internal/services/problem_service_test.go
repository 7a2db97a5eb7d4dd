package services_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/mathbuddy/mathbuddy/internal/errors"
	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/repository"
	"github.com/mathbuddy/mathbuddy/internal/repository/sqlite"
	"github.com/mathbuddy/mathbuddy/internal/services"
	"github.com/mathbuddy/mathbuddy/internal/testutil"
	"github.com/stretchr/testify/suite"
)

// fakeCompletionClient scripts completion replies for tests.
type fakeCompletionClient struct {
	problemReplies []string
	problemErr     error
	problemCalls   int

	feedbackReply string
	feedbackErr   error
	feedbackCalls int
}

func (f *fakeCompletionClient) GenerateProblem(_ context.Context, _ string) (string, error) {
	f.problemCalls++
	if f.problemErr != nil {
		return "", f.problemErr
	}
	i := f.problemCalls - 1
	if i >= len(f.problemReplies) {
		i = len(f.problemReplies) - 1
	}
	return f.problemReplies[i], nil
}

func (f *fakeCompletionClient) GenerateFeedback(_ context.Context, _ string) (string, error) {
	f.feedbackCalls++
	return f.feedbackReply, f.feedbackErr
}

func (f *fakeCompletionClient) ListModels(_ context.Context) ([]string, error) {
	return []string{"gemini-flash-latest"}, nil
}

func problemJSON(text string, answer float64) string {
	return fmt.Sprintf(`{"problem_text": %q, "final_answer": %g, "hint": "Work it out step by step.", "steps": ["step one", "step two"]}`, text, answer)
}

type ProblemServiceSuite struct {
	suite.Suite
	db          *sql.DB
	sessions    repository.SessionRepository
	submissions repository.SubmissionRepository
	llm         *fakeCompletionClient
	svc         services.ProblemService
}

func (s *ProblemServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.sessions = sqlite.NewSessionRepository(s.db)
	s.submissions = sqlite.NewSubmissionRepository(s.db)
	s.llm = &fakeCompletionClient{
		problemReplies: []string{problemJSON("Lina shares 24 oranges equally among 6 friends. How many does each get?", 4)},
		feedbackReply:  "Nice work, your division was spot on!",
	}
	s.svc = services.NewProblemService(s.sessions, s.submissions, s.llm)
}

func (s *ProblemServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProblemServiceSuite) generate(req services.GenerateRequest) *services.GeneratedProblem {
	got, err := s.svc.Generate(context.Background(), req)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	return got
}

func (s *ProblemServiceSuite) TestGenerate_PersistsSession() {
	got := s.generate(services.GenerateRequest{
		Difficulty: models.DifficultyMedium,
		OpType:     models.OpDiv,
		Topic:      models.TopicFractionsDivision,
	})

	s.Assert().NotEmpty(got.SessionID)
	s.Assert().Contains(got.ProblemText, "oranges")
	s.Assert().Equal(models.DifficultyMedium, got.Difficulty)
	s.Assert().Equal(models.OpDiv, got.OpType)
	s.Assert().Len(got.Steps, 2)

	stored, err := s.sessions.Get(context.Background(), got.SessionID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Equal(4.0, stored.CorrectAnswer)
	s.Assert().Equal(models.OpDiv, stored.OpType)
	s.Assert().Equal(models.TopicFractionsDivision, stored.Topic)
}

func (s *ProblemServiceSuite) TestGenerate_AnyStoredAsAbsent() {
	got := s.generate(services.GenerateRequest{
		Difficulty: models.DifficultyEasy,
		OpType:     models.OpAny,
		Topic:      models.TopicAny,
	})

	stored, err := s.sessions.Get(context.Background(), got.SessionID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Empty(stored.OpType)
	s.Assert().Empty(stored.Topic)
}

func (s *ProblemServiceSuite) TestGenerate_NoCredential() {
	svc := services.NewProblemService(s.sessions, s.submissions, nil)
	_, err := svc.Generate(context.Background(), services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeConfig, appErr.Code)
	s.Assert().Equal(500, appErr.Status)
	s.Assert().Zero(s.llm.problemCalls, "no upstream call without a credential")
}

func (s *ProblemServiceSuite) TestGenerate_MalformedThenValid() {
	s.llm.problemReplies = []string{
		"not json at all",
		problemJSON("A tank holds 250 litres. A pump drains 25 litres per minute. How long to empty it?", 10),
	}

	got := s.generate(services.GenerateRequest{Difficulty: models.DifficultyHard, OpType: models.OpAny, Topic: models.TopicAny})
	s.Assert().Contains(got.ProblemText, "tank")
	s.Assert().Equal(2, s.llm.problemCalls)
}

func (s *ProblemServiceSuite) TestGenerate_AllMalformed() {
	s.llm.problemReplies = []string{"{broken"}

	_, err := s.svc.Generate(context.Background(), services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeBadUpstream, appErr.Code)
	s.Assert().Equal(502, appErr.Status)
	s.Assert().Contains(appErr.Message, "{broken")
	s.Assert().Equal(3, s.llm.problemCalls)
}

func (s *ProblemServiceSuite) TestGenerate_DuplicatesExhaustDiversity() {
	// Seed a session, then script the completion service to keep returning the
	// same text with different numbers. Normalization treats those as equal.
	first := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})
	s.Require().NotEmpty(first.SessionID)

	s.llm.problemCalls = 0
	s.llm.problemReplies = []string{
		problemJSON("Lina shares 36 oranges equally among 9 friends. How many does each get?", 4),
	}

	_, err := s.svc.Generate(context.Background(), services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeNoDiversity, appErr.Code)
	s.Assert().Equal(502, appErr.Status)
	s.Assert().Equal(3, s.llm.problemCalls)
}

func (s *ProblemServiceSuite) TestSubmit_CorrectAnswer() {
	gen := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpDiv, Topic: models.TopicAny})

	res, err := s.svc.Submit(context.Background(), gen.SessionID, "4")
	s.Require().NoError(err)
	s.Assert().True(res.IsCorrect)
	s.Assert().Equal("Nice work, your division was spot on!", res.Feedback)
	s.Assert().Equal(models.DifficultyMedium, res.Difficulty)
	s.Assert().Equal(models.OpDiv, res.OpType)
	s.Assert().NotEmpty(res.Hint)
	s.Assert().Len(res.Steps, 2)

	count, err := s.submissions.CountForSession(context.Background(), gen.SessionID)
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
}

func (s *ProblemServiceSuite) TestSubmit_WrongAnswer() {
	gen := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	res, err := s.svc.Submit(context.Background(), gen.SessionID, "5")
	s.Require().NoError(err)
	s.Assert().False(res.IsCorrect)
}

func (s *ProblemServiceSuite) TestSubmit_ToleranceAndCommas() {
	gen := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	res, err := s.svc.Submit(context.Background(), gen.SessionID, "4.0000000000001")
	s.Require().NoError(err)
	s.Assert().True(res.IsCorrect, "answers within tolerance are correct")

	res, err = s.svc.Submit(context.Background(), gen.SessionID, "4,000")
	s.Require().NoError(err)
	s.Assert().False(res.IsCorrect, "commas are thousands separators, 4,000 means 4000")
}

func (s *ProblemServiceSuite) TestSubmit_NonNumericAnswerRejected() {
	gen := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	_, err := s.svc.Submit(context.Background(), gen.SessionID, "four")

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeValidation, appErr.Code)
	s.Assert().Equal(400, appErr.Status)

	count, err := s.submissions.CountForSession(context.Background(), gen.SessionID)
	s.Require().NoError(err)
	s.Assert().Zero(count, "rejected answers are not recorded")
}

func (s *ProblemServiceSuite) TestSubmit_UnknownSession() {
	_, err := s.svc.Submit(context.Background(), "no-such-session", "4")

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
	s.Assert().Equal(404, appErr.Status)
}

func (s *ProblemServiceSuite) TestSubmit_FeedbackFallbackOnError() {
	gen := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})
	s.llm.feedbackErr = errors.New("upstream timeout")

	res, err := s.svc.Submit(context.Background(), gen.SessionID, "4")
	s.Require().NoError(err, "a feedback failure never blocks the submission")
	s.Assert().True(res.IsCorrect)
	s.Assert().Equal("Great job! That's correct.", res.Feedback)

	s.llm.feedbackErr = nil
	s.llm.feedbackReply = ""
	res, err = s.svc.Submit(context.Background(), gen.SessionID, "5")
	s.Require().NoError(err)
	s.Assert().Equal("Good try! Re-check your arithmetic and give it another go.", res.Feedback)
}

func (s *ProblemServiceSuite) TestSubmit_FeedbackFallbackWithoutCredential() {
	gen := s.generate(services.GenerateRequest{Difficulty: models.DifficultyMedium, OpType: models.OpAny, Topic: models.TopicAny})

	svc := services.NewProblemService(s.sessions, s.submissions, nil)
	res, err := svc.Submit(context.Background(), gen.SessionID, "4")
	s.Require().NoError(err)
	s.Assert().Equal("Great job! That's correct.", res.Feedback)
}

func TestProblemServiceSuite(t *testing.T) {
	suite.Run(t, new(ProblemServiceSuite))
}
