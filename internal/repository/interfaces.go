package repository

import (
	"context"

	"github.com/mathbuddy/mathbuddy/internal/models"
)

// SessionRepository handles generated-problem session data access
type SessionRepository interface {
	Insert(ctx context.Context, session models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	RecentProblemTexts(ctx context.Context, limit int) ([]string, error)
	History(ctx context.Context, limit, offset int) ([]models.HistoryItem, error)
	Count(ctx context.Context) (int, error)
	ScoreWindow(ctx context.Context, window int) (models.Score, error)
}

// SubmissionRepository handles graded-attempt data access
type SubmissionRepository interface {
	Insert(ctx context.Context, submission models.Submission) (int64, error)
	CountForSession(ctx context.Context, sessionID string) (int, error)
}
