package sqlite

import (
	"context"
	"database/sql"

	"github.com/mathbuddy/mathbuddy/internal/logger"
	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/repository"
)

type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository implementation
func NewSubmissionRepository(db *sql.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Insert(ctx context.Context, sub models.Submission) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	log.Debug("inserting submission: session_id=%s, is_correct=%v", sub.SessionID, sub.IsCorrect)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO submissions (session_id, user_answer, is_correct, feedback_text)
VALUES (?, ?, ?, ?)
`, sub.SessionID, sub.UserAnswer, sub.IsCorrect, sub.FeedbackText)
	if err != nil {
		log.Error("failed to insert submission: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get submission id: %v", err)
		return 0, err
	}
	log.Debug("submission inserted: id=%d", id)
	return id, nil
}

func (r *submissionRepository) CountForSession(ctx context.Context, sessionID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		log.Error("failed to count submissions: %v", err)
		return 0, err
	}
	return count, nil
}
