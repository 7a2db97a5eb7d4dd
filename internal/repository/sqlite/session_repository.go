package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mathbuddy/mathbuddy/internal/logger"
	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// latestCorrectExpr resolves a session's latest submission to its correctness.
// Submissions tied on created_at are broken by id; either pick is acceptable.
const latestCorrectExpr = `(SELECT sub.is_correct FROM submissions sub
WHERE sub.session_id = s.id
ORDER BY sub.created_at DESC, sub.id DESC
LIMIT 1) AS latest_correct`

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, difficulty=%s", s.ID, s.Difficulty)

	var steps sql.NullString
	if len(s.SolutionSteps) > 0 {
		b, err := json.Marshal(s.SolutionSteps)
		if err != nil {
			return err
		}
		steps = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, problem_text, correct_answer, difficulty, op_type, topic, hint, solution_steps)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.ProblemText, s.CorrectAnswer, string(s.Difficulty),
		nullString(string(s.OpType)), nullString(string(s.Topic)), nullString(s.Hint), steps)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return err
	}
	log.Debug("session inserted: id=%s", s.ID)
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", id)

	var (
		s      models.Session
		opType sql.NullString
		topic  sql.NullString
		hint   sql.NullString
		steps  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, created_at, problem_text, correct_answer, difficulty, op_type, topic, hint, solution_steps
FROM sessions
WHERE id = ?
`, id).Scan(&s.ID, &s.CreatedAt, &s.ProblemText, &s.CorrectAnswer, &s.Difficulty, &opType, &topic, &hint, &steps)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}

	if opType.Valid {
		s.OpType = models.OpType(opType.String)
	}
	if topic.Valid {
		s.Topic = models.Topic(topic.String)
	}
	if hint.Valid {
		s.Hint = hint.String
	}
	if steps.Valid {
		// Tolerate malformed stored steps rather than failing the read.
		if err := json.Unmarshal([]byte(steps.String), &s.SolutionSteps); err != nil {
			log.Warn("failed to decode solution steps for session %s: %v", s.ID, err)
			s.SolutionSteps = nil
		}
	}
	log.Debug("session found: difficulty=%s", s.Difficulty)
	return &s, nil
}

func (r *sessionRepository) RecentProblemTexts(ctx context.Context, limit int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("fetching recent problem texts: limit=%d", limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT problem_text
FROM sessions
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		log.Error("failed to query recent problems: %v", err)
		return nil, err
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			log.Error("failed to scan problem text: %v", err)
			return nil, err
		}
		texts = append(texts, t)
	}
	log.Debug("found %d recent problems", len(texts))
	return texts, rows.Err()
}

func (r *sessionRepository) History(ctx context.Context, limit, offset int) ([]models.HistoryItem, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing session history: limit=%d, offset=%d", limit, offset)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := sqlBuilder.Select(
		"s.id", "s.created_at", "s.problem_text", "s.difficulty", "s.op_type", "s.topic",
		latestCorrectExpr,
	).From("sessions s").
		OrderBy("s.created_at DESC, s.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build history query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list history: %v", err)
		return nil, err
	}
	defer rows.Close()

	items := []models.HistoryItem{}
	for rows.Next() {
		var (
			item          models.HistoryItem
			opType        sql.NullString
			topic         sql.NullString
			latestCorrect sql.NullBool
		)
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.ProblemText, &item.Difficulty, &opType, &topic, &latestCorrect); err != nil {
			log.Error("failed to scan history row: %v", err)
			return nil, err
		}
		if opType.Valid {
			op := models.OpType(opType.String)
			item.OpType = &op
		}
		if topic.Valid {
			tp := models.Topic(topic.String)
			item.Topic = &tp
		}
		if latestCorrect.Valid {
			v := latestCorrect.Bool
			item.LatestCorrect = &v
		}
		items = append(items, item)
	}
	log.Debug("found %d history items", len(items))
	return items, rows.Err()
}

func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		log.Error("failed to count sessions: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) ScoreWindow(ctx context.Context, window int) (models.Score, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("computing score window: window=%d", window)

	var score models.Score
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(latest_correct),
       COALESCE(SUM(CASE WHEN latest_correct = 1 THEN 1 ELSE 0 END), 0)
FROM (
    SELECT `+latestCorrectExpr+`
    FROM sessions s
    ORDER BY s.created_at DESC, s.id DESC
    LIMIT ?
)
`, window).Scan(&score.Total, &score.Correct)
	if err != nil {
		log.Error("failed to compute score window: %v", err)
		return models.Score{}, err
	}
	log.Debug("score window: correct=%d, total=%d", score.Correct, score.Total)
	return score, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
