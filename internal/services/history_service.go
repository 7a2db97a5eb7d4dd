package services

import (
	"context"

	"github.com/mathbuddy/mathbuddy/internal/logger"
	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/repository"

	apperrors "github.com/mathbuddy/mathbuddy/internal/errors"
)

// ScoreWindowSize fixes how many of the most recent sessions feed the rolling
// accuracy score, independent of the requested page.
const ScoreWindowSize = 100

// Page size bounds for history requests.
const (
	DefaultPageSize = 10
	MinPageSize     = 5
	MaxPageSize     = 50
)

// HistoryService serves paginated session history with a rolling score
type HistoryService interface {
	History(ctx context.Context, page, pageSize int) (*models.HistoryPage, error)
}

type historyService struct {
	sessions repository.SessionRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(sessions repository.SessionRepository) HistoryService {
	return &historyService{sessions: sessions}
}

func (s *historyService) History(ctx context.Context, page, pageSize int) (*models.HistoryPage, error) {
	log := logger.FromContext(ctx)

	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	log.Debug("loading history: page=%d, page_size=%d", page, pageSize)

	items, err := s.sessions.History(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	total, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	score, err := s.sessions.ScoreWindow(ctx, ScoreWindowSize)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	return &models.HistoryPage{
		Items:     items,
		Score:     score,
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		PageCount: pageCount,
		HasMore:   page < pageCount,
	}, nil
}
