package api

import (
	"encoding/json"
	"net/http"

	"github.com/mathbuddy/mathbuddy/internal/errors"
	"github.com/mathbuddy/mathbuddy/internal/logger"
	"github.com/mathbuddy/mathbuddy/internal/models"
	"github.com/mathbuddy/mathbuddy/internal/services"
)

type generateProblemRequest struct {
	Difficulty string `json:"difficulty"`
	OpType     string `json:"opType"`
	Topic      string `json:"topic"`
}

func (s *Server) handleGenerateProblem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body generateProblemRequest
	if err := decodeJSON(r, &body); err != nil {
		log.Warn("malformed generate request: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	req := services.GenerateRequest{
		Difficulty: models.DifficultyMedium,
		OpType:     models.OpAny,
		Topic:      models.TopicAny,
	}
	if body.Difficulty != "" {
		req.Difficulty = models.Difficulty(body.Difficulty)
		if !req.Difficulty.Valid() {
			handleError(w, r, errors.NewValidationError("difficulty", "must be one of easy, medium, hard"))
			return
		}
	}
	if body.OpType != "" {
		req.OpType = models.OpType(body.OpType)
		if !req.OpType.Valid() {
			handleError(w, r, errors.NewValidationError("opType", "must be one of any, add, sub, mul, div"))
			return
		}
	}
	if body.Topic != "" {
		req.Topic = models.Topic(body.Topic)
		if !req.Topic.Valid() {
			handleError(w, r, errors.NewValidationError("topic", "unknown topic"))
			return
		}
	}

	result, err := s.ProblemService.Generate(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

type submitAnswerRequest struct {
	SessionID  string `json:"sessionId"`
	UserAnswer any    `json:"userAnswer"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body submitAnswerRequest
	if err := decodeJSON(r, &body); err != nil {
		log.Warn("malformed submit request: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if body.SessionID == "" {
		handleError(w, r, errors.NewValidationError("sessionId", "required"))
		return
	}

	// userAnswer may arrive as a JSON number or a string.
	var rawAnswer string
	switch v := body.UserAnswer.(type) {
	case string:
		rawAnswer = v
	case json.Number:
		rawAnswer = v.String()
	default:
		handleError(w, r, errors.NewValidationError("userAnswer", "must be a number"))
		return
	}

	result, err := s.ProblemService.Submit(r.Context(), body.SessionID, rawAnswer)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
