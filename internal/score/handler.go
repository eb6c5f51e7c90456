package score

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/roberta/studio/internal/response"
)

// Handler serves the scoring endpoint.
type Handler struct {
	threshold float64
	log       *zap.Logger
}

// NewHandler creates a scoring Handler using threshold for pass/review.
func NewHandler(threshold float64, log *zap.Logger) *Handler {
	return &Handler{threshold: threshold, log: log}
}

type scoreRequest struct {
	Metrics map[string]any `json:"metrics" swaggertype:"object,number"`
}

// Score godoc
//
//	@Summary		Compute score
//	@Description	Average normalized metrics (each between 0 and 1) and compare against the configured threshold.
//	@Tags			score
//	@Accept			json
//	@Produce		json
//	@Param			request	body		scoreRequest	true	"Metric values"
//	@Success		200		{object}	response.Envelope{data=Result}
//	@Failure		400		{object}	response.Envelope
//	@Router			/score [post]
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	metrics, problems := Validate(req.Metrics)
	if len(problems) > 0 {
		h.log.Warn("score validation failed", zap.Strings("errors", problems))
		response.BadRequest(w, strings.Join(problems, " "))
		return
	}

	res, err := Compute(metrics, h.threshold)
	if err != nil {
		h.log.Error("failed to compute score", zap.Error(err))
		response.BadRequest(w, err.Error())
		return
	}

	h.log.Info("score computed", zap.Float64("score", res.Score), zap.String("status", res.Status))
	response.OK(w, res)
}
