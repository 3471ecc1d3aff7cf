package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marketmind/backend/internal/domain"
	"github.com/marketmind/backend/internal/usecase"
)

// PriceEstimator prices positional (name, category, rating, rating_count) inputs
type PriceEstimator interface {
	EstimateArgs(ctx context.Context, args []string) (domain.PredictionResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	estimator PriceEstimator
	version   string
}

// NewHandler creates a new HTTP handler
func NewHandler(estimator PriceEstimator, version string) *Handler {
	return &Handler{estimator: estimator, version: version}
}

// flexString accepts a JSON string or number and keeps its text form, so
// {"rating": 4.5} and {"rating": "4.5"} are treated the same.
type flexString struct {
	value string
	set   bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexString{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString{value: s, set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString{value: n.String(), set: true}
	return nil
}

// PredictRequest is the body of POST /api/predict
type PredictRequest struct {
	Name        flexString `json:"name"`
	Category    flexString `json:"category"`
	Rating      flexString `json:"rating"`
	RatingCount flexString `json:"rating_count"`
}

// args returns the positional inputs up to the first missing field
func (r PredictRequest) args() []string {
	var args []string
	for _, f := range []flexString{r.Name, r.Category, r.Rating, r.RatingCount} {
		if !f.set {
			break
		}
		args = append(args, f.value)
	}
	return args
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "marketmind-backend",
		"version": h.version,
	})
}

// Predict runs one full estimation for the request body
func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResult("invalid request body: "+err.Error()))
		return
	}

	result, err := h.estimator.EstimateArgs(c.Request.Context(), req.args())
	if err != nil {
		slog.Error("prediction failed", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, usecase.RenderError(err))
		return
	}

	if result.Diagnostics != nil {
		result.Diagnostics.RequestID = c.GetString(requestIDKey)
	}
	c.JSON(http.StatusOK, result)
}
