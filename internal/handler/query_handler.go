package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/quokkaworks/go-suburb-recommender/internal/domain"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
	"github.com/quokkaworks/go-suburb-recommender/internal/service"
)

// QueryHandler handles preference-based and natural-language suburb search.
type QueryHandler struct {
	inference *service.InferenceService
	recommend *service.RecommendService
	queryLogs port.QueryLogStore
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(inference *service.InferenceService, recommend *service.RecommendService, queryLogs port.QueryLogStore) *QueryHandler {
	return &QueryHandler{inference: inference, recommend: recommend, queryLogs: queryLogs}
}

// Register sets up recommendation and NL query routes.
func (h *QueryHandler) Register(router fiber.Router) {
	router.Post("/recommendations", h.Recommendations)
	router.Post("/nl-query", h.NLQuery)
	router.Get("/queries", h.ListQueries)
}

// Recommendations ranks suburbs against explicit preference weights.
func (h *QueryHandler) Recommendations(c fiber.Ctx) error {
	var body struct {
		domain.WeightVector
		TopN int `json:"top_n"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	weights := body.WeightVector
	if weights.Sum() == 0 {
		weights = domain.DefaultWeights()
	} else {
		weights = weights.Normalized()
	}

	recs, err := h.recommend.Recommend(c.Context(), weights, body.TopN)
	if err != nil {
		if errors.Is(err, port.ErrNoRegions) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no suburb data found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(recs)
}

// NLQuery turns a free-text suburb description into preference weights and
// reuses the standard recommendation logic.
func (h *QueryHandler) NLQuery(c fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
		TopN  int    `json:"top_n"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query must not be empty"})
	}

	weights, mode := h.inference.Infer(c.Context(), body.Query)
	h.auditQuery(body.Query, mode, weights, c.IP(), c.Get("User-Agent"))

	recs, err := h.recommend.Recommend(c.Context(), weights, body.TopN)
	if err != nil {
		if errors.Is(err, port.ErrNoRegions) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no suburb data found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"interpreted_preferences": weights,
		"mode":                    mode,
		"recommendations":         recs,
	})
}

// ListQueries returns recent natural-language query interpretations.
func (h *QueryHandler) ListQueries(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	logs, err := h.queryLogs.ListQueryLogs(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"queries": logs, "count": len(logs)})
}

// auditQuery records the interpretation asynchronously — all values are
// captured before the goroutine starts, safe after the request returns.
func (h *QueryHandler) auditQuery(query, mode string, weights domain.WeightVector, ip, userAgent string) {
	if h.queryLogs == nil {
		return
	}
	weightsJSON, _ := json.Marshal(weights)
	entry := &domain.QueryLog{
		ID:        uuid.NewString(),
		Query:     query,
		Mode:      mode,
		Weights:   string(weightsJSON),
		IP:        ip,
		UserAgent: userAgent,
	}
	go func() {
		if err := h.queryLogs.WriteQueryLog(context.Background(), entry); err != nil {
			slog.Error("failed to write query log", "error", err)
		}
	}()
}
