package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/quokkaworks/go-suburb-recommender/internal/port"
	"github.com/quokkaworks/go-suburb-recommender/internal/service"
)

// ScoreHandler handles well-resourced score endpoints.
type ScoreHandler struct {
	scoring *service.ScoringService
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(scoring *service.ScoringService) *ScoreHandler {
	return &ScoreHandler{scoring: scoring}
}

// Register sets up score routes.
func (h *ScoreHandler) Register(router fiber.Router) {
	scores := router.Group("/scores")
	scores.Post("/rebuild", h.Rebuild)
	scores.Get("/", h.Top)
	scores.Get("/correlation/income", h.IncomeCorrelation)
	scores.Get("/:code", h.Breakdown)
}

// Rebuild runs a full scoring pass and returns the run summary.
func (h *ScoreHandler) Rebuild(c fiber.Ctx) error {
	summary, err := h.scoring.RunScoring(c.Context())
	if err != nil {
		if errors.Is(err, port.ErrEmptyBatch) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no regions to score"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// Top returns the highest-scoring regions.
func (h *ScoreHandler) Top(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	scores, err := h.scoring.TopScores(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"scores": scores, "count": len(scores)})
}

// Breakdown returns the stored score components for one region.
func (h *ScoreHandler) Breakdown(c fiber.Ctx) error {
	code := c.Params("code")

	score, err := h.scoring.GetBreakdown(c.Context(), code)
	if err != nil {
		if errors.Is(err, port.ErrScoreNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "region score not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(score)
}

// IncomeCorrelation reports the Pearson correlation between final scores
// and median income.
func (h *ScoreHandler) IncomeCorrelation(c fiber.Ctx) error {
	r, n, err := h.scoring.IncomeCorrelation(c.Context())
	if err != nil {
		if errors.Is(err, port.ErrNoCorrelation) {
			return c.JSON(fiber.Map{"correlation": nil, "sample_size": n})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"correlation": r, "sample_size": n})
}
