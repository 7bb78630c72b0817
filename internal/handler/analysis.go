package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/releasewizard/api/internal/service"
	"github.com/releasewizard/api/pkg/response"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
}

func NewAnalysisHandler(analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// Status handles GET /api/analysis/:jobId
func (h *AnalysisHandler) Status(c *fiber.Ctx) error {
	result, err := h.analysis.GetStatus(c.Context(), c.Params("jobId"))
	if err != nil {
		return response.NotFound(c, "Analysis job not found")
	}
	return response.OK(c, result)
}
