package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/releasewizard/api/internal/middleware"
	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/service"
	"github.com/releasewizard/api/pkg/response"
)

type WizardHandler struct {
	wizard    *service.WizardService
	analysis  *service.AnalysisService
	validator *validator.Validate
}

func NewWizardHandler(wizard *service.WizardService, analysis *service.AnalysisService, v *validator.Validate) *WizardHandler {
	return &WizardHandler{
		wizard:    wizard,
		analysis:  analysis,
		validator: v,
	}
}

// StartSession handles POST /api/wizard/session
func (h *WizardHandler) StartSession(c *fiber.Ctx) error {
	result := h.wizard.StartSession(
		middleware.GetUserID(c),
		middleware.GetArtistName(c),
		middleware.HasPayoutMethod(c),
	)
	return response.Created(c, result)
}

// Message handles POST /api/wizard/session/:sessionId/message
func (h *WizardHandler) Message(c *fiber.Ctx) error {
	var req model.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.wizard.HandleMessage(c.Context(), c.Params("sessionId"), middleware.GetUserID(c), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// GetState handles GET /api/wizard/session/:sessionId
func (h *WizardHandler) GetState(c *fiber.Ctx) error {
	result, err := h.wizard.GetState(c.Params("sessionId"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, result)
}

// Reset handles POST /api/wizard/session/:sessionId/reset
func (h *WizardHandler) Reset(c *fiber.Ctx) error {
	result, err := h.wizard.Reset(c.Params("sessionId"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, result)
}

// Submit handles POST /api/wizard/session/:sessionId/submit
func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	result, err := h.wizard.Submit(c.Params("sessionId"), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		if errors.Is(err, service.ErrPayoutRequired) {
			return response.PayoutRequired(c, "Connect a payout method before submitting a release")
		}
		return response.ValidationError(c, err.Error(), nil)
	}
	return response.OK(c, result)
}

// Upload handles POST /api/wizard/session/:sessionId/upload
func (h *WizardHandler) Upload(c *fiber.Ctx) error {
	var req model.UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	sessionID := c.Params("sessionId")

	assetRef, msg, err := h.wizard.RegisterAsset(sessionID, middleware.GetUserID(c), req.Kind, req.FileName)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		if errors.Is(err, service.ErrPayoutRequired) {
			return response.PayoutRequired(c, "Connect a payout method before uploading release assets")
		}
		return response.ServiceError(c, err.Error())
	}

	job, err := h.analysis.Start(c.Context(), sessionID, req.Kind, assetRef, req.FileName)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, model.UploadResponse{
		AssetRef: assetRef,
		JobID:    job.ID,
		Status:   job.Status,
		Reply:    msg.Reply,
		Step:     msg.Step,
	})
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
