package handler

import (
	"errors"

	"jdmatch/internal/delivery/http/dto"
	"jdmatch/internal/delivery/http/middleware"
	"jdmatch/internal/pkg/response"
	"jdmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	msgResumeAndJDRequired = "Resume and JD required"
	msgResumeRequired      = "Resume required"
	msgUnreadableURL       = "Job description URL could not be read"
	msgLLMNotConfigured    = "LLM client is not configured"
	msgInvalidPayload      = "Invalid request payload"
)

type AnalysisHandler struct {
	uc usecase.AnalysisUsecase
}

func NewAnalysisHandler(uc usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/analyse", h.Analyze)
	r.Post("/job-descriptions/user/:userId/job/:jobId/analyse", h.AnalyzeJobDescription)
}

func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err)
	}

	res, err := h.uc.Analyze(c.Context(), usecase.AnalyzeParams{
		ResumeText:        req.ResumeText,
		JobDescription:    req.JobDescriptionText(),
		JobDescriptionURL: req.JobDescriptionURL,
	})
	if err != nil {
		return mapAnalysisError(err, msgResumeAndJDRequired)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AnalysisHandler) AnalyzeJobDescription(c fiber.Ctx) error {
	userID := middleware.Param(c, "userId")
	if err := middleware.RequireOwner(c, userID); err != nil {
		return err
	}

	var req dto.AnalyzeJobDescriptionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err)
	}

	res, err := h.uc.AnalyzeJobDescription(c.Context(), userID, middleware.Param(c, "jobId"), req.ResumeText)
	if err != nil {
		return mapAnalysisError(err, msgResumeRequired)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// HandleLLMHealth probes the model with a tiny completion.
func (h *AnalysisHandler) HandleLLMHealth(c fiber.Ctx) error {
	probe := h.uc.Probe(c.Context())
	body := dto.LLMHealthResponse{Success: probe.Success, Message: probe.Message}
	if !probe.Success {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, body)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, body)
}

func mapAnalysisError(err error, invalidMsg string) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, invalidMsg, nil, err)
	case errors.Is(err, usecase.ErrUnreadableURL):
		return middleware.NewAppError(fiber.StatusBadRequest, msgUnreadableURL, nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageJobNotFound, nil, err)
	case errors.Is(err, usecase.ErrUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgLLMNotConfigured, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
