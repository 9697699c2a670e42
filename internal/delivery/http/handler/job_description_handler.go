package handler

import (
	"errors"

	"jdmatch/internal/delivery/http/dto"
	"jdmatch/internal/delivery/http/middleware"
	"jdmatch/internal/pkg/response"
	"jdmatch/internal/usecase"
	"jdmatch/internal/validator"

	"github.com/gofiber/fiber/v3"
)

type JobDescriptionHandler struct {
	uc        usecase.JobDescriptionUsecase
	validator *validator.JobDescriptionValidator
}

func NewJobDescriptionHandler(uc usecase.JobDescriptionUsecase, v *validator.JobDescriptionValidator) *JobDescriptionHandler {
	return &JobDescriptionHandler{uc: uc, validator: v}
}

func (h *JobDescriptionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	g := r.Group("/job-descriptions/user/:userId")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/job/:jobId", h.Get)
	g.Put("/job/:jobId", h.Update)
	g.Delete("/job/:jobId", h.Delete)
}

func (h *JobDescriptionHandler) List(c fiber.Ctx) error {
	userID := middleware.Param(c, "userId")
	if err := middleware.RequireOwner(c, userID); err != nil {
		return err
	}

	q, err := validator.ParseListQuery(func(key string) string { return c.Query(key) })
	if err != nil {
		return mapJobDescriptionError(err)
	}

	page, err := h.uc.List(c.Context(), userID, q)
	if err != nil {
		return mapJobDescriptionError(err)
	}

	return response.Raw(c, fiber.StatusOK, dto.NewJobDescriptionPageResponse(page))
}

func (h *JobDescriptionHandler) Get(c fiber.Ctx) error {
	userID := middleware.Param(c, "userId")
	if err := middleware.RequireOwner(c, userID); err != nil {
		return err
	}

	jd, err := h.uc.Get(c.Context(), userID, middleware.Param(c, "jobId"))
	if err != nil {
		return mapJobDescriptionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobDescriptionResponse(jd))
}

func (h *JobDescriptionHandler) Create(c fiber.Ctx) error {
	userID := middleware.Param(c, "userId")
	if err := middleware.RequireOwner(c, userID); err != nil {
		return err
	}

	in, err := h.validator.ValidateCreate(c.Body())
	if err != nil {
		return mapJobDescriptionError(err)
	}

	jd, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return mapJobDescriptionError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewJobDescriptionResponse(jd))
}

func (h *JobDescriptionHandler) Update(c fiber.Ctx) error {
	userID := middleware.Param(c, "userId")
	if err := middleware.RequireOwner(c, userID); err != nil {
		return err
	}

	in, err := h.validator.ValidateUpdate(c.Body())
	if err != nil {
		return mapJobDescriptionError(err)
	}

	jd, err := h.uc.Update(c.Context(), userID, middleware.Param(c, "jobId"), in)
	if err != nil {
		return mapJobDescriptionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobDescriptionResponse(jd))
}

func (h *JobDescriptionHandler) Delete(c fiber.Ctx) error {
	userID := middleware.Param(c, "userId")
	if err := middleware.RequireOwner(c, userID); err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, middleware.Param(c, "jobId")); err != nil {
		return mapJobDescriptionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageDeleted, nil)
}

func mapJobDescriptionError(err error) error {
	if err == nil {
		return nil
	}

	var ve *validator.ValidationError
	switch {
	case errors.As(err, &ve):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageValidationFailed, ve, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageJobNotFound, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
