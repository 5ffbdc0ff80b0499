package handler

import (
	"errors"

	"github.com/JonesEri07/reqcheck-sub002/internal/domain/integration"
	"github.com/JonesEri07/reqcheck-sub002/internal/pkg/response"
	"github.com/JonesEri07/reqcheck-sub002/internal/syncer"
	"github.com/JonesEri07/reqcheck-sub002/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SyncHandler struct {
	uc usecase.SyncUsecase
}

type syncResultResponse struct {
	Success     bool   `json:"success"`
	JobsCreated int    `json:"jobs_created"`
	JobsUpdated int    `json:"jobs_updated"`
	JobsSkipped int    `json:"jobs_skipped"`
	Error       string `json:"error,omitempty"`
}

func toSyncResultResponse(res syncer.Result) syncResultResponse {
	return syncResultResponse{
		Success:     res.Success,
		JobsCreated: res.JobsCreated,
		JobsUpdated: res.JobsUpdated,
		JobsSkipped: res.JobsSkipped,
		Error:       res.Error,
	}
}

func NewSyncHandler(uc usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

func (h *SyncHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/integrations/:id/sync", h.Trigger)
	r.Post("/sync/batch", h.Batch)
}

// Trigger runs one integration's sync immediately. A run that started
// but failed still answers with its partial counters so callers can see
// how far it got.
func (h *SyncHandler) Trigger(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid integration id", nil)
	}

	res, err := h.uc.TriggerSync(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrIntegrationNotFound):
			return response.Error(c, fiber.StatusNotFound, "integration not found", nil)
		case errors.Is(err, usecase.ErrUnsupportedIntegrationType):
			return response.Error(c, fiber.StatusUnprocessableEntity, "integration type is not syncable", nil)
		}
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}

	if !res.Success {
		return response.Error(c, fiber.StatusBadGateway, "sync failed", toSyncResultResponse(res))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toSyncResultResponse(res))
}

// Batch runs every integration of the requested cadence and returns the
// aggregate summary. Per-integration failures are part of the summary,
// not an HTTP error.
func (h *SyncHandler) Batch(c fiber.Ctx) error {
	frequency := integration.SyncFrequency(c.Query("frequency"))

	summary, err := h.uc.RunBatch(c.Context(), frequency)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSyncFrequency) {
			return response.Error(c, fiber.StatusBadRequest, "frequency must be HOURLY, DAILY or WEEKLY", nil)
		}
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, summary)
}
