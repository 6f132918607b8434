package handler

// Package handler contains the HTTP layer: thin Fiber handlers that parse
// requests, call services, and translate sentinel errors into the shared
// JSON error envelope. No business logic lives here.

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"complyapi/internal/catalog"
	"complyapi/internal/http/middleware"
	"complyapi/internal/model"
	"complyapi/internal/repository"
	"complyapi/internal/service"
	"complyapi/internal/workflow"
)

// requireActor extracts the identity placed by middleware.Identity, or
// rejects the request. Mutating routes require a known actor.
func requireActor(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return model.Actor{}, writeError(c, fiber.StatusUnauthorized, "IDENTITY_REQUIRED", "identity headers are required")
	}
	return actor, nil
}

// serviceError maps service and workflow sentinel errors onto HTTP codes.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrAttachmentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, workflow.ErrOrderingViolation),
		errors.Is(err, workflow.ErrAlreadySigned),
		errors.Is(err, workflow.ErrNotSigned):
		return writeError(c, fiber.StatusConflict, "ORDERING_VIOLATION", err.Error())
	case errors.Is(err, service.ErrFormRejected),
		errors.Is(err, service.ErrFormNotRejectable),
		errors.Is(err, service.ErrFormControlMismatch):
		return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, repository.ErrRevisionConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "entity was modified concurrently, retry")
	case errors.Is(err, workflow.ErrInvalidRole),
		errors.Is(err, catalog.ErrInvalidControlID),
		errors.Is(err, service.ErrInvalidFormType),
		errors.Is(err, service.ErrFormNotApplicable),
		errors.Is(err, service.ErrEvidenceNotRequired),
		errors.Is(err, service.ErrNoFileEvidence),
		errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, catalog.ErrControlUnmapped):
		// A missing catalog entry, not "no evidence needed": surface loudly.
		return writeError(c, fiber.StatusInternalServerError, "CONTROL_UNMAPPED", err.Error())
	case errors.Is(err, workflow.ErrCorruptChain):
		return writeError(c, fiber.StatusInternalServerError, "INVARIANT_VIOLATION", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
