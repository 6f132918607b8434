package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"complyapi/internal/service"
)

type generateDocumentRequest struct {
	ControlID string `json:"control_id"`
	Title     string `json:"title"`
}

type signRequest struct {
	Comment string `json:"comment"`
}

// GenerateDocument creates a fresh document version for a control.
func GenerateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		var req generateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		doc, err := svc.Generate(c.UserContext(), req.ControlID, req.Title, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns documents with limit/offset pagination, optionally
// filtered by control.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), c.Query("control_id"), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns one document by id.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// SignDocument fills one role slot (prepared, reviewed, approved) in order.
func SignDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		var req signRequest
		// Body is optional; a bare sign carries no comment.
		_ = c.BodyParser(&req)
		doc, err := svc.Sign(c.UserContext(), c.Params("id"), c.Params("role"), req.Comment, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// RevokeDocumentSignature clears a role slot and everything after it.
func RevokeDocumentSignature(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		doc, err := svc.Revoke(c.UserContext(), c.Params("id"), c.Params("role"), actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document by id.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id, actor); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
