package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"complyapi/internal/catalog"
	"complyapi/internal/service"
)

type linkFormRequest struct {
	FormID string `json:"form_id"`
}

// ResolveControl answers which evidence modality applies to a control.
func ResolveControl(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := cat.Resolve(c.Params("controlId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetChecklist materializes and returns a control's checklist. Viewing
// initializes missing items from the catalog; the upsert is idempotent.
func GetChecklist(svc service.ChecklistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Initialize(c.UserContext(), c.Params("controlId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

// GetChecklistProgress returns a control's completion ratios.
func GetChecklistProgress(svc service.ChecklistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Progress(c.UserContext(), c.Params("controlId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(p)
	}
}

// AttachChecklistFile uploads a file as a requirement's evidence
// (multipart field: file, optional field: notes).
func AttachChecklistFile(svc service.ChecklistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		requirementID, err := strconv.Atoi(c.Params("requirementId"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUIREMENT", "invalid requirement id")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		item, err := svc.AttachFile(c.UserContext(), c.Params("controlId"), requirementID, f, fh.Filename, ct, fh.Size, c.FormValue("notes"), actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(item)
	}
}

// LinkChecklistForm links an evidence form as a requirement's evidence.
func LinkChecklistForm(svc service.ChecklistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		requirementID, err := strconv.Atoi(c.Params("requirementId"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUIREMENT", "invalid requirement id")
		}
		var req linkFormRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		item, err := svc.LinkForm(c.UserContext(), c.Params("controlId"), requirementID, req.FormID, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(item)
	}
}

// GetChecklistEvidenceURL returns a presigned download link for an item's
// stored file.
func GetChecklistEvidenceURL(svc service.ChecklistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := svc.EvidenceURL(c.UserContext(), c.Params("itemId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// RemoveChecklistEvidence resets an item to incomplete.
func RemoveChecklistEvidence(svc service.ChecklistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		item, err := svc.RemoveEvidence(c.UserContext(), c.Params("itemId"), actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(item)
	}
}
