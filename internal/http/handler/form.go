package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"complyapi/internal/service"
)

type createFormRequest struct {
	FormType  string          `json:"form_type"`
	ControlID string          `json:"control_id"`
	FormData  json.RawMessage `json:"form_data"`
}

type rejectFormRequest struct {
	Role   string `json:"role"`
	Reason string `json:"reason"`
}

// CreateForm opens a new evidence form in draft.
func CreateForm(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		var req createFormRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		form, err := svc.Create(c.UserContext(), req.FormType, req.ControlID, req.FormData, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(form)
	}
}

// ListForms returns forms, optionally filtered by control and type.
func ListForms(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), c.Query("control_id"), c.Query("form_type"), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadFormAttachment streams one attachment by its position on the form.
func DownloadFormAttachment(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INDEX", "invalid attachment index")
		}
		rc, att, err := svc.DownloadAttachment(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+att.FileName+`"`)
		return c.SendStream(rc)
	}
}

// GetForm returns one evidence form by id.
func GetForm(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(form)
	}
}

// SignForm fills one role slot (requester, reviewer, approver) in order.
func SignForm(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		var req signRequest
		_ = c.BodyParser(&req)
		form, err := svc.Sign(c.UserContext(), c.Params("id"), c.Params("role"), req.Comment, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(form)
	}
}

// RejectForm terminally rejects a pending form.
func RejectForm(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		var req rejectFormRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		form, err := svc.Reject(c.UserContext(), c.Params("id"), req.Role, req.Reason, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(form)
	}
}

// AddFormAttachment uploads a supporting file (multipart field: file).
func AddFormAttachment(svc service.EvidenceFormService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := requireActor(c)
		if err != nil {
			return err
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
		form, err := svc.AddAttachment(c.UserContext(), c.Params("id"), f, fh.Filename, c.FormValue("category"), ct, fh.Size, actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(form)
	}
}
