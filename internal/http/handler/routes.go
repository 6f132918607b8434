package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"complyapi/internal/catalog"
	"complyapi/internal/service"
)

// Services bundles the injected use cases for route registration.
type Services struct {
	Documents  service.DocumentService
	Forms      service.EvidenceFormService
	Checklists service.ChecklistService
	Activities service.ActivityService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, cat *catalog.Catalog, svcs Services) {
	// Health endpoints: readiness checks DB connectivity, liveness is a probe.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Evidence-modality resolver and per-control checklist.
	app.Get("/controls/:controlId/resolve", ResolveControl(cat))
	app.Get("/controls/:controlId/checklist", GetChecklist(svcs.Checklists))
	app.Get("/controls/:controlId/checklist/progress", GetChecklistProgress(svcs.Checklists))
	app.Post("/controls/:controlId/checklist/:requirementId/file", AttachChecklistFile(svcs.Checklists))
	app.Post("/controls/:controlId/checklist/:requirementId/form", LinkChecklistForm(svcs.Checklists))
	app.Get("/checklist-items/:itemId/evidence/url", GetChecklistEvidenceURL(svcs.Checklists))
	app.Delete("/checklist-items/:itemId/evidence", RemoveChecklistEvidence(svcs.Checklists))

	// Control documents and their signature chain.
	app.Post("/documents", GenerateDocument(svcs.Documents))
	app.Get("/documents", ListDocuments(svcs.Documents))
	app.Get("/documents/:id", GetDocument(svcs.Documents))
	app.Delete("/documents/:id", DeleteDocument(svcs.Documents))
	app.Post("/documents/:id/signatures/:role", SignDocument(svcs.Documents))
	app.Delete("/documents/:id/signatures/:role", RevokeDocumentSignature(svcs.Documents))

	// Evidence forms and their signature chain.
	app.Post("/forms", CreateForm(svcs.Forms))
	app.Get("/forms", ListForms(svcs.Forms))
	app.Get("/forms/:id", GetForm(svcs.Forms))
	app.Post("/forms/:id/signatures/:role", SignForm(svcs.Forms))
	app.Post("/forms/:id/reject", RejectForm(svcs.Forms))
	app.Post("/forms/:id/attachments", AddFormAttachment(svcs.Forms))
	app.Get("/forms/:id/attachments/:index", DownloadFormAttachment(svcs.Forms))

	// Activity trail.
	app.Get("/activities", ListActivities(svcs.Activities))
}
