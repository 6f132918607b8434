package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"complyapi/internal/catalog"
	"complyapi/internal/model"
	"complyapi/internal/repository"
	"complyapi/internal/storage"
	"complyapi/internal/workflow"
)

// FormListResult is the service-level DTO for paginated evidence forms.
type FormListResult struct {
	Items []model.EvidenceForm `json:"data"`
	Total int                  `json:"total"`
}

// EvidenceFormService defines the use cases for operational evidence forms
// and their requester/reviewer/approver signature chain.
type EvidenceFormService interface {
	// Create opens a new form in draft with a generated form number. The
	// form type must be valid and applicable to the control's category.
	Create(ctx context.Context, formType, controlID string, formData json.RawMessage, actor model.Actor) (*model.EvidenceForm, error)

	// Sign fills one role slot in chain order and advances the form's
	// status monotonically. Rejected forms cannot be signed.
	Sign(ctx context.Context, id, role, comment string, actor model.Actor) (*model.EvidenceForm, error)

	// Reject terminally rejects a pending form. Only the next role in the
	// chain may reject, and only from pending_review or pending_approval.
	Reject(ctx context.Context, id, role, reason string, actor model.Actor) (*model.EvidenceForm, error)

	// AddAttachment uploads a supporting file and appends it to the form.
	AddAttachment(ctx context.Context, id string, r io.Reader, fileName, category, contentType string, size int64, actor model.Actor) (*model.EvidenceForm, error)

	// DownloadAttachment streams the attachment at the given position. The
	// caller owns the returned reader and must close it.
	DownloadAttachment(ctx context.Context, id string, index int) (io.ReadCloser, *model.FormAttachment, error)

	// Get returns a single form by its ID.
	Get(ctx context.Context, id string) (*model.EvidenceForm, error)

	// List returns forms using limit/offset and a total count, optionally
	// filtered by control and form type.
	List(ctx context.Context, controlID, formType string, limit, offset int) (*FormListResult, error)
}

type evidenceFormService struct {
	repo  repository.EvidenceFormRepository
	store storage.Storage
	cat   *catalog.Catalog
	audit AuditRecorder
}

// NewEvidenceFormService constructs a new EvidenceFormService.
func NewEvidenceFormService(repo repository.EvidenceFormRepository, store storage.Storage, cat *catalog.Catalog, audit AuditRecorder) EvidenceFormService {
	return &evidenceFormService{repo: repo, store: store, cat: cat, audit: audit}
}

func (s *evidenceFormService) Create(ctx context.Context, formType, controlID string, formData json.RawMessage, actor model.Actor) (*model.EvidenceForm, error) {
	if !catalog.FormType(formType).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormType, formType)
	}
	res, err := s.cat.Resolve(controlID)
	if err != nil {
		return nil, err
	}
	if !res.NeedsEvidence {
		return nil, ErrEvidenceNotRequired
	}
	applicable := false
	for _, ft := range res.ApplicableFormTypes {
		if ft == catalog.FormType(formType) {
			applicable = true
			break
		}
	}
	if !applicable {
		return nil, fmt.Errorf("%w: %s on control %s", ErrFormNotApplicable, formType, controlID)
	}

	now := time.Now().UTC()
	form := &model.EvidenceForm{
		ID:        uuid.New().String(),
		FormType:  formType,
		ControlID: controlID,
		Status:    model.FormDraft,
		FormData:  formData,
		History: []model.FormHistoryEntry{{
			Action:      "created",
			PerformedBy: actor.UserName,
			PerformedAt: now,
		}},
		CreatedAt: now,
	}
	stored, err := s.repo.Create(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	s.audit.Record(ctx, actor, "form_created", EntityForm, stored.ID, stored.FormNo,
		fmt.Sprintf("created %s for control %s", formType, controlID))
	return stored, nil
}

func (s *evidenceFormService) Sign(ctx context.Context, id, role, comment string, actor model.Actor) (*model.EvidenceForm, error) {
	r, err := workflow.ParseRole(workflow.FormRoles, role)
	if err != nil {
		return nil, err
	}
	form, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.Status == model.FormRejected {
		return nil, ErrFormRejected
	}

	now := time.Now().UTC()
	sig := model.Signature{
		UserID:         actor.UserID,
		UserName:       actor.UserName,
		Position:       actor.Position,
		SignedAt:       now,
		SignatureImage: actor.SignatureImage,
		Comment:        comment,
	}
	if err := workflow.Sign(&form.Signatures, r, sig); err != nil {
		return nil, err
	}
	status, err := workflow.FormStatus(form.Signatures)
	if err != nil {
		return nil, err
	}
	form.Status = status
	form.History = append(form.History, model.FormHistoryEntry{
		Action:      "signed_" + role,
		PerformedBy: actor.UserName,
		PerformedAt: now,
		Details:     comment,
	})
	form.UpdatedAt = now
	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "form_signed", EntityForm, form.ID, form.FormNo,
		fmt.Sprintf("signed as %s; status %s", role, form.Status))
	return form, nil
}

func (s *evidenceFormService) Reject(ctx context.Context, id, role, reason string, actor model.Actor) (*model.EvidenceForm, error) {
	r, err := workflow.ParseRole(workflow.FormRoles, role)
	if err != nil {
		return nil, err
	}
	form, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.Status == model.FormRejected {
		return nil, ErrFormRejected
	}

	// Only the role whose turn it is can reject, and only once the flow is
	// in motion: the reviewer at pending_review, the approver at
	// pending_approval. A draft has nothing to reject yet.
	count, err := workflow.SignedCount(form.Signatures)
	if err != nil {
		return nil, err
	}
	if count == 0 || count == workflow.RoleCount || workflow.Role(count) != r {
		return nil, ErrFormNotRejectable
	}

	now := time.Now().UTC()
	form.Status = model.FormRejected
	form.Rejection = &model.FormRejection{
		Role:       role,
		Reason:     reason,
		RejectedBy: actor.UserName,
		RejectedAt: now,
	}
	form.History = append(form.History, model.FormHistoryEntry{
		Action:      "rejected_" + role,
		PerformedBy: actor.UserName,
		PerformedAt: now,
		Details:     reason,
	})
	form.UpdatedAt = now
	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "form_rejected", EntityForm, form.ID, form.FormNo,
		fmt.Sprintf("rejected as %s: %s", role, reason))
	return form, nil
}

func (s *evidenceFormService) AddAttachment(ctx context.Context, id string, r io.Reader, fileName, category, contentType string, size int64, actor model.Actor) (*model.EvidenceForm, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	form, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.Status == model.FormRejected {
		return nil, ErrFormRejected
	}

	key := filepath.ToSlash(filepath.Join("attachments", form.ID, uuid.New().String()+filepath.Ext(fileName)))
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": fileName},
	}); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	now := time.Now().UTC()
	form.Attachments = append(form.Attachments, model.FormAttachment{
		FileName:   fileName,
		FilePath:   key,
		Category:   category,
		UploadedBy: actor.UserName,
		UploadedAt: now,
	})
	form.History = append(form.History, model.FormHistoryEntry{
		Action:      "attachment_added",
		PerformedBy: actor.UserName,
		PerformedAt: now,
		Details:     fileName,
	})
	form.UpdatedAt = now
	if err := s.repo.Update(ctx, form); err != nil {
		// Roll back the orphaned object; the form never referenced it.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.audit.Record(ctx, actor, "form_attachment_added", EntityForm, form.ID, form.FormNo,
		fmt.Sprintf("attached %s (%s)", fileName, category))
	return form, nil
}

func (s *evidenceFormService) DownloadAttachment(ctx context.Context, id string, index int) (io.ReadCloser, *model.FormAttachment, error) {
	form, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(form.Attachments) {
		return nil, nil, ErrAttachmentNotFound
	}
	att := form.Attachments[index]
	rc, _, err := s.store.Get(ctx, att.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch attachment: %w", err)
	}
	return rc, &att, nil
}

func (s *evidenceFormService) Get(ctx context.Context, id string) (*model.EvidenceForm, error) {
	return s.find(ctx, id)
}

func (s *evidenceFormService) List(ctx context.Context, controlID, formType string, limit, offset int) (*FormListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, controlID, formType, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &FormListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *evidenceFormService) find(ctx context.Context, id string) (*model.EvidenceForm, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return form, nil
}
