package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"complyapi/internal/catalog"
	"complyapi/internal/model"
	"complyapi/internal/repository"
	"complyapi/internal/workflow"
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for control documents and their
// prepared/reviewed/approved signature chain.
type DocumentService interface {
	// Generate creates a fresh document version for a control. The version
	// is assigned per control, not from a shared counter.
	Generate(ctx context.Context, controlID, title string, actor model.Actor) (*model.Document, error)

	// Sign fills one role slot in chain order and recomputes status and the
	// stamped flag. Out-of-order or repeated signs are rejected unchanged.
	Sign(ctx context.Context, id, role, comment string, actor model.Actor) (*model.Document, error)

	// Revoke clears the named role and every role after it, then recomputes
	// status; stamped is forced off unless all three slots remain signed.
	Revoke(ctx context.Context, id, role string, actor model.Actor) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, controlID string, limit, offset int) (*DocumentListResult, error)

	// Delete removes a document by ID.
	Delete(ctx context.Context, id string, actor model.Actor) error
}

type documentService struct {
	repo  repository.DocumentRepository
	audit AuditRecorder
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, audit AuditRecorder) DocumentService {
	return &documentService{repo: repo, audit: audit}
}

func (s *documentService) Generate(ctx context.Context, controlID, title string, actor model.Actor) (*model.Document, error) {
	if _, _, err := catalog.SplitControlID(controlID); err != nil {
		return nil, err
	}
	doc := &model.Document{
		ID:        uuid.New().String(),
		ControlID: controlID,
		Title:     title,
		Status:    model.DocumentPending,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	s.audit.Record(ctx, actor, "document_generated", EntityDocument, stored.ID, stored.Title,
		fmt.Sprintf("generated version %d for control %s", stored.Version, controlID))
	return stored, nil
}

func (s *documentService) Sign(ctx context.Context, id, role, comment string, actor model.Actor) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	r, err := workflow.ParseRole(workflow.DocumentRoles, role)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	sig := model.Signature{
		UserID:         actor.UserID,
		UserName:       actor.UserName,
		Position:       actor.Position,
		SignedAt:       time.Now().UTC(),
		SignatureImage: actor.SignatureImage,
		Comment:        comment,
	}
	if err := workflow.Sign(&doc.Signatures, r, sig); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, doc); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "document_signed", EntityDocument, doc.ID, doc.Title,
		fmt.Sprintf("signed as %s on control %s", role, doc.ControlID))
	return doc, nil
}

func (s *documentService) Revoke(ctx context.Context, id, role string, actor model.Actor) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	r, err := workflow.ParseRole(workflow.DocumentRoles, role)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if err := workflow.Revoke(&doc.Signatures, r); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, doc); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "document_signature_revoked", EntityDocument, doc.ID, doc.Title,
		fmt.Sprintf("revoked %s and downstream signatures on control %s", role, doc.ControlID))
	return doc, nil
}

// recompute derives status and stamped from the signature slots and writes
// the document back under its revision guard. Status is never patched
// incrementally: it is always overwritten from the slots.
func (s *documentService) recompute(ctx context.Context, doc *model.Document) error {
	status, stamped, err := workflow.DocumentStatus(doc.Signatures)
	if err != nil {
		return err
	}
	doc.Status = status
	doc.Stamped = stamped
	doc.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, doc)
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, controlID string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, controlID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "document_deleted", EntityDocument, doc.ID, doc.Title,
		fmt.Sprintf("deleted version %d of control %s", doc.Version, doc.ControlID))
	return nil
}
