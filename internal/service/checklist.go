package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"complyapi/internal/catalog"
	"complyapi/internal/model"
	"complyapi/internal/repository"
	"complyapi/internal/storage"
)

// ChecklistService materializes one checklist item per catalog requirement
// slot per control, tracks completion through a file or a linked form, and
// computes progress ratios. File and form evidence are mutually exclusive on
// an item: attaching one clears the other.
type ChecklistService interface {
	// Initialize upserts the control's checklist items from the catalog and
	// returns them. Idempotent — safe to call on every view.
	Initialize(ctx context.Context, controlID string) ([]model.ChecklistItem, error)

	// AttachFile stores the uploaded file as the item's evidence, detaching
	// any linked form and deleting any previously stored file.
	AttachFile(ctx context.Context, controlID string, requirementID int, r io.Reader, fileName, contentType string, size int64, notes string, actor model.Actor) (*model.ChecklistItem, error)

	// LinkForm links an evidence form as the item's evidence, deleting any
	// previously stored file.
	LinkForm(ctx context.Context, controlID string, requirementID int, formID string, actor model.Actor) (*model.ChecklistItem, error)

	// RemoveEvidence resets the item to incomplete and deletes its stored
	// file if present. The row itself survives.
	RemoveEvidence(ctx context.Context, itemID string, actor model.Actor) (*model.ChecklistItem, error)

	// EvidenceURL returns a time-limited download URL for an item's stored
	// file. Items completed by a linked form have no file to serve.
	EvidenceURL(ctx context.Context, itemID string) (string, error)

	// Progress aggregates the control's current checklist state. Always
	// computed fresh, never cached across mutations.
	Progress(ctx context.Context, controlID string) (*model.Progress, error)
}

type checklistService struct {
	repo  repository.ChecklistRepository
	forms repository.EvidenceFormRepository
	store storage.Storage
	cat   *catalog.Catalog
	audit AuditRecorder
}

// NewChecklistService constructs a new ChecklistService.
func NewChecklistService(repo repository.ChecklistRepository, forms repository.EvidenceFormRepository, store storage.Storage, cat *catalog.Catalog, audit AuditRecorder) ChecklistService {
	return &checklistService{repo: repo, forms: forms, store: store, cat: cat, audit: audit}
}

func (s *checklistService) Initialize(ctx context.Context, controlID string) ([]model.ChecklistItem, error) {
	if _, _, err := catalog.SplitControlID(controlID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, req := range s.cat.Requirements(controlID) {
		item := &model.ChecklistItem{
			ID:              uuid.New().String(),
			ControlID:       controlID,
			RequirementID:   req.ID,
			RequirementName: req.Name,
			IsRequired:      req.Required,
			CreatedAt:       now,
		}
		if err := s.repo.UpsertAbsent(ctx, item); err != nil {
			return nil, fmt.Errorf("initialize checklist: %w", err)
		}
	}
	return s.repo.ListByControl(ctx, controlID)
}

func (s *checklistService) AttachFile(ctx context.Context, controlID string, requirementID int, r io.Reader, fileName, contentType string, size int64, notes string, actor model.Actor) (*model.ChecklistItem, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	item, err := s.findByRequirement(ctx, controlID, requirementID)
	if err != nil {
		return nil, err
	}

	key := filepath.ToSlash(filepath.Join("evidence", controlID, uuid.New().String()+filepath.Ext(fileName)))
	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": fileName},
	})
	if err != nil {
		return nil, fmt.Errorf("upload evidence: %w", err)
	}

	oldKey := ""
	if item.File != nil {
		oldKey = item.File.StoragePath
	}

	now := time.Now().UTC()
	item.Form = nil
	item.File = &model.ChecklistFile{
		FileName:    fileName,
		StoragePath: info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		Notes:       notes,
	}
	s.complete(item, model.EvidenceFile, actor, now)

	if err := s.repo.Update(ctx, item); err != nil {
		// The item still references its old evidence; remove the new object.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// The new reference is committed; only now is the old object garbage.
	s.cleanup(ctx, oldKey)

	s.audit.Record(ctx, actor, "evidence_file_attached", EntityChecklist, item.ID, item.RequirementName,
		fmt.Sprintf("attached %s to %s requirement %d", fileName, controlID, requirementID))
	return item, nil
}

func (s *checklistService) LinkForm(ctx context.Context, controlID string, requirementID int, formID string, actor model.Actor) (*model.ChecklistItem, error) {
	if formID == "" {
		return nil, ErrIDRequired
	}
	item, err := s.findByRequirement(ctx, controlID, requirementID)
	if err != nil {
		return nil, err
	}
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if form.ControlID != controlID {
		return nil, ErrFormControlMismatch
	}

	oldKey := ""
	if item.File != nil {
		oldKey = item.File.StoragePath
	}

	now := time.Now().UTC()
	item.File = nil
	item.Form = &model.ChecklistFormRef{
		FormID:    form.ID,
		FormType:  form.FormType,
		FormTitle: form.FormNo,
	}
	s.complete(item, model.EvidenceLink, actor, now)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.cleanup(ctx, oldKey)

	s.audit.Record(ctx, actor, "evidence_form_linked", EntityChecklist, item.ID, item.RequirementName,
		fmt.Sprintf("linked form %s to %s requirement %d", form.FormNo, controlID, requirementID))
	return item, nil
}

func (s *checklistService) RemoveEvidence(ctx context.Context, itemID string, actor model.Actor) (*model.ChecklistItem, error) {
	if itemID == "" {
		return nil, ErrIDRequired
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	oldKey := ""
	if item.File != nil {
		oldKey = item.File.StoragePath
	}

	item.File = nil
	item.Form = nil
	item.EvidenceType = model.EvidenceNone
	item.IsComplete = false
	item.CompletedAt = nil
	item.CompletedBy = ""
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.cleanup(ctx, oldKey)

	s.audit.Record(ctx, actor, "evidence_removed", EntityChecklist, item.ID, item.RequirementName,
		fmt.Sprintf("removed evidence from %s requirement %d", item.ControlID, item.RequirementID))
	return item, nil
}

// presignExpiry bounds how long an evidence download link stays valid.
const presignExpiry = 15 * time.Minute

func (s *checklistService) EvidenceURL(ctx context.Context, itemID string) (string, error) {
	if itemID == "" {
		return "", ErrIDRequired
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrItemNotFound
		}
		return "", err
	}
	if item.File == nil {
		return "", ErrNoFileEvidence
	}
	url, err := s.store.PresignGet(ctx, item.File.StoragePath, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign evidence: %w", err)
	}
	return url, nil
}

func (s *checklistService) Progress(ctx context.Context, controlID string) (*model.Progress, error) {
	items, err := s.repo.ListByControl(ctx, controlID)
	if err != nil {
		return nil, err
	}
	p := &model.Progress{Total: len(items)}
	for _, it := range items {
		if it.IsRequired {
			p.Required++
		}
		if it.IsComplete {
			p.Completed++
			if it.IsRequired {
				p.RequiredCompleted++
			}
		}
	}
	p.Percentage = percent(p.Completed, p.Total)
	p.RequiredPercentage = percent(p.RequiredCompleted, p.Required)
	return p, nil
}

// percent rounds half away from zero and is 0 for an empty denominator.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

func (s *checklistService) findByRequirement(ctx context.Context, controlID string, requirementID int) (*model.ChecklistItem, error) {
	item, err := s.repo.FindByRequirement(ctx, controlID, requirementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// complete marks the item complete with the given evidence type.
func (s *checklistService) complete(item *model.ChecklistItem, et model.EvidenceType, actor model.Actor, now time.Time) {
	item.EvidenceType = et
	item.IsComplete = true
	item.CompletedAt = &now
	item.CompletedBy = actor.UserName
	item.UpdatedAt = now
}

// cleanup removes a superseded evidence object. Failure must not undo the
// committed state transition, but an orphaned object is worth a loud log.
func (s *checklistService) cleanup(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logJSON("error", "evidence_cleanup_failed", map[string]any{
			"storage_key": key,
			"error":       err.Error(),
		})
	}
}
