package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"complyapi/internal/catalog"
	"complyapi/internal/model"
	repoMocks "complyapi/internal/repository/mocks"
	"complyapi/internal/storage"
	storageMocks "complyapi/internal/storage/mocks"
)

func checklistItem() *model.ChecklistItem {
	return &model.ChecklistItem{
		ID:              "item-1",
		ControlID:       "4.9.3",
		RequirementID:   1,
		RequirementName: "Incident report form",
		IsRequired:      true,
	}
}

func newChecklistService(repo *repoMocks.MockChecklistRepository, forms *repoMocks.MockEvidenceFormRepository, store *storageMocks.MockStorage, audit *stubAudit) ChecklistService {
	cat, _ := catalog.Load("")
	return NewChecklistService(repo, forms, store, cat, audit)
}

func TestChecklistService_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts one item per catalog requirement", func(t *testing.T) {
		mRepo := new(repoMocks.MockChecklistRepository)
		var upserted []int
		mRepo.On("UpsertAbsent", ctx, mock.MatchedBy(func(it *model.ChecklistItem) bool {
			upserted = append(upserted, it.RequirementID)
			return it.ControlID == "4.9.3" && !it.IsComplete
		})).Return(nil).Times(3)
		mRepo.On("ListByControl", ctx, "4.9.3").Return([]model.ChecklistItem{
			*checklistItem(),
		}, nil)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})

		items, err := svc.Initialize(ctx, "4.9.3")

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, []int{1, 2, 3}, upserted)
		mRepo.AssertExpectations(t)
	})

	t.Run("control with no catalog requirements yields empty list", func(t *testing.T) {
		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("ListByControl", ctx, "5.2.1").Return([]model.ChecklistItem{}, nil)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
		items, err := svc.Initialize(ctx, "5.2.1")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid control id", func(t *testing.T) {
		svc := newChecklistService(new(repoMocks.MockChecklistRepository), new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.Initialize(ctx, "abc")
		assert.ErrorIs(t, err, catalog.ErrInvalidControlID)
	})
}

func TestChecklistService_AttachFile(t *testing.T) {
	ctx := context.Background()
	content := strings.NewReader("report bytes")

	t.Run("completes the item and clears any linked form", func(t *testing.T) {
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceLink
		item.Form = &model.ChecklistFormRef{FormID: "form-9"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(item, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(it *model.ChecklistItem) bool {
			return it.IsComplete && it.EvidenceType == model.EvidenceFile &&
				it.Form == nil && it.File != nil && it.File.FileName == "report.pdf" &&
				it.CompletedBy == testActor.UserName && it.CompletedAt != nil
		})).Return(nil)

		mStore := new(storageMocks.MockStorage)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "evidence/4.9.3/") && strings.HasSuffix(key, ".pdf")
		}), content, mock.Anything).Return(storage.ObjectInfo{Key: "evidence/4.9.3/x.pdf", Size: 12, ContentType: "application/pdf"}, nil)

		audit := &stubAudit{}
		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, audit)

		got, err := svc.AttachFile(ctx, "4.9.3", 1, content, "report.pdf", "application/pdf", 12, "q3 incident", testActor)

		require.NoError(t, err)
		assert.Nil(t, got.Form)
		assert.Equal(t, model.EvidenceFile, got.EvidenceType)
		assert.Equal(t, []string{"evidence_file_attached"}, audit.actions)
		mRepo.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("replacing a file deletes the old object only after the save", func(t *testing.T) {
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceFile
		item.File = &model.ChecklistFile{FileName: "old.pdf", StoragePath: "evidence/4.9.3/old.pdf"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(item, nil)

		mStore := new(storageMocks.MockStorage)
		saved := false
		mRepo.On("Update", ctx, mock.Anything).Run(func(mock.Arguments) { saved = true }).Return(nil)
		mStore.On("Put", ctx, mock.Anything, content, mock.Anything).Return(storage.ObjectInfo{Key: "evidence/4.9.3/new.pdf"}, nil)
		mStore.On("Delete", ctx, "evidence/4.9.3/old.pdf").Run(func(mock.Arguments) {
			assert.True(t, saved, "old object must outlive the uncommitted update")
		}).Return(nil)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, &stubAudit{})

		got, err := svc.AttachFile(ctx, "4.9.3", 1, content, "new.pdf", "application/pdf", 12, "", testActor)

		require.NoError(t, err)
		assert.Equal(t, "evidence/4.9.3/new.pdf", got.File.StoragePath)
		mStore.AssertExpectations(t)
	})

	t.Run("cleanup failure does not fail the attach", func(t *testing.T) {
		item := checklistItem()
		item.File = &model.ChecklistFile{StoragePath: "evidence/4.9.3/old.pdf"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(item, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil)

		mStore := new(storageMocks.MockStorage)
		mStore.On("Put", ctx, mock.Anything, content, mock.Anything).Return(storage.ObjectInfo{Key: "evidence/4.9.3/new.pdf"}, nil)
		mStore.On("Delete", ctx, "evidence/4.9.3/old.pdf").Return(errors.New("bucket unreachable"))

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, &stubAudit{})
		_, err := svc.AttachFile(ctx, "4.9.3", 1, content, "new.pdf", "application/pdf", 12, "", testActor)
		assert.NoError(t, err)
	})

	t.Run("db failure rolls back the new object and keeps the old one", func(t *testing.T) {
		item := checklistItem()
		item.File = &model.ChecklistFile{StoragePath: "evidence/4.9.3/old.pdf"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(item, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(errors.New("db down"))

		mStore := new(storageMocks.MockStorage)
		var newKey string
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			newKey = key
			return true
		}), content, mock.Anything).Return(storage.ObjectInfo{Key: "evidence/4.9.3/new.pdf"}, nil)
		mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
			return key == newKey
		})).Return(nil)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, &stubAudit{})
		_, err := svc.AttachFile(ctx, "4.9.3", 1, content, "new.pdf", "application/pdf", 12, "", testActor)

		assert.Error(t, err)
		mStore.AssertNotCalled(t, "Delete", ctx, "evidence/4.9.3/old.pdf")
		mStore.AssertExpectations(t)
	})

	t.Run("missing item", func(t *testing.T) {
		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 9).Return(nil, sql.ErrNoRows)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.AttachFile(ctx, "4.9.3", 9, content, "x.pdf", "application/pdf", 1, "", testActor)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestChecklistService_LinkForm(t *testing.T) {
	ctx := context.Background()

	t.Run("completes the item and removes a superseded file", func(t *testing.T) {
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceFile
		item.File = &model.ChecklistFile{StoragePath: "evidence/4.9.3/old.pdf"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(item, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(it *model.ChecklistItem) bool {
			return it.File == nil && it.Form != nil && it.Form.FormID == "form-1" &&
				it.EvidenceType == model.EvidenceLink && it.IsComplete
		})).Return(nil)

		mForms := new(repoMocks.MockEvidenceFormRepository)
		mForms.On("FindByID", ctx, "form-1").Return(signedForm(3), nil)

		mStore := new(storageMocks.MockStorage)
		mStore.On("Delete", ctx, "evidence/4.9.3/old.pdf").Return(nil)

		audit := &stubAudit{}
		svc := newChecklistService(mRepo, mForms, mStore, audit)

		got, err := svc.LinkForm(ctx, "4.9.3", 1, "form-1", testActor)

		require.NoError(t, err)
		assert.Nil(t, got.File)
		assert.Equal(t, "INCIDENT_REPORT-00004", got.Form.FormTitle)
		assert.Equal(t, []string{"evidence_form_linked"}, audit.actions)
		mStore.AssertExpectations(t)
	})

	t.Run("form from another control", func(t *testing.T) {
		other := signedForm(0)
		other.ControlID = "4.7.2"

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(checklistItem(), nil)
		mForms := new(repoMocks.MockEvidenceFormRepository)
		mForms.On("FindByID", ctx, "form-1").Return(other, nil)

		svc := newChecklistService(mRepo, mForms, new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.LinkForm(ctx, "4.9.3", 1, "form-1", testActor)
		assert.ErrorIs(t, err, ErrFormControlMismatch)
	})

	t.Run("missing form", func(t *testing.T) {
		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByRequirement", ctx, "4.9.3", 1).Return(checklistItem(), nil)
		mForms := new(repoMocks.MockEvidenceFormRepository)
		mForms.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		svc := newChecklistService(mRepo, mForms, new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.LinkForm(ctx, "4.9.3", 1, "ghost", testActor)
		assert.ErrorIs(t, err, ErrFormNotFound)
	})
}

func TestChecklistService_RemoveEvidence(t *testing.T) {
	ctx := context.Background()

	t.Run("resets the item and deletes the stored file", func(t *testing.T) {
		now := time.Now().UTC()
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceFile
		item.File = &model.ChecklistFile{StoragePath: "evidence/4.9.3/old.pdf"}
		item.CompletedAt = &now
		item.CompletedBy = "someone"

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByID", ctx, "item-1").Return(item, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(it *model.ChecklistItem) bool {
			return !it.IsComplete && it.EvidenceType == model.EvidenceNone &&
				it.File == nil && it.Form == nil && it.CompletedAt == nil && it.CompletedBy == ""
		})).Return(nil)

		mStore := new(storageMocks.MockStorage)
		mStore.On("Delete", ctx, "evidence/4.9.3/old.pdf").Return(nil)

		audit := &stubAudit{}
		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, audit)

		got, err := svc.RemoveEvidence(ctx, "item-1", testActor)

		require.NoError(t, err)
		assert.False(t, got.IsComplete)
		assert.Equal(t, []string{"evidence_removed"}, audit.actions)
		mStore.AssertExpectations(t)
	})

	t.Run("linked form needs no storage call", func(t *testing.T) {
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceLink
		item.Form = &model.ChecklistFormRef{FormID: "form-1"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByID", ctx, "item-1").Return(item, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil)

		mStore := new(storageMocks.MockStorage)
		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, &stubAudit{})

		_, err := svc.RemoveEvidence(ctx, "item-1", testActor)
		require.NoError(t, err)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.RemoveEvidence(ctx, "ghost", testActor)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestChecklistService_EvidenceURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns the stored file", func(t *testing.T) {
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceFile
		item.File = &model.ChecklistFile{StoragePath: "evidence/4.9.3/x.pdf"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByID", ctx, "item-1").Return(item, nil)

		mStore := new(storageMocks.MockStorage)
		mStore.On("PresignGet", ctx, "evidence/4.9.3/x.pdf", mock.Anything).
			Return("https://minio.local/evidence/4.9.3/x.pdf?sig=abc", nil)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), mStore, &stubAudit{})
		url, err := svc.EvidenceURL(ctx, "item-1")

		require.NoError(t, err)
		assert.Contains(t, url, "evidence/4.9.3/x.pdf")
		mStore.AssertExpectations(t)
	})

	t.Run("linked form has no file to serve", func(t *testing.T) {
		item := checklistItem()
		item.IsComplete = true
		item.EvidenceType = model.EvidenceLink
		item.Form = &model.ChecklistFormRef{FormID: "form-1"}

		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByID", ctx, "item-1").Return(item, nil)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.EvidenceURL(ctx, "item-1")
		assert.ErrorIs(t, err, ErrNoFileEvidence)
	})

	t.Run("missing item", func(t *testing.T) {
		mRepo := new(repoMocks.MockChecklistRepository)
		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
		_, err := svc.EvidenceURL(ctx, "ghost")
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestChecklistService_Progress(t *testing.T) {
	ctx := context.Background()

	item := func(required, complete bool) model.ChecklistItem {
		return model.ChecklistItem{IsRequired: required, IsComplete: complete}
	}

	tests := []struct {
		name  string
		items []model.ChecklistItem
		want  model.Progress
	}{
		{
			name: "three of five done, two of three required done",
			items: []model.ChecklistItem{
				item(true, true), item(true, true), item(true, false),
				item(false, true), item(false, false),
			},
			want: model.Progress{Total: 5, Completed: 3, Required: 3, RequiredCompleted: 2, Percentage: 60, RequiredPercentage: 67},
		},
		{
			name:  "empty checklist",
			items: []model.ChecklistItem{},
			want:  model.Progress{},
		},
		{
			name:  "no required items keeps required percentage at zero",
			items: []model.ChecklistItem{item(false, true), item(false, true)},
			want:  model.Progress{Total: 2, Completed: 2, Percentage: 100},
		},
		{
			name:  "all complete",
			items: []model.ChecklistItem{item(true, true), item(false, true)},
			want:  model.Progress{Total: 2, Completed: 2, Required: 1, RequiredCompleted: 1, Percentage: 100, RequiredPercentage: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockChecklistRepository)
			mRepo.On("ListByControl", ctx, "4.9.3").Return(tt.items, nil)

			svc := newChecklistService(mRepo, new(repoMocks.MockEvidenceFormRepository), new(storageMocks.MockStorage), &stubAudit{})
			got, err := svc.Progress(ctx, "4.9.3")

			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}
