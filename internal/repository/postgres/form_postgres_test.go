package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

var formCols = []string{
	"id", "form_no", "form_type", "seq", "control_id", "status", "form_data",
	"sig_requester", "sig_reviewer", "sig_approver", "attachments", "history", "rejection",
	"revision", "created_at", "updated_at",
}

func TestEvidenceFormPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEvidenceFormPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	form := &model.EvidenceForm{
		ID:        "test-uuid",
		FormType:  "incident_report",
		ControlID: "4.9.3",
		Status:    model.FormDraft,
		FormData:  json.RawMessage(`{"severity":"high"}`),
		History:   []model.FormHistoryEntry{{Action: "created", PerformedAt: now}},
		CreatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(seq\\), 0\\) \\+ 1 FROM evidence_forms").
		WithArgs("incident_report").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(4))

	rows := sqlmock.NewRows(formCols).
		AddRow(form.ID, "INCIDENT_REPORT-00004", form.FormType, 4, form.ControlID, string(form.Status),
			[]byte(form.FormData), nil, nil, nil, nil, []byte(`[{"action":"created"}]`), nil, 1, now, now)

	mock.ExpectQuery("INSERT INTO evidence_forms").
		WillReturnRows(rows)
	mock.ExpectCommit()

	result, err := repo.Create(ctx, form)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "INCIDENT_REPORT-00004", result.FormNo)
	assert.Equal(t, 4, result.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvidenceFormPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEvidenceFormPostgres(db)
	ctx := context.Background()

	rejection, _ := json.Marshal(model.FormRejection{Role: "reviewer", Reason: "incomplete"})
	sig, _ := json.Marshal(model.Signature{UserID: "u-1"})
	rows := sqlmock.NewRows(formCols).
		AddRow("test-id", "INCIDENT_REPORT-00004", "incident_report", 4, "4.9.3", "rejected",
			[]byte(`{}`), sig, nil, nil, nil, []byte(`[]`), rejection, 2, time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM evidence_forms WHERE id = ?").
		WithArgs("test-id").
		WillReturnRows(rows)

	form, err := repo.FindByID(ctx, "test-id")

	assert.NoError(t, err)
	assert.NotNil(t, form)
	assert.Equal(t, model.FormRejected, form.Status)
	assert.NotNil(t, form.Signatures[0])
	assert.NotNil(t, form.Rejection)
	assert.Equal(t, "reviewer", form.Rejection.Role)
}

func TestEvidenceFormPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEvidenceFormPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM evidence_forms").
		WithArgs("4.9.3", "incident_report").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(formCols).
		AddRow("test-id", "INCIDENT_REPORT-00001", "incident_report", 1, "4.9.3", "draft",
			nil, nil, nil, nil, nil, nil, nil, 1, time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM evidence_forms").
		WithArgs("4.9.3", "incident_report", 10, 0).
		WillReturnRows(rows)

	res, err := repo.List(ctx, "4.9.3", "incident_report", repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestEvidenceFormPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEvidenceFormPostgres(db)
	ctx := context.Background()

	form := &model.EvidenceForm{
		ID:       "test-id",
		Status:   model.FormPendingReview,
		Revision: 1,
		Signatures: model.SignatureSet{
			{UserID: "u-1"},
			nil,
			nil,
		},
		History:   []model.FormHistoryEntry{{Action: "signed_requester"}},
		UpdatedAt: time.Now().UTC(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE evidence_forms").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, form)

		assert.NoError(t, err)
		assert.Equal(t, 2, form.Revision)
	})

	t.Run("stale revision", func(t *testing.T) {
		mock.ExpectExec("UPDATE evidence_forms").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, form)

		assert.ErrorIs(t, err, repository.ErrRevisionConflict)
	})
}
