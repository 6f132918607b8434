package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

var activityCols = []string{
	"id", "actor_id", "actor_name", "action", "entity_type", "entity_id",
	"entity_name", "description", "created_at",
}

func TestActivityPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()

	act := &model.Activity{
		ID:          "act-1",
		ActorID:     "u-1",
		ActorName:   "Ani Lestari",
		Action:      "signed_prepared",
		EntityType:  "document",
		EntityID:    "doc-1",
		EntityName:  "Incident Management Procedure",
		Description: "Ani Lestari signed as prepared",
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO activity_log").
		WithArgs(act.ID, act.ActorID, act.ActorName, act.Action, act.EntityType,
			act.EntityID, act.EntityName, act.Description, act.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx, act)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("filtered by entity", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("document", "doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(activityCols).
			AddRow("act-2", "u-2", "Budi Santoso", "signed_reviewed", "document", "doc-1",
				"Incident Management Procedure", "Budi Santoso signed as reviewed", now).
			AddRow("act-1", "u-1", "Ani Lestari", "signed_prepared", "document", "doc-1",
				"Incident Management Procedure", "Ani Lestari signed as prepared", now.Add(-time.Minute))

		mock.ExpectQuery("SELECT (.+) FROM activity_log").
			WithArgs("document", "doc-1", 20, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, "document", "doc-1", repository.PageQuery{Limit: 20, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, "act-2", res.Items[0].ID)
		assert.Equal(t, "signed_reviewed", res.Items[0].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unfiltered with empty page", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("", "").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM activity_log").
			WithArgs("", "", 20, 0).
			WillReturnRows(sqlmock.NewRows(activityCols))

		res, err := repo.List(ctx, "", "", repository.PageQuery{Limit: 20, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("form", "").
			WillReturnError(errors.New("db down"))

		res, err := repo.List(ctx, "form", "", repository.PageQuery{Limit: 20, Offset: 0})

		assert.Error(t, err)
		assert.Nil(t, res)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
