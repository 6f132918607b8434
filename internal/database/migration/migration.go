package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  control_id   TEXT        NOT NULL,
  title        TEXT        NOT NULL,
  status       TEXT        NOT NULL,
  stamped      BOOLEAN     NOT NULL DEFAULT FALSE,
  version      INT         NOT NULL CHECK (version >= 1),
  revision     INT         NOT NULL DEFAULT 1,
  sig_prepared JSONB,
  sig_reviewed JSONB,
  sig_approved JSONB,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (control_id, version)
);`,
	},
	{
		Name: "create_index_documents_control_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_control_id ON documents (control_id);`,
	},
	{
		Name: "create_table_evidence_forms",
		SQL: `CREATE TABLE IF NOT EXISTS evidence_forms (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  form_no       TEXT        NOT NULL UNIQUE,
  form_type     TEXT        NOT NULL,
  seq           INT         NOT NULL CHECK (seq >= 1),
  control_id    TEXT        NOT NULL,
  status        TEXT        NOT NULL,
  form_data     JSONB,
  sig_requester JSONB,
  sig_reviewer  JSONB,
  sig_approver  JSONB,
  attachments   JSONB,
  history       JSONB,
  rejection     JSONB,
  revision      INT         NOT NULL DEFAULT 1,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (form_type, seq)
);`,
	},
	{
		Name: "create_index_evidence_forms_control_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_evidence_forms_control_id ON evidence_forms (control_id);`,
	},
	{
		Name: "create_table_evidence_checklist",
		SQL: `CREATE TABLE IF NOT EXISTS evidence_checklist (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  control_id       TEXT        NOT NULL,
  requirement_id   INT         NOT NULL,
  requirement_name TEXT        NOT NULL,
  is_required      BOOLEAN     NOT NULL,
  is_complete      BOOLEAN     NOT NULL DEFAULT FALSE,
  evidence_type    TEXT        NOT NULL DEFAULT '',
  file_meta        JSONB,
  form_ref         JSONB,
  completed_at     TIMESTAMPTZ,
  completed_by     TEXT,
  revision         INT         NOT NULL DEFAULT 1,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (control_id, requirement_id)
);`,
	},
	{
		Name: "create_table_activity_log",
		SQL: `CREATE TABLE IF NOT EXISTS activity_log (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  actor_id    TEXT        NOT NULL,
  actor_name  TEXT        NOT NULL,
  action      TEXT        NOT NULL,
  entity_type TEXT        NOT NULL,
  entity_id   TEXT        NOT NULL,
  entity_name TEXT        NOT NULL,
  description TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_activity_log_entity",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activity_log_entity ON activity_log (entity_type, entity_id);`,
	},
	{
		Name: "create_index_activity_log_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activity_log_created_at ON activity_log (created_at);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
