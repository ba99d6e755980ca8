// Package audit appends administrative change entries to the audit_log
// table. Entries are write-once: nothing in this package updates or deletes
// a row after it is inserted.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Action values accepted by the audit_log check constraint.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Entry describes one audited change.
type Entry struct {
	TableName string
	RecordID  int64
	Action    string
	OldValues interface{}
	NewValues interface{}
	ChangedBy int64 // admin_id of the acting admin, 0 when not admin-driven
}

// RecorderInterface defines the contract for audit logging
type RecorderInterface interface {
	Record(ctx context.Context, entry Entry) error
}

// Recorder writes audit entries to Postgres.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a new audit recorder
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

var _ RecorderInterface = (*Recorder)(nil)

// Record appends one entry. Failures are reported but callers typically log
// and continue: an audit miss must not roll back the audited operation's
// response once the operation itself committed.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	oldJSON, err := marshalValues(entry.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal old values: %w", err)
	}
	newJSON, err := marshalValues(entry.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal new values: %w", err)
	}

	var changedBy sql.NullInt64
	if entry.ChangedBy != 0 {
		changedBy = sql.NullInt64{Int64: entry.ChangedBy, Valid: true}
	}

	query := `
		INSERT INTO audit_log (table_name, record_id, action, old_values, new_values, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.TableName,
		entry.RecordID,
		entry.Action,
		oldJSON,
		newJSON,
		changedBy,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	log.Printf("Audit: %s %s record %d", entry.Action, entry.TableName, entry.RecordID)
	return nil
}

func marshalValues(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
