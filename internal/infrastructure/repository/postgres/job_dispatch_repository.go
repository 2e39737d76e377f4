package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/gridiron-fantasy/internal/platform/querybuilder"
)

// JobDispatchRepository keeps one row per dispatch and folds lifecycle events
// into status-specific columns, so a completed job keeps its sent trace.
type JobDispatchRepository struct {
	db *sqlx.DB
}

var jobDispatchSelectColumns = []string{
	"id",
	"dispatch_id",
	"job_name",
	"job_path",
	"dedup_id",
	"payload",
	"status",
	"sent_at",
	"completed_at",
	"failed_at",
	"last_error",
	"sent_trace_id",
	"sent_span_id",
	"completed_trace_id",
	"completed_span_id",
	"failed_trace_id",
	"failed_span_id",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return fmt.Errorf("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	jobPath := strings.TrimSpace(event.JobPath)
	if jobPath == "" {
		jobPath = "/unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := marshalPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	model := jobDispatchInsertModel{
		DispatchID: dispatchID,
		JobName:    jobName,
		JobPath:    jobPath,
		DedupID:    optionalString(event.DedupID),
		Payload:    payloadJSON,
		Status:     string(event.Status),
		LastError:  optionalString(event.ErrorMessage),
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.SentTraceID = optionalString(event.TraceID)
		model.SentSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.CompletedTraceID = optionalString(event.TraceID)
		model.CompletedSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
		model.FailedTraceID = optionalString(event.TraceID)
		model.FailedSpanID = optionalString(event.SpanID)
	}

	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id) WHERE deleted_at IS NULL
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    job_path = EXCLUDED.job_path,
    dedup_id = COALESCE(EXCLUDED.dedup_id, job_dispatches.dedup_id),
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    sent_at = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_at
        ELSE COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at)
    END,
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    sent_trace_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_trace_id
        ELSE job_dispatches.sent_trace_id
    END,
    sent_span_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_span_id
        ELSE job_dispatches.sent_span_id
    END,
    completed_trace_id = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_trace_id
        ELSE job_dispatches.completed_trace_id
    END,
    completed_span_id = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_span_id
        ELSE job_dispatches.completed_span_id
    END,
    failed_trace_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_trace_id
        ELSE job_dispatches.failed_trace_id
    END,
    failed_span_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_span_id
        ELSE job_dispatches.failed_span_id
    END,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", dispatchID, event.Status, err)
	}

	return nil
}

func (r *JobDispatchRepository) ListRecent(ctx context.Context, limit int) ([]jobscheduler.DispatchEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select(jobDispatchSelectColumns...).From("job_dispatches").
		Where(qb.IsNull("deleted_at")).
		OrderBy("updated_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent job dispatches query: %w", err)
	}

	var rows []jobDispatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent job dispatches: %w", err)
	}

	out := make([]jobscheduler.DispatchEvent, 0, len(rows))
	for _, row := range rows {
		event, err := dispatchEventFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}

func dispatchEventFromRow(row jobDispatchTableModel) (jobscheduler.DispatchEvent, error) {
	event := jobscheduler.DispatchEvent{
		DispatchID:   row.DispatchID,
		JobName:      row.JobName,
		JobPath:      row.JobPath,
		DedupID:      row.DedupID.String,
		Status:       jobscheduler.DispatchStatus(row.Status),
		ErrorMessage: row.LastError.String,
	}

	if strings.TrimSpace(row.Payload) != "" && row.Payload != "{}" {
		payload := make(map[string]any)
		if err := sonic.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return jobscheduler.DispatchEvent{}, fmt.Errorf("unmarshal job dispatch payload dispatch_id=%s: %w", row.DispatchID, err)
		}
		event.Payload = payload
	}

	switch event.Status {
	case jobscheduler.StatusCompleted:
		if row.CompletedAt != nil {
			event.OccurredAt = *row.CompletedAt
		}
		event.TraceID = row.CompletedTraceID.String
		event.SpanID = row.CompletedSpanID.String
	case jobscheduler.StatusFailed:
		if row.FailedAt != nil {
			event.OccurredAt = *row.FailedAt
		}
		event.TraceID = row.FailedTraceID.String
		event.SpanID = row.FailedSpanID.String
	default:
		if row.SentAt != nil {
			event.OccurredAt = *row.SentAt
		}
		event.TraceID = row.SentTraceID.String
		event.SpanID = row.SentSpanID.String
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = row.UpdatedAt
	}

	return event, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
