package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchEvent records one queue-backed job dispatch. DedupID carries the
// deduplication key handed to the queue so repeated enqueues of the same
// week/season collapse server-side.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	DedupID      string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
