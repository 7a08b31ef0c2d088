package domain

import "time"

// ProgressEvent is a single checkpoint update emitted while an import runs.
// Progress is a percentage in [0, 100]. Events are ephemeral: they are only
// seen by subscribers connected at broadcast time.
type ProgressEvent struct {
	Step     string `json:"step"`
	Progress int    `json:"progress"`
}

// EventLogEntry is one record of the append-only import audit log. Entries
// are never mutated or deleted once written.
type EventLogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Details   map[string]any `json:"details"`
}
