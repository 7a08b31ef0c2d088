package domain

import "context"

// ProductRepository defines the interface for product persistence. Create
// must be safe for concurrent single-row calls from simultaneous imports.
type ProductRepository interface {
	Create(ctx context.Context, input ProductInput) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, skip, limit int) ([]Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// WorkbookParser parses raw upload bytes into a Workbook.
type WorkbookParser interface {
	Parse(data []byte) (*Workbook, error)
}

// ProgressNotifier broadcasts a progress event to every connected listener.
// Delivery is best-effort and non-propagating: failure to reach any
// individual listener is swallowed and never surfaced to the caller.
type ProgressNotifier interface {
	Broadcast(event ProgressEvent)
}

// EventLog is an append-only audit trail of import runs. Appends from
// concurrent imports must be serialized by the implementation.
type EventLog interface {
	Append(event string, details map[string]any) error
	Entries() ([]EventLogEntry, error)
}
