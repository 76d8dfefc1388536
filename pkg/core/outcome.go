package core

// Status classifies the result of one provisioning step.
type Status int

const (
	// StatusUnknown is the zero value; a finished step never reports it.
	StatusUnknown Status = iota

	// StatusExisted means the entity was already present before this run.
	StatusExisted

	// StatusCreated means the entity was absent immediately before this run
	// created it.
	StatusCreated

	// StatusFailed means creation was attempted and did not succeed. The
	// failure is recorded, never raised.
	StatusFailed

	// StatusSkipped means the step did not run at all. Table provisioning
	// reports it when the database step did not end in StatusCreated.
	StatusSkipped
)

// String returns the operator-facing form of the status.
func (s Status) String() string {
	switch s {
	case StatusExisted:
		return "exists"
	case StatusCreated:
		return "created"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// EntityKind names the kind of entity a provisioning step targets.
type EntityKind string

const (
	EntityDatabase EntityKind = "database"
	EntityTable    EntityKind = "table"
)

// Outcome is the per-step provisioning record consumed by the caller.
type Outcome struct {
	Entity EntityKind
	Name   string
	Status Status

	// Err carries the underlying cause when Status is StatusFailed.
	Err error
}

// Created reports whether this run created the entity.
func (o Outcome) Created() bool { return o.Status == StatusCreated }

// Failed reports whether provisioning of the entity failed.
func (o Outcome) Failed() bool { return o.Status == StatusFailed }

// Report bundles the two provisioning outcomes of one initialization run.
type Report struct {
	SessionID string
	Database  Outcome
	Table     Outcome
}
