package services

// EditState tracks one optimistic field edit through its lifecycle.
type EditState int

const (
	EditClean EditState = iota
	EditPending
	EditCommitted
	EditRolledBack
)

func (s EditState) String() string {
	switch s {
	case EditClean:
		return "clean"
	case EditPending:
		return "pending"
	case EditCommitted:
		return "committed"
	case EditRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// FieldEdit is an optimistic single-field edit. The UI applies the new
// value immediately, then either commits when the save succeeds or rolls
// back to the previous value when it does not.
type FieldEdit[T any] struct {
	state EditState
	prev  T
	next  T
}

// Begin records the transition and enters the pending state.
func (e *FieldEdit[T]) Begin(prev, next T) {
	e.prev, e.next = prev, next
	e.state = EditPending
}

func (e *FieldEdit[T]) Commit() {
	if e.state == EditPending {
		e.state = EditCommitted
	}
}

// Rollback returns the value to restore. Only meaningful while pending.
func (e *FieldEdit[T]) Rollback() T {
	if e.state == EditPending {
		e.state = EditRolledBack
	}
	return e.prev
}

func (e *FieldEdit[T]) State() EditState { return e.state }
func (e *FieldEdit[T]) Value() T         { return e.next }
