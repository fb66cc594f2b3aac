package errors

import "errors"

// Repository-level sentinels shared by every store implementation.
var (
	// ErrOptimisticLock the row was modified by another writer since it was read.
	ErrOptimisticLock = errors.New("record was modified concurrently, reload and retry")
	// ErrCapacityReached a capped insert or activation found no free slot.
	ErrCapacityReached = errors.New("capacity reached")
	// ErrDuplicate a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleState a compare-and-set did not find the expected prior state.
	ErrStaleState = errors.New("record is no longer in the expected state")
	// ErrLocked the parent record is frozen against further changes.
	ErrLocked = errors.New("record is locked")
	// ErrOutOfBounds an aggregate count fell outside its allowed range.
	ErrOutOfBounds = errors.New("count outside allowed bounds")
	// ErrConflictingEntry the user already takes part through another entry.
	ErrConflictingEntry = errors.New("user already holds a conflicting entry")
)
