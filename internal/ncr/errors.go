package ncr

import "fmt"

// SequenceGenerationError aborts a submission before anything is persisted:
// without a report number no row can be written.
type SequenceGenerationError struct {
	Err error
}

func (e *SequenceGenerationError) Error() string {
	return fmt.Sprintf("could not obtain an NCR number: %v", e.Err)
}

func (e *SequenceGenerationError) Unwrap() error { return e.Err }

// PartialPersistenceError reports a submission where some but not all items
// landed. It is distinct from total failure so the operator knows which
// records exist; the saved items are not retried or rolled back.
type PartialPersistenceError struct {
	NCRNumber string
	Succeeded int
	Total     int
}

func (e *PartialPersistenceError) Error() string {
	return fmt.Sprintf("NCR %s: %d of %d items saved", e.NCRNumber, e.Succeeded, e.Total)
}
