package service

import (
	"github.com/gametrans/batchloc/internal/processor"
)

// Operation names one kind of batch run. Each operation gets its own
// concurrency/retry tuning; the processor itself stays generic.
type Operation string

const (
	// OpTranslate drives translation calls against the external provider.
	OpTranslate Operation = "translate"
	// OpExport writes translated output files.
	OpExport Operation = "export"
	// OpStatus refreshes lightweight per-file state.
	OpStatus Operation = "status"
)

// policies maps each operation to its tuning. Translation is the
// expensive, flaky one: modest parallelism, patient retries. Export
// touches the filesystem serially. Status checks are cheap and wide.
var policies = map[Operation]processor.Options{
	OpTranslate: {Concurrency: 2, RetryAttempts: 3},
	OpExport:    {Concurrency: 1, RetryAttempts: 1},
	OpStatus:    {Concurrency: 5, RetryAttempts: 2},
}

// PolicyFor returns the tuning for an operation, with unset fields left
// to the processor defaults. Unknown operations get the defaults
// entirely.
func PolicyFor(op Operation) processor.Options {
	return policies[op]
}
