package driver

// ProgressStatus reports whether a file check started or finished.
type ProgressStatus int

const (
	// ProgressStart indicates that a file's check has begun.
	ProgressStart ProgressStatus = iota
	ProgressDone
)

// ProgressEvent describes a file boundary during a directory check.
// Index is the position of the file in the sorted work list, Total the
// list length. Errors and Cached are only meaningful for ProgressDone.
type ProgressEvent struct {
	Path   string
	Index  int
	Total  int
	Status ProgressStatus
	Errors int
	Cached bool
}

// ProgressFunc receives progress events emitted during CheckDir. The
// sink is called from worker goroutines and must be safe for
// concurrent use.
type ProgressFunc func(ProgressEvent)
