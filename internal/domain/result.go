package domain

// Status is the two-valued outcome reported to the trigger system.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Stage names the pipeline stage an invocation reached or failed in.
type Stage string

const (
	StageNone      Stage = ""
	StageValidate  Stage = "validate"
	StageFetch     Stage = "fetch"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
	StageArchive   Stage = "archive"
)

// Result is the structured outcome of one invocation. The source system only
// distinguished "ok" and "failed" and let transform/load failures escape
// unhandled; here every stage failure is caught and reported with its stage.
type Result struct {
	Status     Status
	Stage      Stage // failing stage, or StageNone
	NoOp       bool  // true when the command did not match the sentinel
	RemoteFile string
	RowsLoaded int64 // total table rows after a successful load
	Err        error
}

// OK reports a no-op or fully successful invocation.
func (r Result) OK() bool { return r.Status == StatusOK }
