// Package pipeline orchestrates one fetch → transform → load invocation.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ftplake/internal/domain"
	"ftplake/internal/scratch"
	"ftplake/internal/service/orders"
)

// Runner is the trigger-facing surface of the pipeline. The HTTP push
// handler, the pull subscriber, the cron scheduler, and the CLI all drive
// the same single-shot entry point.
type Runner interface {
	Run(ctx context.Context, command string, attrs map[string]string) domain.Result
}

// Pipeline wires the retriever, loader, and optional collaborators into the
// single-shot state machine. It holds no state across invocations.
type Pipeline struct {
	retriever   domain.Retriever
	loader      domain.Loader
	archiver    domain.Archiver      // nil when archiving is disabled
	runs        domain.RunRepository // nil when the run log is disabled
	scratchBase string
	now         func() time.Time
	logger      *slog.Logger
}

// New creates a pipeline. archiver and runs may be nil.
func New(retriever domain.Retriever, loader domain.Loader, archiver domain.Archiver,
	runs domain.RunRepository, scratchBase string, logger *slog.Logger) *Pipeline {

	return &Pipeline{
		retriever:   retriever,
		loader:      loader,
		archiver:    archiver,
		runs:        runs,
		scratchBase: scratchBase,
		now:         time.Now,
		logger:      logger,
	}
}

// SetClock overrides the wall clock used to derive "yesterday". Tests only.
func (p *Pipeline) SetClock(now func() time.Time) { p.now = now }

// Run executes one invocation: validate the trigger, derive the dated remote
// file, fetch, optionally transform, load, archive, clean up.
//
// A command that is not the sentinel returns an OK no-op without any I/O.
// Every stage failure is caught and reported in the Result with its stage;
// nothing escapes as a panic or an unclassified error.
func (p *Pipeline) Run(ctx context.Context, command string, attrs map[string]string) domain.Result {
	trigger, err := domain.ParseTrigger(command, attrs)
	if err != nil {
		res := domain.Result{Status: domain.StatusFailed, Stage: domain.StageValidate, Err: err}
		p.logger.Error("trigger rejected", "error", err)
		p.record(ctx, command, "", "", res, p.now(), 0)
		return res
	}
	if !trigger.Matches() {
		p.logger.Info("ignoring trigger", "command", command)
		return domain.Result{Status: domain.StatusOK, NoOp: true}
	}

	started := p.now()
	ref := domain.DeriveRemoteFile(trigger.FTP, started)

	res := p.execute(ctx, trigger, ref)
	res.RemoteFile = ref.URL()

	elapsed := time.Since(started)
	if res.OK() {
		p.logger.Info("invocation complete",
			"remote", ref.URL(), "table", trigger.Target.TableRef(),
			"total_rows", res.RowsLoaded, "duration", elapsed)
	} else {
		p.logger.Error("invocation failed",
			"remote", ref.URL(), "table", trigger.Target.TableRef(),
			"stage", string(res.Stage), "error", res.Err)
	}
	p.record(ctx, command, ref.URL(), trigger.Target.TableRef(), res, started, elapsed)
	return res
}

func (p *Pipeline) execute(ctx context.Context, trigger *domain.Trigger, ref domain.RemoteFileRef) domain.Result {
	ws, err := scratch.New(p.scratchBase)
	if err != nil {
		return failed(domain.StageFetch, err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			p.logger.Warn("scratch cleanup failed", "error", err)
		}
	}()

	local, err := p.retriever.Fetch(ctx, trigger.FTP, ref, ws.Dir())
	if err != nil {
		return failed(domain.StageFetch, err)
	}

	var total int64
	switch trigger.Target.Mode {
	case domain.LoadModeTable:
		rows, err := orders.ParseFile(local)
		if err != nil {
			return failed(domain.StageTransform, err)
		}
		total, err = p.loader.LoadRows(ctx, trigger.Target, rows)
		if err != nil {
			return failed(domain.StageLoad, err)
		}
	default:
		total, err = p.loader.LoadFile(ctx, trigger.Target, local)
		if err != nil {
			return failed(domain.StageLoad, err)
		}
	}

	if p.archiver != nil {
		if err := p.archiver.Store(ctx, local, ref.Basename()); err != nil {
			// The load already committed; report the archive stage but keep
			// the row count so the run record stays truthful.
			res := failed(domain.StageArchive, err)
			res.RowsLoaded = total
			return res
		}
	}

	return domain.Result{Status: domain.StatusOK, RowsLoaded: total}
}

// record writes the run-log row. No-op triggers never reach here.
func (p *Pipeline) record(ctx context.Context, command, remote, table string,
	res domain.Result, started time.Time, elapsed time.Duration) {

	if p.runs == nil {
		return
	}
	rec := &domain.RunRecord{
		ID:         uuid.NewString(),
		Command:    command,
		Status:     string(res.Status),
		Stage:      string(res.Stage),
		RemoteFile: remote,
		Table:      table,
		RowsLoaded: res.RowsLoaded,
		StartedAt:  started,
		DurationMs: elapsed.Milliseconds(),
	}
	if res.Err != nil {
		msg := res.Err.Error()
		rec.Error = &msg
	}
	if err := p.runs.Insert(ctx, rec); err != nil {
		p.logger.Warn("run log insert failed", "error", err)
	}
}

func failed(stage domain.Stage, err error) domain.Result {
	return domain.Result{Status: domain.StatusFailed, Stage: stage, Err: err}
}

var _ Runner = (*Pipeline)(nil)
