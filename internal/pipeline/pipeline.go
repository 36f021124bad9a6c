// Package pipeline orchestrates one lead sync run: fetch, map, filter,
// dedupe, write, deliver, commit.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leads-cli/internal/mapper"
	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/internal/rules"
	"github.com/sells-group/leads-cli/internal/store"
	"github.com/sells-group/leads-cli/internal/tracker"
	"github.com/sells-group/leads-cli/pkg/dodge"
)

// DatasetWriter writes the emitted batch to an xlsx artifact.
type DatasetWriter interface {
	Write(leads []*model.Lead) (string, error)
}

// Uploader is the primary delivery target. Its failure fails the run
// before the seen-set commit.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

// Deliverer pushes emitted leads into a CRM. Secondary, best-effort.
type Deliverer interface {
	Deliver(ctx context.Context, leads []*model.Lead) error
}

// AuditLogger records the finished run externally. Secondary, best-effort.
type AuditLogger interface {
	LogRun(ctx context.Context, run *model.Run) error
}

// Options tune a single run.
type Options struct {
	DaysBack int
	// DryRun writes the dataset but skips delivery and the seen-set
	// commit, so the same projects surface again next run.
	DryRun bool
}

// Pipeline wires the sync stages together. The uploader, deliverer and
// audit logger may each be nil when that sink is disabled.
type Pipeline struct {
	dodge   dodge.Client
	mapper  *mapper.Mapper
	rules   *rules.RuleSet
	store   store.Store
	writer  DatasetWriter
	ftp     Uploader
	crm     Deliverer
	audit   AuditLogger
	now     func() time.Time
}

// New creates a Pipeline with all dependencies.
func New(
	dodgeClient dodge.Client,
	m *mapper.Mapper,
	ruleSet *rules.RuleSet,
	st store.Store,
	writer DatasetWriter,
	ftp Uploader,
	crm Deliverer,
	audit AuditLogger,
) *Pipeline {
	return &Pipeline{
		dodge:  dodgeClient,
		mapper: m,
		rules:  ruleSet,
		store:  st,
		writer: writer,
		ftp:    ftp,
		crm:    crm,
		audit:  audit,
		now:    time.Now,
	}
}

// Run executes one full sync run and returns its persisted record.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*model.Run, error) {
	if opts.DaysBack <= 0 {
		opts.DaysBack = 1
	}

	log := zap.L().With(zap.Int("days_back", opts.DaysBack), zap.Bool("dry_run", opts.DryRun))
	log.Info("pipeline: starting sync run")

	run, err := p.store.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result := &model.RunResult{}

	fail := func(err error, msg string) (*model.Run, error) {
		wrapped := eris.Wrap(err, msg)
		result.Error = wrapped.Error()
		if failErr := p.store.FailRun(ctx, run.ID, result); failErr != nil {
			log.Warn("pipeline: failed to record run failure", zap.Error(failErr))
		}
		run.Status = model.RunStatusFailed
		run.Result = result
		return run, wrapped
	}

	// Fetch. Only the categories the rule set includes are worth asking
	// the API for; everything else would be filtered out anyway.
	max := p.now()
	criteria := dodge.SearchCriteria{
		ProjectTypes: p.rules.Included(),
		PublishedMin: max.AddDate(0, 0, -opts.DaysBack),
		PublishedMax: max,
	}
	raws, err := p.dodge.Search(ctx, criteria)
	if err != nil {
		return fail(err, "pipeline: dodge search")
	}
	result.Fetched = len(raws)
	log.Info("pipeline: fetched projects", zap.Int("count", len(raws)))

	// Map and filter.
	kept := make([]model.Lead, 0, len(raws))
	for _, lead := range p.mapper.MapAll(raws) {
		d := p.rules.Decide(lead.OpportunityType)
		if !d.Keep {
			result.FilteredOut++
			continue
		}
		lead.IndustryCode = d.IndustryCode
		lead.MarketSegmentCode = d.SegmentCode
		kept = append(kept, lead)
	}

	// Dedupe against all prior runs.
	seenIDs, err := p.store.LoadSeen(ctx)
	if err != nil {
		return fail(err, "pipeline: load seen set")
	}
	newLeads, _, duplicates := tracker.Partition(kept, tracker.NewSet(seenIDs))
	result.Duplicates = duplicates
	result.Emitted = len(newLeads)
	log.Info("pipeline: partitioned leads",
		zap.Int("kept", len(kept)),
		zap.Int("duplicates", duplicates),
		zap.Int("emitted", len(newLeads)))

	// Write the dataset artifact.
	batch := leadPtrs(newLeads)
	path, err := p.writer.Write(batch)
	if err != nil {
		return fail(err, "pipeline: write dataset")
	}
	result.OutputFile = path

	if opts.DryRun {
		log.Info("pipeline: dry run, skipping delivery and commit", zap.String("output", path))
		return p.complete(ctx, log, run, result)
	}

	// Primary delivery gates the commit: if the drop fails, nothing is
	// marked seen and the next run retries the same projects.
	if p.ftp != nil {
		if err := p.ftp.Upload(ctx, path); err != nil {
			return fail(err, "pipeline: ftp upload")
		}
		result.FTPDelivered = true
	}

	if err := p.store.AddSeen(ctx, newIDs(newLeads)); err != nil {
		return fail(err, "pipeline: commit seen set")
	}

	p.deliverSecondary(ctx, log, run, result, batch)

	return p.complete(ctx, log, run, result)
}

// deliverSecondary runs the best-effort sinks in parallel. Failures are
// logged and reflected in the per-sink result flags, never in the run
// status.
func (p *Pipeline) deliverSecondary(ctx context.Context, log *zap.Logger, run *model.Run, result *model.RunResult, batch []*model.Lead) {
	auditRun := &model.Run{
		ID:        run.ID,
		Status:    model.RunStatusComplete,
		Result:    result,
		StartedAt: run.StartedAt,
	}

	g, gctx := errgroup.WithContext(ctx)
	if p.crm != nil {
		g.Go(func() error {
			if err := p.crm.Deliver(gctx, batch); err != nil {
				log.Warn("pipeline: salesforce delivery failed", zap.Error(err))
				return nil
			}
			result.SFDelivered = true
			return nil
		})
	}
	if p.audit != nil {
		g.Go(func() error {
			if err := p.audit.LogRun(gctx, auditRun); err != nil {
				log.Warn("pipeline: audit log failed", zap.Error(err))
				return nil
			}
			result.AuditLogged = true
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) complete(ctx context.Context, log *zap.Logger, run *model.Run, result *model.RunResult) (*model.Run, error) {
	if err := p.store.CompleteRun(ctx, run.ID, result); err != nil {
		return nil, eris.Wrap(err, "pipeline: complete run")
	}
	run.Status = model.RunStatusComplete
	run.Result = result
	log.Info("pipeline: run complete",
		zap.Int("fetched", result.Fetched),
		zap.Int("filtered_out", result.FilteredOut),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("emitted", result.Emitted),
		zap.String("output", result.OutputFile))
	return run, nil
}

func leadPtrs(leads []model.Lead) []*model.Lead {
	out := make([]*model.Lead, len(leads))
	for i := range leads {
		out[i] = &leads[i]
	}
	return out
}

// newIDs collects the report numbers to mark seen. Leads without one
// were emitted but cannot be tracked.
func newIDs(leads []model.Lead) []string {
	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		if l.DRNumber != "" {
			ids = append(ids, l.DRNumber)
		}
	}
	return ids
}
