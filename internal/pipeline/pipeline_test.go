package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leads-cli/internal/mapper"
	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/internal/rules"
	"github.com/sells-group/leads-cli/pkg/dodge"
)

// fakeDodge returns a canned feed.
type fakeDodge struct {
	projects []dodge.Project
	criteria dodge.SearchCriteria
	err      error
}

func (f *fakeDodge) Search(_ context.Context, criteria dodge.SearchCriteria) ([]dodge.Project, error) {
	f.criteria = criteria
	return f.projects, f.err
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	seen       []string
	added      []string
	runs       []*model.Run
	completed  map[string]*model.RunResult
	failed     map[string]*model.RunResult
	loadErr    error
	addErr     error
	createErr  error
}

func newFakeStore(seen ...string) *fakeStore {
	return &fakeStore{
		seen:      seen,
		completed: make(map[string]*model.RunResult),
		failed:    make(map[string]*model.RunResult),
	}
}

func (f *fakeStore) LoadSeen(_ context.Context) ([]string, error) { return f.seen, f.loadErr }

func (f *fakeStore) AddSeen(_ context.Context, ids []string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, ids...)
	return nil
}

func (f *fakeStore) CreateRun(_ context.Context) (*model.Run, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	run := &model.Run{ID: uuid.NewString(), Status: model.RunStatusRunning}
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeStore) CompleteRun(_ context.Context, runID string, result *model.RunResult) error {
	f.completed[runID] = result
	return nil
}

func (f *fakeStore) FailRun(_ context.Context, runID string, result *model.RunResult) error {
	f.failed[runID] = result
	return nil
}

func (f *fakeStore) ListRuns(_ context.Context, _ int) ([]model.Run, error) { return nil, nil }
func (f *fakeStore) Migrate(_ context.Context) error                        { return nil }
func (f *fakeStore) Close() error                                           { return nil }

type fakeWriter struct {
	batch []*model.Lead
	err   error
}

func (f *fakeWriter) Write(leads []*model.Lead) (string, error) {
	f.batch = leads
	if f.err != nil {
		return "", f.err
	}
	return "/out/leads_20260315_093000.xlsx", nil
}

type fakeUploader struct {
	path string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, path string) error {
	f.path = path
	return f.err
}

type fakeDeliverer struct {
	batch []*model.Lead
	err   error
}

func (f *fakeDeliverer) Deliver(_ context.Context, leads []*model.Lead) error {
	f.batch = leads
	return f.err
}

type fakeAudit struct {
	run *model.Run
	err error
}

func (f *fakeAudit) LogRun(_ context.Context, run *model.Run) error {
	f.run = run
	return f.err
}

// project builds a minimal raw feed entry with the fields the mapping
// pipeline keys on.
func project(drNumber, name, primaryType string) dodge.Project {
	return dodge.Project{
		"value": map[string]any{
			"summary": map[string]any{"dodgeReportNumber": drNumber},
			"data": map[string]any{
				"projectName": name,
				"types": []any{
					map[string]any{"primary": "Y", "value": primaryType},
				},
			},
		},
	}
}

func testRules() *rules.RuleSet {
	return rules.New(map[string]rules.Rule{
		"Hospital": {Include: true, IndustryCode: "IND-01", SegmentCode: "SEG-01"},
		"Casino":   {Include: false},
	})
}

func newTestPipeline(fd *fakeDodge, fs *fakeStore, fw *fakeWriter, up Uploader, crm Deliverer, audit AuditLogger) *Pipeline {
	return New(fd, mapper.New(mapper.Constants{}), testRules(), fs, fw, up, crm, audit)
}

func TestRun_FullFlow(t *testing.T) {
	fd := &fakeDodge{projects: []dodge.Project{
		project("1001", "Riverside Hospital", "Hospital"),
		project("1002", "Lucky Star Casino", "Casino"),
		project("1003", "County Clinic", "Hospital"),
		project("1001", "Riverside Hospital", "Hospital"), // same-feed duplicate
	}}
	fs := newFakeStore("1003")
	fw := &fakeWriter{}
	up := &fakeUploader{}
	crm := &fakeDeliverer{}
	audit := &fakeAudit{}

	p := newTestPipeline(fd, fs, fw, up, crm, audit)
	run, err := p.Run(context.Background(), Options{DaysBack: 2})
	require.NoError(t, err)
	require.NotNil(t, run.Result)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 4, run.Result.Fetched)
	assert.Equal(t, 1, run.Result.FilteredOut) // the casino
	assert.Equal(t, 2, run.Result.Duplicates)  // 1003 cross-run, 1001 repeat
	assert.Equal(t, 1, run.Result.Emitted)
	assert.True(t, run.Result.FTPDelivered)
	assert.True(t, run.Result.SFDelivered)
	assert.True(t, run.Result.AuditLogged)

	// Search criteria come from the included rule categories.
	assert.ElementsMatch(t, []string{"Hospital"}, fd.criteria.ProjectTypes)

	// Rule codes are stamped onto the kept lead.
	require.Len(t, fw.batch, 1)
	assert.Equal(t, "Riverside Hospital", fw.batch[0].Name)
	assert.Equal(t, "IND-01", fw.batch[0].IndustryCode)
	assert.Equal(t, "SEG-01", fw.batch[0].MarketSegmentCode)

	// Only the new lead is committed.
	assert.Equal(t, []string{"1001"}, fs.added)
	assert.Equal(t, "/out/leads_20260315_093000.xlsx", up.path)
	require.NotNil(t, fs.completed[run.ID])
	require.NotNil(t, audit.run)
	assert.Equal(t, model.RunStatusComplete, audit.run.Status)
}

func TestRun_DryRunSkipsDeliveryAndCommit(t *testing.T) {
	fd := &fakeDodge{projects: []dodge.Project{project("1001", "Riverside Hospital", "Hospital")}}
	fs := newFakeStore()
	fw := &fakeWriter{}
	up := &fakeUploader{}
	crm := &fakeDeliverer{}

	p := newTestPipeline(fd, fs, fw, up, crm, nil)
	run, err := p.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 1, run.Result.Emitted)
	assert.Empty(t, fs.added)
	assert.Empty(t, up.path)
	assert.Nil(t, crm.batch)
	// The artifact is still written for inspection.
	assert.NotEmpty(t, run.Result.OutputFile)
}

func TestRun_SearchFailureFailsRun(t *testing.T) {
	fd := &fakeDodge{err: errors.New("api down")}
	fs := newFakeStore()

	p := newTestPipeline(fd, fs, &fakeWriter{}, nil, nil, nil)
	run, err := p.Run(context.Background(), Options{})
	require.Error(t, err)

	assert.Equal(t, model.RunStatusFailed, run.Status)
	require.Len(t, fs.runs, 1)
	require.NotNil(t, fs.failed[run.ID])
	assert.Contains(t, fs.failed[run.ID].Error, "dodge search")
	assert.Empty(t, fs.added)
}

func TestRun_FTPFailureBlocksCommit(t *testing.T) {
	fd := &fakeDodge{projects: []dodge.Project{project("1001", "Riverside Hospital", "Hospital")}}
	fs := newFakeStore()
	up := &fakeUploader{err: errors.New("connection refused")}
	crm := &fakeDeliverer{}

	p := newTestPipeline(fd, fs, &fakeWriter{}, up, crm, nil)
	run, err := p.Run(context.Background(), Options{})
	require.Error(t, err)

	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.False(t, run.Result.FTPDelivered)
	// Nothing marked seen: the same lead surfaces again next run.
	assert.Empty(t, fs.added)
	assert.Nil(t, crm.batch)
}

func TestRun_SecondaryFailuresTolerated(t *testing.T) {
	fd := &fakeDodge{projects: []dodge.Project{project("1001", "Riverside Hospital", "Hospital")}}
	fs := newFakeStore()
	crm := &fakeDeliverer{err: errors.New("sf down")}
	audit := &fakeAudit{err: errors.New("notion down")}

	p := newTestPipeline(fd, fs, &fakeWriter{}, &fakeUploader{}, crm, audit)
	run, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.True(t, run.Result.FTPDelivered)
	assert.False(t, run.Result.SFDelivered)
	assert.False(t, run.Result.AuditLogged)
	// Commit already happened; secondaries never block it.
	assert.Equal(t, []string{"1001"}, fs.added)
}

func TestRun_NoFTPSinkStillCommits(t *testing.T) {
	fd := &fakeDodge{projects: []dodge.Project{project("1001", "Riverside Hospital", "Hospital")}}
	fs := newFakeStore()

	p := newTestPipeline(fd, fs, &fakeWriter{}, nil, nil, nil)
	run, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.False(t, run.Result.FTPDelivered)
	assert.Equal(t, []string{"1001"}, fs.added)
}

func TestRun_WriteFailureFailsRun(t *testing.T) {
	fd := &fakeDodge{projects: []dodge.Project{project("1001", "Riverside Hospital", "Hospital")}}
	fs := newFakeStore()
	fw := &fakeWriter{err: errors.New("disk full")}

	p := newTestPipeline(fd, fs, fw, nil, nil, nil)
	_, err := p.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write dataset")
	assert.Empty(t, fs.added)
}

func TestRun_EmptyFeed(t *testing.T) {
	fd := &fakeDodge{}
	fs := newFakeStore()
	fw := &fakeWriter{}

	p := newTestPipeline(fd, fs, fw, nil, nil, nil)
	run, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 0, run.Result.Fetched)
	assert.Equal(t, 0, run.Result.Emitted)
	// Header-only artifact still produced.
	assert.NotNil(t, fw.batch)
	assert.Len(t, fw.batch, 0)
}
