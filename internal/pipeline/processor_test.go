package pipeline

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/extraction"
	"github.com/mikey/email-reconciler/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	mu      sync.Mutex
	records map[string]*core.MsgEmailRecord
	failOn  string
}

func newMemRepo(recs ...core.MsgEmailRecord) *memRepo {
	r := &memRepo{records: make(map[string]*core.MsgEmailRecord)}
	for i := range recs {
		rec := recs[i]
		r.records[rec.ID] = &rec
	}
	return r
}

func (r *memRepo) Insert(ctx context.Context, rec *core.MsgEmailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *memRepo) Get(ctx context.Context, id string) (*core.MsgEmailRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *rec
	return &cp, nil
}

func (r *memRepo) ListPending(ctx context.Context, limit int) ([]core.MsgEmailRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.MsgEmailRecord
	for _, rec := range r.records {
		if rec.AI == nil {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) SaveExtraction(ctx context.Context, id string, ai *core.AIExtraction) error {
	if id == r.failOn {
		return errors.New("disk full")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[id].AI = ai
	return nil
}

type memDirectory struct {
	users []core.UserRecord
}

func (d *memDirectory) GetUsersByEmail(ctx context.Context, email string) ([]core.UserRecord, error) {
	var out []core.UserRecord
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *memDirectory) GetUsersByDomain(ctx context.Context, domain string) ([]core.UserRecord, error) {
	var out []core.UserRecord
	for _, u := range d.users {
		if strings.HasSuffix(strings.ToLower(u.Email), "@"+domain) {
			out = append(out, u)
		}
	}
	return out, nil
}

func newTestProcessor(repo *memRepo, opts Options) *Processor {
	logger := zap.NewNop()
	dir := &memDirectory{users: []core.UserRecord{
		{ID: "u1", Name: "Mario Rossi", Email: "mario.rossi@acme.it"},
	}}
	ex := extraction.NewExtractor(nil, nil, 0, logger)
	rc := reconcile.NewReconciler(dir, nil, nil, reconcile.DefaultOptions(), logger)
	return NewProcessor(repo, ex, rc, nil, opts, logger)
}

func TestProcessPending(t *testing.T) {
	repo := newMemRepo(
		core.MsgEmailRecord{ID: "a", Input: "Mario Rossi <mario.rossi@acme.it>"},
		core.MsgEmailRecord{ID: "b", Input: "info@nowhere.org"},
		core.MsgEmailRecord{ID: "c", Input: "Anna Weber <anna.weber@firma.de>"},
	)
	repo.failOn = "c"
	p := newTestProcessor(repo, Options{BatchSize: 10, Concurrency: 2})

	report, err := p.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Listed)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.FromLLM)
	assert.Equal(t, 1, report.Actions[core.ActionLinkUser])
	assert.Equal(t, 1, report.Actions[core.ActionCreateUser])
	assert.Equal(t, 2, report.Metrics.Total)
	assert.Equal(t, 1, report.Metrics.HighConfidence)
	assert.Equal(t, 1, report.Metrics.NotApplicable)

	rec, err := repo.Get(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, rec.AI)
	assert.Equal(t, "Mario", rec.AI.Result.Name1)
	assert.Equal(t, extraction.Version, rec.AI.Version)

	pending, err := repo.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c", pending[0].ID)
}

func TestProcessPending_BatchSize(t *testing.T) {
	repo := newMemRepo(
		core.MsgEmailRecord{ID: "1", Input: "a@x.com"},
		core.MsgEmailRecord{ID: "2", Input: "b@x.com"},
		core.MsgEmailRecord{ID: "3", Input: "c@x.com"},
	)
	p := newTestProcessor(repo, Options{BatchSize: 2, Concurrency: 1})

	report, err := p.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Listed)

	report, err = p.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Listed)

	report, err = p.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Listed)
}

func TestProcessRecord_CancelledContext(t *testing.T) {
	repo := newMemRepo(core.MsgEmailRecord{ID: "a", Input: "mario.rossi@acme.it"})
	p := newTestProcessor(repo, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec, _ := repo.Get(context.Background(), "a")
	_, err := p.ProcessRecord(ctx, rec)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingLLM struct {
	mu    sync.Mutex
	calls int
}

func (c *countingLLM) ParseRecipient(ctx context.Context, in *core.LLMInput) (*core.LLMExtractionResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return &core.LLMExtractionResult{}, nil
}

func (c *countingLLM) MatchUser(ctx context.Context, mc *core.MatchContext) (*core.LLMMatchResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return &core.LLMMatchResult{}, nil
}

func (c *countingLLM) ModelName() string { return "counting" }

func TestRateLimitedClient(t *testing.T) {
	inner := &countingLLM{}
	c := NewRateLimitedClient(inner, 0.001, 1)
	assert.Equal(t, "counting", c.ModelName())

	_, err := c.ParseRecipient(context.Background(), &core.LLMInput{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.MatchUser(ctx, &core.MatchContext{})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)

	unlimited := NewRateLimitedClient(inner, 0, 0)
	for i := 0; i < 5; i++ {
		_, err := unlimited.MatchUser(context.Background(), &core.MatchContext{})
		require.NoError(t, err)
	}
	assert.Equal(t, 6, inner.calls)
}
