package domainpattern

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/shareddomain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	byDomain map[string][]core.UserRecord
	err      error
	calls    int
}

func (f *fakeDirectory) GetUsersByEmail(ctx context.Context, email string) ([]core.UserRecord, error) {
	return nil, nil
}

func (f *fakeDirectory) GetUsersByDomain(ctx context.Context, domain string) ([]core.UserRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byDomain[domain], nil
}

type mapCache struct {
	entries map[string]*core.PatternCacheEntry
}

func (m *mapCache) Get(ctx context.Context, domain string) (*core.PatternCacheEntry, error) {
	e, ok := m.entries[domain]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (m *mapCache) Set(ctx context.Context, entry *core.PatternCacheEntry) error {
	m.entries[entry.Domain] = entry
	return nil
}

func (m *mapCache) Delete(ctx context.Context, domain string) error {
	delete(m.entries, domain)
	return nil
}

func (m *mapCache) Cleanup(ctx context.Context) error { return nil }

func acmeUsers() []core.UserRecord {
	return []core.UserRecord{
		{ID: "1", Name: "Mario Rossi", Email: "mario.rossi@acme.it", BuyerID: "B1"},
		{ID: "2", Name: "Laura Neri", Email: "laura.neri@acme.it", BuyerID: "B1"},
		{ID: "3", Name: "Bianchi Paolo", Email: "paolo.bianchi@acme.it", BuyerID: "B1", ProducerID: "P9"},
		{ID: "4", Name: "Anna Verdi", Email: "averdi@acme.it", BuyerID: "B1"},
		{ID: "5", Name: "ACME S.r.l.", Email: "info@acme.it", BuyerID: "B1"},
		{ID: "6", Name: "Giovanni Maria Esposito", Email: "gm.esposito@acme.it"},
	}
}

func TestAnalyzer_VotesConvention(t *testing.T) {
	dir := &fakeDirectory{byDomain: map[string][]core.UserRecord{"acme.it": acmeUsers()}}
	a := NewAnalyzer(dir, shareddomain.NewChecker(nil, zap.NewNop()), nil, time.Hour, zap.NewNop())

	p, err := a.GetDomainPattern(context.Background(), "ACME.it")
	require.NoError(t, err)

	assert.Equal(t, "acme.it", p.Domain)
	assert.Equal(t, core.ConventionFirstDotLast, p.Convention)
	assert.Equal(t, 4, p.SampleSize)
	assert.InDelta(t, 0.75, p.Confidence, 1e-9)
	assert.Equal(t, "ACME S.r.l.", p.CompanyName)
	assert.Equal(t, "B1", p.BuyerID)
	assert.Equal(t, "P9", p.ProducerID)
	assert.False(t, p.IsSharedDomain)
}

func TestAnalyzer_SharedDomains(t *testing.T) {
	t.Run("listed domain skips the directory", func(t *testing.T) {
		dir := &fakeDirectory{}
		a := NewAnalyzer(dir, shareddomain.NewChecker(nil, zap.NewNop()), nil, time.Hour, zap.NewNop())

		p, err := a.GetDomainPattern(context.Background(), "gmail.com")
		require.NoError(t, err)
		assert.True(t, p.IsSharedDomain)
		assert.Equal(t, core.ConventionUnknown, p.Convention)
		assert.Equal(t, 0, dir.calls)
	})

	t.Run("many siblings without a dominant buyer", func(t *testing.T) {
		var users []core.UserRecord
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			users = append(users, core.UserRecord{ID: id, Name: "X Y", Email: id + "@isp.example", BuyerID: "buyer-" + id})
		}
		dir := &fakeDirectory{byDomain: map[string][]core.UserRecord{"isp.example": users}}
		a := NewAnalyzer(dir, shareddomain.NewChecker([]string{"gmail.com"}, zap.NewNop()), nil, time.Hour, zap.NewNop())

		p, err := a.GetDomainPattern(context.Background(), "isp.example")
		require.NoError(t, err)
		assert.True(t, p.IsSharedDomain)
	})

	t.Run("one producer company is not shared", func(t *testing.T) {
		var users []core.UserRecord
		for i, name := range []string{"Mario Rossi", "Laura Neri", "Paolo Bianchi", "Anna Verdi", "Luca Gallo"} {
			users = append(users, core.UserRecord{
				ID:         string(rune('a' + i)),
				Name:       name,
				Email:      strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@cantina.it",
				ProducerID: "P1",
			})
		}
		dir := &fakeDirectory{byDomain: map[string][]core.UserRecord{"cantina.it": users}}
		a := NewAnalyzer(dir, shareddomain.NewChecker(nil, zap.NewNop()), nil, time.Hour, zap.NewNop())

		p, err := a.GetDomainPattern(context.Background(), "cantina.it")
		require.NoError(t, err)
		assert.False(t, p.IsSharedDomain)
		assert.Equal(t, "P1", p.ProducerID)
		assert.Equal(t, core.ConventionFirstDotLast, p.Convention)
	})

	t.Run("users without organization are not evidence", func(t *testing.T) {
		var users []core.UserRecord
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			users = append(users, core.UserRecord{ID: id, Name: "X Y", Email: id + "@studio.example"})
		}
		dir := &fakeDirectory{byDomain: map[string][]core.UserRecord{"studio.example": users}}
		a := NewAnalyzer(dir, shareddomain.NewChecker(nil, zap.NewNop()), nil, time.Hour, zap.NewNop())

		p, err := a.GetDomainPattern(context.Background(), "studio.example")
		require.NoError(t, err)
		assert.False(t, p.IsSharedDomain)
	})

	t.Run("consistent convention vetoes distinct buyers", func(t *testing.T) {
		var users []core.UserRecord
		for i, name := range []string{"Mario Rossi", "Laura Neri", "Paolo Bianchi", "Anna Verdi", "Luca Gallo"} {
			users = append(users, core.UserRecord{
				ID:      string(rune('a' + i)),
				Name:    name,
				Email:   strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@group.example",
				BuyerID: "buyer-" + string(rune('a'+i)),
			})
		}
		dir := &fakeDirectory{byDomain: map[string][]core.UserRecord{"group.example": users}}
		a := NewAnalyzer(dir, nil, nil, time.Hour, zap.NewNop())

		p, err := a.GetDomainPattern(context.Background(), "group.example")
		require.NoError(t, err)
		assert.False(t, p.IsSharedDomain)
	})
}

func TestAnalyzer_Caching(t *testing.T) {
	dir := &fakeDirectory{byDomain: map[string][]core.UserRecord{"acme.it": acmeUsers()}}
	cache := &mapCache{entries: map[string]*core.PatternCacheEntry{}}
	a := NewAnalyzer(dir, nil, cache, time.Hour, zap.NewNop())
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	first, err := a.GetDomainPattern(context.Background(), "acme.it")
	require.NoError(t, err)
	second, err := a.GetDomainPattern(context.Background(), "acme.it")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, dir.calls)
	require.Contains(t, cache.entries, "acme.it")
	assert.Equal(t, fixed.Add(time.Hour), cache.entries["acme.it"].ExpiresAt)
}

func TestAnalyzer_Errors(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	a := NewAnalyzer(dir, nil, nil, time.Hour, zap.NewNop())

	_, err := a.GetDomainPattern(context.Background(), "acme.it")
	assert.ErrorContains(t, err, "connection refused")

	_, err = a.GetDomainPattern(context.Background(), "  ")
	assert.Error(t, err)
}
