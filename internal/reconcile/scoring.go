package reconcile

import (
	"math"
	"sort"

	"github.com/mikey/email-reconciler/internal/core"
)

// Factor strengths. A candidate's score is the noisy-OR of its factors, so
// independent weak signals add up without ever reaching 1.
const (
	strengthEmailExact      = 0.95
	strengthEmailLocal      = 0.30
	strengthDomainMatch     = 0.25
	strengthNameExact       = 0.35
	strengthNamePartial     = 0.15
	strengthConventionMatch = 0.15
	strengthCompanyMatch    = 0.10
	llmMatchWeight          = 0.4
	llmAlternativeWeight    = 0.15
)

// factorOrder fixes the order factors are reported in
var factorOrder = []core.MatchFactor{
	core.FactorEmailExact,
	core.FactorEmailLocal,
	core.FactorDomainMatch,
	core.FactorNameExact,
	core.FactorNamePartial,
	core.FactorConventionMatch,
	core.FactorCompanyMatch,
	core.FactorLLMMatch,
	core.FactorLLMAlternative,
}

// evidence accumulates factor strengths per user id. Every evidence source
// writes here; rank is the only place they are combined.
type evidence struct {
	order   []string
	factors map[string]map[core.MatchFactor]float64
}

func newEvidence() *evidence {
	return &evidence{factors: make(map[string]map[core.MatchFactor]float64)}
}

// track registers a candidate even before it has any factor
func (e *evidence) track(userID string) {
	if _, ok := e.factors[userID]; ok {
		return
	}
	e.factors[userID] = make(map[core.MatchFactor]float64)
	e.order = append(e.order, userID)
}

// add records a factor, keeping the strongest value seen for it
func (e *evidence) add(userID string, f core.MatchFactor, strength float64) {
	if strength <= 0 {
		return
	}
	e.track(userID)
	if strength > 1 {
		strength = 1
	}
	if strength > e.factors[userID][f] {
		e.factors[userID][f] = strength
	}
}

func (e *evidence) has(userID string) bool {
	_, ok := e.factors[userID]
	return ok
}

// rank combines each candidate's factors and sorts the result. Exact email
// matches always come first, then score, then user id. Candidates without
// any factor are dropped.
func (e *evidence) rank() []core.MatchCandidate {
	out := make([]core.MatchCandidate, 0, len(e.order))
	for _, id := range e.order {
		fs := e.factors[id]
		if len(fs) == 0 {
			continue
		}
		miss := 1.0
		c := core.MatchCandidate{UserID: id}
		for _, f := range factorOrder {
			s, ok := fs[f]
			if !ok {
				continue
			}
			miss *= 1 - s
			c.MatchFactors = append(c.MatchFactors, f)
		}
		c.Score = math.Round((1-miss)*10000) / 10000
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i].HasFactor(core.FactorEmailExact), out[j].HasFactor(core.FactorEmailExact)
		if ei != ej {
			return ei
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
