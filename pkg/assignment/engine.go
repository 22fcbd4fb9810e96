// Package assignment implements the candidate-selection engine that
// picks which users get assigned to a sentence. It never touches a
// database directly: callers inject a CandidatePool port, so the engine
// itself stays pure and trivially testable.
package assignment

import (
	"context"
	"sort"
	"strings"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/metrics"
)

// Strategy selects how the engine ranks eligible candidates.
type Strategy = domain.AssignmentStrategy

// Candidate is one eligible user for assignment, as reported by the
// CandidatePool port.
type Candidate struct {
	UserID int64
	Load   int
	Skills []string
}

// CandidatePool is the narrow read port the engine needs. Its
// implementation (in pkg/repository) queries active, approved
// ProjectMemberships for a project/role plus each candidate's current
// assignment load and skill profile.
type CandidatePool interface {
	// Eligible returns every user eligible for the given project and
	// role: an active, approved ProjectMembership holder, along with
	// their current load (active-assignment count for this
	// project/role) and declared skills.
	Eligible(ctx context.Context, projectID int64, role domain.Role) ([]Candidate, error)
}

// Request describes one assignment decision.
type Request struct {
	ProjectID          int64
	Strategy           Strategy
	Role               domain.Role
	Count              int
	RequiredSkills     []string
	ProvidedAssignees  []int64
	ExcludeUserIDs     []int64
}

// Engine selects candidate users to assign to a sentence.
type Engine struct {
	pool    CandidatePool
	metrics *metrics.Registry
}

// NewEngine constructs an Engine backed by the given CandidatePool.
func NewEngine(pool CandidatePool) *Engine {
	return &Engine{pool: pool}
}

// WithMetrics attaches a metrics registry, causing every successful
// Assign to increment AssignmentsTotal labeled by strategy and role.
func (e *Engine) WithMetrics(reg *metrics.Registry) *Engine {
	e.metrics = reg
	return e
}

// Assign returns an ordered list of user ids to assign, per spec.md §4.2.
func (e *Engine) Assign(ctx context.Context, req Request) ([]int64, error) {
	if req.Count < 1 {
		return nil, domain.ErrInvalidCount
	}

	candidates, err := e.pool.Eligible(ctx, req.ProjectID, req.Role)
	if err != nil {
		return nil, err
	}

	excluded := toInt64Set(req.ExcludeUserIDs)
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if excluded[c.UserID] {
			continue
		}
		eligible = append(eligible, c)
	}

	var (
		assigned []int64
		assignErr error
	)
	if len(req.ProvidedAssignees) > 0 {
		assigned, assignErr = e.override(eligible, req)
	} else {
		switch req.Strategy {
		case domain.StrategyRoundRobin:
			assigned, assignErr = e.roundRobin(eligible, req.Count)
		case domain.StrategySkillBased:
			assigned, assignErr = e.skillBased(eligible, req)
		default:
			assignErr = domain.ErrUnknownStrategy
		}
	}

	if assignErr == nil && e.metrics != nil {
		e.metrics.AssignmentsTotal.
			WithLabelValues(string(req.Strategy), string(req.Role)).
			Add(float64(len(assigned)))
	}
	return assigned, assignErr
}

// override filters provided_assignees to the eligible set, preserving
// input order, and truncates to count. Strategy is ignored.
func (e *Engine) override(eligible []Candidate, req Request) ([]int64, error) {
	eligibleSet := toCandidateSet(eligible)
	var out []int64
	for _, id := range req.ProvidedAssignees {
		if eligibleSet[id] {
			out = append(out, id)
		}
		if len(out) == req.Count {
			break
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoEligibleCandidates
	}
	return out, nil
}

func (e *Engine) roundRobin(eligible []Candidate, count int) ([]int64, error) {
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleCandidates
	}
	if len(eligible) < count {
		return nil, domain.ErrInsufficientCandidates
	}

	sorted := make([]Candidate, len(eligible))
	copy(sorted, eligible)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Load != sorted[j].Load {
			return sorted[i].Load < sorted[j].Load
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	out := make([]int64, count)
	for i := 0; i < count; i++ {
		out[i] = sorted[i].UserID
	}
	return out, nil
}

func (e *Engine) skillBased(eligible []Candidate, req Request) ([]int64, error) {
	if len(req.RequiredSkills) == 0 {
		return e.roundRobin(eligible, req.Count)
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleCandidates
	}

	required := normalizeSkills(req.RequiredSkills)

	type scored struct {
		candidate Candidate
		overlap   int
	}
	var ranked []scored
	for _, c := range eligible {
		overlap := skillOverlap(required, c.Skills)
		if overlap == 0 {
			continue
		}
		ranked = append(ranked, scored{candidate: c, overlap: overlap})
	}
	if len(ranked) == 0 {
		return nil, domain.ErrNoEligibleCandidates
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		if ranked[i].candidate.Load != ranked[j].candidate.Load {
			return ranked[i].candidate.Load < ranked[j].candidate.Load
		}
		return ranked[i].candidate.UserID < ranked[j].candidate.UserID
	})

	if len(ranked) < req.Count {
		return nil, domain.ErrInsufficientCandidates
	}

	out := make([]int64, req.Count)
	for i := 0; i < req.Count; i++ {
		out[i] = ranked[i].candidate.UserID
	}
	return out, nil
}

func normalizeSkills(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = true
	}
	return set
}

func skillOverlap(required map[string]bool, have []string) int {
	seen := map[string]bool{}
	count := 0
	for _, s := range have {
		key := strings.ToLower(s)
		if required[key] && !seen[key] {
			seen[key] = true
			count++
		}
	}
	return count
}

func toInt64Set(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func toCandidateSet(candidates []Candidate) map[int64]bool {
	set := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		set[c.UserID] = true
	}
	return set
}
