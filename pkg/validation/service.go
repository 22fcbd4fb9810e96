// Package validation implements the PENMAN validation pipeline: normalize
// the submitted text, decode it into a graph, run the ordered modular
// checks, and canonicalize the result. Nothing in this package talks to
// a database; the sentence lifecycle orchestrator calls Service.Validate
// inside its own transaction.
package validation

import (
	"strings"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/metrics"
	"github.com/amr-platform/annotation-core/pkg/penman"
)

// Service runs the validation pipeline described in spec.md §4.3.
type Service struct {
	metrics *metrics.Registry
}

// NewService constructs a Service. It holds no state; every call is
// independent and safe to share across goroutines.
func NewService() *Service {
	return &Service{}
}

// WithMetrics attaches a metrics registry, causing every Validate call
// to record its outcome and, for invalid submissions, the specific
// error codes raised.
func (s *Service) WithMetrics(reg *metrics.Registry) *Service {
	s.metrics = reg
	return s
}

// Validate runs the full pipeline against raw PENMAN text for a
// project at the given version triple.
func (s *Service) Validate(rawText string, versions domain.VersionTriple) *Report {
	report := &Report{
		AMRVersion:     versions.AMRVersion,
		RoleSetVersion: versions.RoleSetVersion,
		RuleVersion:    versions.ValidationRuleVersion,
		Errors:         []Issue{},
		Warnings:       []Issue{},
	}

	normalized := normalize(rawText)
	if normalized == "" {
		report.addError("empty_input", "submitted text is empty", nil)
		report.IsValid = false
		s.recordOutcome(report)
		return report
	}

	if !penman.BalancedParens(normalized) {
		report.addError("parse_error", "unbalanced parentheses", nil)
		report.IsValid = false
		s.recordOutcome(report)
		return report
	}

	graph, err := penman.Decode(normalized)
	if err != nil {
		report.addError("parse_error", err.Error(), nil)
		report.IsValid = false
		s.recordOutcome(report)
		return report
	}

	ctx := &checkContext{
		graph:      graph,
		report:     report,
		versions:   versions,
		rawText:    rawText,
		normalized: normalized,
	}
	runChecks(ctx)

	canonical := penman.Encode(graph)
	report.CanonicalPenman = &canonical
	count := len(graph.Triples)
	report.TripleCount = &count

	report.IsValid = len(report.Errors) == 0
	s.recordOutcome(report)
	return report
}

func (s *Service) recordOutcome(report *Report) {
	if s.metrics == nil {
		return
	}
	outcome := "valid"
	if !report.IsValid {
		outcome = "invalid"
	}
	if len(report.Errors) == 0 {
		s.metrics.ValidationOutcomes.WithLabelValues(outcome, "overall").Inc()
		return
	}
	for _, issue := range report.Errors {
		s.metrics.ValidationOutcomes.WithLabelValues(outcome, issue.Code).Inc()
	}
}

// normalize strips surrounding whitespace from every line and drops
// blank lines, joining what remains with a single space.
func normalize(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " ")
}
