package screening

import (
	"fmt"
	"log/slog"
)

// Reconcile merges the service's proposed ranking with the authoritative
// candidate set. It never drops a candidate whose identifier belongs to
// corpusIDs and never invents one that does not:
//
//  1. ranking is walked in order; the first mention of each known candidate
//     fixes its position (later duplicate mentions are ignored);
//  2. known candidates omitted from ranking are appended in their original
//     relative order;
//  3. identifiers outside corpusIDs — in ranking or candidates — are dropped
//     and recorded as anomalies;
//  4. ranks are assigned 1-based and contiguous over the final sequence.
//
// Reconcile is idempotent on well-formed input and never mutates result.
func Reconcile(corpusIDs []string, result AnalysisResult, logger *slog.Logger) Report {
	if logger == nil {
		logger = slog.Default()
	}

	known := make(map[string]struct{}, len(corpusIDs))
	for _, id := range corpusIDs {
		known[id] = struct{}{}
	}

	var anomalies []string
	note := func(event, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		anomalies = append(anomalies, msg)
		logger.Warn(event, "detail", msg)
	}

	lookup, order, duplicates := mergeCandidates(result.Candidates)
	for _, id := range duplicates {
		note("reconcile.duplicate_candidate", "candidate %s appeared more than once; kept the last occurrence", id)
	}
	for id := range lookup {
		if _, ok := known[id]; !ok {
			note("reconcile.unknown_candidate", "candidate %s does not belong to the submitted batch; dropped", id)
			delete(lookup, id)
		}
	}

	emitted := make(map[string]struct{}, len(lookup))
	final := make([]Candidate, 0, len(lookup))

	for _, id := range result.Ranking {
		if _, ok := known[id]; !ok {
			note("reconcile.unknown_ranking_id", "ranking references %s which was never submitted; ignored", id)
			continue
		}
		c, ok := lookup[id]
		if !ok {
			note("reconcile.ranked_without_candidate", "ranking references %s but no candidate payload was returned", id)
			continue
		}
		if _, done := emitted[id]; done {
			continue
		}
		emitted[id] = struct{}{}
		final = append(final, c)
	}

	// Stable fallback: no known candidate is silently dropped even if the
	// service omitted it from ranking.
	for _, id := range order {
		c, ok := lookup[id]
		if !ok {
			continue
		}
		if _, done := emitted[id]; done {
			continue
		}
		emitted[id] = struct{}{}
		final = append(final, c)
	}

	for _, id := range corpusIDs {
		if _, done := emitted[id]; !done {
			note("reconcile.omitted_candidate", "no candidate returned for %s", id)
		}
	}

	ranked := make([]RankedCandidate, len(final))
	for i, c := range final {
		ranked[i] = RankedCandidate{Candidate: c, Rank: i + 1}
	}

	return Report{
		RoleType:   NormalizeRoleType(result.RoleType),
		Summary:    result.Summary,
		Candidates: ranked,
		Anomalies:  anomalies,
	}
}
