package matching

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// RankAll scores the full cross product of leads and properties, sorts the
// results and truncates to limit (limit <= 0 means no truncation). Empty
// input sets yield an empty list.
//
// Scoring is parallelized per lead row; results land in fixed cross-product
// slots, so the output is deterministic for identical inputs. Sort order is
// exact: non-disqualified pairs first, descending by score, with the stable
// input order breaking ties.
func (e *Engine) RankAll(ctx context.Context, leads []Lead, props []Property, limit int) ([]MatchResult, error) {
	if len(leads) == 0 || len(props) == 0 {
		return []MatchResult{}, nil
	}

	results := make([]MatchResult, len(leads)*len(props))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, lead := range leads {
		i, lead := i, lead
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			base := i * len(props)
			for j, prop := range props {
				results[base+j] = e.Score(lead, prop)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortResults(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// sortResults orders disqualified pairs strictly after all qualified pairs,
// then by descending score within each partition.
func sortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].IsDisqualified != results[j].IsDisqualified {
			return !results[i].IsDisqualified
		}
		return results[i].Score > results[j].Score
	})
}
