package formats

import (
	"context"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Candidate is one file a multi-volume group might claim as a part.
type Candidate struct {
	Index int // caller-defined stable index, preserved into ProbeResult
	Open  func() (io.ReadCloser, error)
}

// ProbeResult reports whether a candidate's header was readable and, if so,
// the format id sniffed from it.
type ProbeResult struct {
	Index    int
	FormatID string
	Err      error
}

// ProbeHeaders opens and sniffs each candidate concurrently, bounded by
// limit, and returns results ordered by Candidate.Index. Grounded on the
// teacher's pkg/unpack/rar.go header-scan (`sem := make(chan struct{}, 20)`
// guarding a WaitGroup of per-file header reads); reimplemented with
// errgroup.Group.SetLimit per SPEC_FULL.md's DOMAIN STACK entry for
// golang.org/x/sync, replacing the manual channel+WaitGroup+mutex trio.
func ProbeHeaders(ctx context.Context, candidates []Candidate, limit int) []ProbeResult {
	results := make([]ProbeResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = ProbeResult{Index: c.Index, Err: gctx.Err()}
				return nil
			default:
			}
			rc, err := c.Open()
			if err != nil {
				results[i] = ProbeResult{Index: c.Index, Err: err}
				return nil
			}
			defer rc.Close()
			id, _, err := Default.Identify("", rc)
			results[i] = ProbeResult{Index: c.Index, FormatID: id, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}
