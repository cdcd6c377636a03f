// Package runner executes one analyzer adapter over a file snapshot.
package runner

import (
	"context"

	"github.com/richhaase/reviewflow/internal/domain"
)

// Analyze is the adapter contract: map one file's source text to a metrics
// record. Adapters never fail across this boundary — on internal error they
// return a degraded default record instead.
type Analyze[T any] func(ctx context.Context, source, filename string) T

// Run applies the adapter to every file in the snapshot, in order, and
// returns the per-file records. Files with empty content are silently
// skipped. An empty snapshot returns nil without invoking the adapter.
//
// Run holds no shared mutable state; completion bookkeeping belongs to the
// graph runtime, so concurrent stages stay race-free.
func Run[T any](ctx context.Context, files []domain.FileDescriptor, analyze Analyze[T]) []T {
	if len(files) == 0 {
		return nil
	}

	var results []T
	for _, f := range files {
		if f.Content == "" {
			continue
		}
		results = append(results, analyze(ctx, f.Content, f.Filename))
	}
	return results
}
