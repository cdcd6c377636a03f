// Package state defines the review state record and the reducer that merges
// partial stage updates into it.
package state

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/richhaase/reviewflow/internal/domain"
)

// ReviewState is the single record threaded through the workflow graph.
// Identity and input fields are written once; each analysis stage owns
// exactly one result list; decision and report fields are written once by
// their stages. Stages never mutate the state directly — they return an
// Update which the graph runtime folds in with Reduce.
type ReviewState struct {
	// Identity, immutable after New.
	ReviewID  string
	Owner     string
	Repo      string
	PRNumber  int
	CreatedAt time.Time

	// Inputs, written once by the detect stage.
	PR    domain.PRMetadata
	Files []domain.FileDescriptor

	// Per-stage result lists. Aligned only by filename, never positionally.
	Security      []domain.SecurityResult
	Quality       []domain.QualityResult
	Coverage      []domain.CoverageResult
	AIReviews     []domain.AIReviewResult
	Documentation []domain.DocumentationResult

	// Derived values.
	Summary  *domain.Summary
	Decision *domain.Decision
	Report   *domain.Report

	// Workflow control.
	Err       string
	Complete  bool
	UpdatedAt time.Time
}

// Update is a partial state change returned by a stage. Nil pointers and
// empty slices mean "no change"; slices are appended, scalars overwritten.
type Update struct {
	PR    *domain.PRMetadata
	Files []domain.FileDescriptor

	Security      []domain.SecurityResult
	Quality       []domain.QualityResult
	Coverage      []domain.CoverageResult
	AIReviews     []domain.AIReviewResult
	Documentation []domain.DocumentationResult

	Summary  *domain.Summary
	Decision *domain.Decision
	Report   *domain.Report

	Err       string
	Complete  bool
	UpdatedAt time.Time
}

// New creates the initial state for a review request.
func New(owner, repo string, prNumber int) ReviewState {
	now := time.Now()
	return ReviewState{
		ReviewID:  newReviewID(now),
		Owner:     owner,
		Repo:      repo,
		PRNumber:  prNumber,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newReviewID generates a review identifier like REV-01J8ZC3FZ9....
func newReviewID(now time.Time) string {
	entropy := rand.New(rand.NewSource(now.UnixNano()))
	return fmt.Sprintf("REV-%s", ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(entropy, 0)))
}

// Reduce folds a partial update into the state and returns the new state.
// Result lists append; scalar fields overwrite only when set in the update.
// A decision, once present, is never replaced.
func Reduce(s ReviewState, u Update) ReviewState {
	if u.PR != nil {
		s.PR = *u.PR
	}
	if len(u.Files) > 0 {
		s.Files = append(s.Files, u.Files...)
	}

	s.Security = append(s.Security, u.Security...)
	s.Quality = append(s.Quality, u.Quality...)
	s.Coverage = append(s.Coverage, u.Coverage...)
	s.AIReviews = append(s.AIReviews, u.AIReviews...)
	s.Documentation = append(s.Documentation, u.Documentation...)

	if u.Summary != nil {
		s.Summary = u.Summary
	}
	if u.Decision != nil && s.Decision == nil {
		s.Decision = u.Decision
	}
	if u.Report != nil && s.Report == nil {
		s.Report = u.Report
	}

	if u.Err != "" {
		s.Err = u.Err
	}
	if u.Complete {
		s.Complete = true
	}
	if !u.UpdatedAt.IsZero() {
		s.UpdatedAt = u.UpdatedAt
	}

	return s
}

// Failed reports whether an upstream stage recorded an unrecoverable error.
func (s ReviewState) Failed() bool {
	return s.Err != ""
}
