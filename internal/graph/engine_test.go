package graph

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/review"
)

type fakeHost struct {
	pr         domain.PRMetadata
	files      []domain.FileDescriptor
	detailsErr error
	filesErr   error
}

func (f *fakeHost) PRDetails(ctx context.Context, owner, repo string, number int) (domain.PRMetadata, error) {
	if f.detailsErr != nil {
		return domain.PRMetadata{}, f.detailsErr
	}
	return f.pr, nil
}

func (f *fakeHost) PRFiles(ctx context.Context, owner, repo string, number int) ([]domain.FileDescriptor, error) {
	if f.filesErr != nil {
		return nil, f.filesErr
	}
	return f.files, nil
}

type countingAnalyzers struct {
	security, quality, coverage, ai, docs atomic.Int32
}

type securityFake struct{ c *countingAnalyzers }

func (a securityFake) Analyze(ctx context.Context, source, filename string) domain.SecurityResult {
	a.c.security.Add(1)
	return domain.SecurityResult{Filename: filename, Score: 9.0}
}

type qualityFake struct{ c *countingAnalyzers }

func (a qualityFake) Analyze(ctx context.Context, source, filename string) domain.QualityResult {
	a.c.quality.Add(1)
	return domain.QualityResult{Filename: filename, Score: 8.0}
}

type coverageFake struct{ c *countingAnalyzers }

func (a coverageFake) Analyze(ctx context.Context, source, filename string) domain.CoverageResult {
	a.c.coverage.Add(1)
	return domain.CoverageResult{Filename: filename, CoveragePercent: 85.0}
}

type aiFake struct{ c *countingAnalyzers }

func (a aiFake) Analyze(ctx context.Context, source, filename string) domain.AIReviewResult {
	a.c.ai.Add(1)
	return domain.AIReviewResult{Filename: filename, OverallScore: 0.9, Confidence: 0.9}
}

type docsFake struct{ c *countingAnalyzers }

func (a docsFake) Analyze(ctx context.Context, source, filename string) domain.DocumentationResult {
	a.c.docs.Add(1)
	return domain.DocumentationResult{Filename: filename, Coverage: 80.0}
}

type fakeNotifier struct {
	started atomic.Int32
	final   atomic.Int32
}

func (n *fakeNotifier) ReviewStarted(pr domain.PRMetadata, fileCount int) bool {
	n.started.Add(1)
	return true
}

func (n *fakeNotifier) FinalReport(pr domain.PRMetadata, report domain.Report, critical bool) bool {
	n.final.Add(1)
	return true
}

func newTestEngine(host HostingClient, counts *countingAnalyzers, notifier Notifier) *Engine {
	return New(Config{
		Host:          host,
		Security:      securityFake{counts},
		Quality:       qualityFake{counts},
		Coverage:      coverageFake{counts},
		AIReview:      aiFake{counts},
		Documentation: docsFake{counts},
		Notifier:      notifier,
		Thresholds:    review.DefaultThresholds,
	})
}

func TestRun_FullPipeline(t *testing.T) {
	host := &fakeHost{
		pr: domain.PRMetadata{Number: 1, Title: "Add widget", Author: "dev"},
		files: []domain.FileDescriptor{
			{Filename: "a.py", Content: "x = 1\n"},
			{Filename: "b.py", Content: "y = 2\n"},
		},
	}
	counts := &countingAnalyzers{}
	notifier := &fakeNotifier{}
	e := newTestEngine(host, counts, notifier)

	s := e.Run(context.Background(), "o", "r", 1)

	if s.Failed() {
		t.Fatalf("unexpected failure: %s", s.Err)
	}
	if !s.Complete {
		t.Error("state should be complete")
	}
	for name, got := range map[string]int32{
		"security":      counts.security.Load(),
		"quality":       counts.quality.Load(),
		"coverage":      counts.coverage.Load(),
		"ai_review":     counts.ai.Load(),
		"documentation": counts.docs.Load(),
	} {
		if got != 2 {
			t.Errorf("%s analyzer should run once per file, got %d calls", name, got)
		}
	}
	if s.Summary == nil || len(s.Summary.AnalysesCompleted) != 5 {
		t.Fatalf("expected complete summary, got %+v", s.Summary)
	}
	if s.Decision == nil {
		t.Fatal("expected a decision")
	}
	if s.Decision.Outcome != domain.OutcomeAutoApprove {
		t.Errorf("healthy metrics should auto-approve, got %s (%s)", s.Decision.Outcome, s.Decision.Reason)
	}
	if s.Report == nil {
		t.Error("expected a report")
	}
	if notifier.started.Load() != 1 || notifier.final.Load() != 1 {
		t.Errorf("expected one start and one final notification, got %d/%d",
			notifier.started.Load(), notifier.final.Load())
	}
}

func TestRun_EmptySnapshotSkipsAnalysis(t *testing.T) {
	host := &fakeHost{pr: domain.PRMetadata{Number: 2}}
	counts := &countingAnalyzers{}
	notifier := &fakeNotifier{}
	e := newTestEngine(host, counts, notifier)

	s := e.Run(context.Background(), "o", "r", 2)

	if s.Failed() {
		t.Fatalf("empty snapshot is not a failure: %s", s.Err)
	}
	if !s.Complete {
		t.Error("state should be complete")
	}
	if counts.security.Load() != 0 || counts.ai.Load() != 0 {
		t.Error("no analyzer should run for an empty snapshot")
	}
	if s.Decision != nil {
		t.Errorf("no decision should be made, got %+v", s.Decision)
	}
	if notifier.started.Load() != 0 || notifier.final.Load() != 0 {
		t.Error("no notifications for an empty snapshot")
	}
}

func TestRun_DetectFailureShortCircuits(t *testing.T) {
	host := &fakeHost{detailsErr: errors.New("boom")}
	counts := &countingAnalyzers{}
	e := newTestEngine(host, counts, nil)

	s := e.Run(context.Background(), "o", "r", 3)

	if !s.Failed() {
		t.Fatal("detect failure should mark the state failed")
	}
	if !s.Complete {
		t.Error("state should be complete")
	}
	if counts.quality.Load() != 0 {
		t.Error("analyzers should not run after detect failure")
	}
	if s.Decision != nil || s.Report != nil {
		t.Error("no decision or report after detect failure")
	}
}

func TestRun_FilesFetchFailureShortCircuits(t *testing.T) {
	host := &fakeHost{pr: domain.PRMetadata{Number: 4}, filesErr: errors.New("rate limited")}
	counts := &countingAnalyzers{}
	e := newTestEngine(host, counts, nil)

	s := e.Run(context.Background(), "o", "r", 4)

	if !s.Failed() || counts.security.Load() != 0 {
		t.Errorf("file fetch failure should end the review, state: %+v", s.Err)
	}
}

type blockingSecurity struct {
	c       *countingAnalyzers
	release chan struct{}
}

func (a blockingSecurity) Analyze(ctx context.Context, source, filename string) domain.SecurityResult {
	<-a.release
	return domain.SecurityResult{Filename: filename}
}

func TestRun_CancellationRecordsError(t *testing.T) {
	host := &fakeHost{
		pr:    domain.PRMetadata{Number: 5},
		files: []domain.FileDescriptor{{Filename: "a.py", Content: "x = 1\n"}},
	}
	counts := &countingAnalyzers{}
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	e := New(Config{
		Host:          host,
		Security:      blockingSecurity{counts, release},
		Quality:       qualityFake{counts},
		Coverage:      coverageFake{counts},
		AIReview:      aiFake{counts},
		Documentation: docsFake{counts},
		Thresholds:    review.DefaultThresholds,
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	s := e.Run(ctx, "o", "r", 5)

	if !s.Failed() {
		t.Fatal("cancellation should mark the state failed")
	}
	if s.Decision != nil {
		t.Error("no decision after cancellation")
	}
}
