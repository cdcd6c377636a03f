package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/review"
	"github.com/richhaase/reviewflow/internal/runner"
	"github.com/richhaase/reviewflow/internal/state"
	"github.com/richhaase/reviewflow/internal/terminal"
)

// HostingClient fetches PR metadata and changed files for the detect stage.
type HostingClient interface {
	PRDetails(ctx context.Context, owner, repo string, number int) (domain.PRMetadata, error)
	PRFiles(ctx context.Context, owner, repo string, number int) ([]domain.FileDescriptor, error)
}

// SecurityAnalyzer produces one security record per file.
type SecurityAnalyzer interface {
	Analyze(ctx context.Context, source, filename string) domain.SecurityResult
}

// QualityAnalyzer produces one lint record per file.
type QualityAnalyzer interface {
	Analyze(ctx context.Context, source, filename string) domain.QualityResult
}

// CoverageAnalyzer produces one coverage estimate per file.
type CoverageAnalyzer interface {
	Analyze(ctx context.Context, source, filename string) domain.CoverageResult
}

// AIReviewer produces one AI review record per file.
type AIReviewer interface {
	Analyze(ctx context.Context, source, filename string) domain.AIReviewResult
}

// DocumentationAnalyzer produces one docstring-coverage record per file.
type DocumentationAnalyzer interface {
	Analyze(ctx context.Context, source, filename string) domain.DocumentationResult
}

// Notifier receives review lifecycle events. Delivery is best-effort; a
// false return is logged and otherwise ignored.
type Notifier interface {
	ReviewStarted(pr domain.PRMetadata, fileCount int) bool
	FinalReport(pr domain.PRMetadata, report domain.Report, critical bool) bool
}

// Config holds the engine's collaborators and settings.
type Config struct {
	Host          HostingClient
	Security      SecurityAnalyzer
	Quality       QualityAnalyzer
	Coverage      CoverageAnalyzer
	AIReview      AIReviewer
	Documentation DocumentationAnalyzer
	Notifier      Notifier
	Thresholds    review.Thresholds
	Logger        *terminal.Logger
	Verbose       bool
}

// Engine runs the workflow graph over a single pull request.
type Engine struct {
	cfg Config
}

// New creates an engine. A nil logger gets a default one.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = terminal.NewLogger()
	}
	return &Engine{cfg: cfg}
}

// stageUpdate pairs a stage with the partial update it produced.
type stageUpdate struct {
	stage  Stage
	update state.Update
}

// Run executes the graph and returns the final state. Errors from the detect
// stage or a cancelled context are recorded in the state's Err field rather
// than returned; analyzer failures never abort the run.
func (e *Engine) Run(ctx context.Context, owner, repo string, number int) state.ReviewState {
	log := e.cfg.Logger
	s := state.New(owner, repo, number)

	log.Logf(terminal.StylePhase, "Reviewing %s/%s#%d (%s)", owner, repo, number, s.ReviewID)

	s = e.detect(ctx, s)

	next := afterDetect(s)
	if len(next) == 1 && next[0] == StageDone {
		if s.Failed() {
			log.Logf(terminal.StyleError, "Review failed: %s", s.Err)
		} else {
			log.Log("No matching files changed, nothing to review", terminal.StyleWarning)
		}
		return state.Reduce(s, state.Update{Complete: true, UpdatedAt: time.Now()})
	}

	log.Logf(terminal.StyleInfo, "PR #%d: %s (%d files)", s.PR.Number, s.PR.Title, len(s.Files))
	e.notifyStarted(s)

	s = e.fanOut(ctx, s)
	if s.Failed() {
		log.Logf(terminal.StyleError, "Review failed: %s", s.Err)
		return state.Reduce(s, state.Update{Complete: true, UpdatedAt: time.Now()})
	}

	s = e.coordinate(s)
	s = e.decide(s)
	s = e.report(s)

	e.notifyComplete(s)
	return state.Reduce(s, state.Update{Complete: true, UpdatedAt: time.Now()})
}

// detect fetches PR metadata and the changed-file snapshot. Any fetch error
// ends the review before analyzers run.
func (e *Engine) detect(ctx context.Context, s state.ReviewState) state.ReviewState {
	phase := terminal.NewPhaseSpinner("Fetching pull request")
	phaseCtx, phaseCancel := context.WithCancel(context.Background())
	phaseDone := make(chan struct{})
	go func() {
		phase.Run(phaseCtx)
		close(phaseDone)
	}()
	defer func() {
		phaseCancel()
		<-phaseDone
	}()

	pr, err := e.cfg.Host.PRDetails(ctx, s.Owner, s.Repo, s.PRNumber)
	if err != nil {
		return state.Reduce(s, state.Update{Err: err.Error(), UpdatedAt: time.Now()})
	}

	files, err := e.cfg.Host.PRFiles(ctx, s.Owner, s.Repo, s.PRNumber)
	if err != nil {
		return state.Reduce(s, state.Update{Err: err.Error(), UpdatedAt: time.Now()})
	}

	return state.Reduce(s, state.Update{PR: &pr, Files: files, UpdatedAt: time.Now()})
}

// fanOut launches the five analysis stages concurrently and folds their
// updates into the state at the join, in arrival order. The reducer is only
// ever called from this goroutine, so stages share nothing.
func (e *Engine) fanOut(ctx context.Context, s state.ReviewState) state.ReviewState {
	spinner := terminal.NewSpinner(len(AnalysisStages))
	completed := spinner.Completed()

	spinnerCtx, spinnerCancel := context.WithCancel(context.Background())
	spinnerDone := make(chan struct{})
	go func() {
		spinner.Run(spinnerCtx)
		close(spinnerDone)
	}()
	defer func() {
		spinnerCancel()
		<-spinnerDone
	}()

	updates := make(chan stageUpdate, len(AnalysisStages))
	for _, stage := range AnalysisStages {
		go func(stage Stage) {
			u := e.runAnalysis(ctx, stage, s)
			completed.Add(1)
			updates <- stageUpdate{stage: stage, update: u}
		}(stage)
	}

	for range AnalysisStages {
		select {
		case su := <-updates:
			if e.cfg.Verbose {
				e.cfg.Logger.Logf(terminal.StyleDim, "%s analysis complete", su.stage)
			}
			s = state.Reduce(s, su.update)
		case <-ctx.Done():
			return state.Reduce(s, state.Update{
				Err:       fmt.Sprintf("analysis interrupted: %v", ctx.Err()),
				UpdatedAt: time.Now(),
			})
		}
	}

	return s
}

// runAnalysis executes one analysis stage over the file snapshot.
func (e *Engine) runAnalysis(ctx context.Context, stage Stage, s state.ReviewState) state.Update {
	now := time.Now()
	switch stage {
	case StageSecurity:
		return state.Update{Security: runner.Run(ctx, s.Files, e.cfg.Security.Analyze), UpdatedAt: now}
	case StageQuality:
		return state.Update{Quality: runner.Run(ctx, s.Files, e.cfg.Quality.Analyze), UpdatedAt: now}
	case StageCoverage:
		return state.Update{Coverage: runner.Run(ctx, s.Files, e.cfg.Coverage.Analyze), UpdatedAt: now}
	case StageAIReview:
		return state.Update{AIReviews: runner.Run(ctx, s.Files, e.cfg.AIReview.Analyze), UpdatedAt: now}
	case StageDocumentation:
		return state.Update{Documentation: runner.Run(ctx, s.Files, e.cfg.Documentation.Analyze), UpdatedAt: now}
	}
	return state.Update{}
}

// coordinate summarizes the collected results. Analyses with no results are
// logged and tolerated.
func (e *Engine) coordinate(s state.ReviewState) state.ReviewState {
	summary := review.Coordinate(s)
	s = state.Reduce(s, state.Update{Summary: &summary, UpdatedAt: time.Now()})

	if missing := stragglers(s); len(missing) > 0 {
		e.cfg.Logger.Logf(terminal.StyleWarning, "still waiting for: %s", strings.Join(missing, ", "))
	}
	return s
}

// decide computes the aggregate metrics and applies the decision rules.
func (e *Engine) decide(s state.ReviewState) state.ReviewState {
	metrics := review.ComputeMetrics(s)
	decision := review.Decide(metrics, e.cfg.Thresholds)
	e.cfg.Logger.Logf(terminal.StyleInfo, "Decision: %s", decision.Outcome)
	return state.Reduce(s, state.Update{Decision: &decision, UpdatedAt: time.Now()})
}

// report assembles the final report from the decision.
func (e *Engine) report(s state.ReviewState) state.ReviewState {
	rep := review.BuildReport(s, e.cfg.Thresholds)
	return state.Reduce(s, state.Update{Report: &rep, UpdatedAt: time.Now()})
}

func (e *Engine) notifyStarted(s state.ReviewState) {
	if e.cfg.Notifier == nil {
		return
	}
	if !e.cfg.Notifier.ReviewStarted(s.PR, len(s.Files)) {
		e.cfg.Logger.Log("start notification not sent", terminal.StyleDim)
	}
}

func (e *Engine) notifyComplete(s state.ReviewState) {
	if e.cfg.Notifier == nil || s.Report == nil || s.Decision == nil {
		return
	}
	if !e.cfg.Notifier.FinalReport(s.PR, *s.Report, s.Decision.Critical) {
		e.cfg.Logger.Log("final report notification not sent", terminal.StyleDim)
	}
}
