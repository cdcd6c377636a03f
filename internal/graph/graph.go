// Package graph defines the review workflow as a static stage graph and
// runs it: one detect stage fans out to five parallel analysis stages whose
// updates are folded into the state at a single join, then coordinate,
// decide, and report run sequentially.
package graph

import (
	"github.com/richhaase/reviewflow/internal/state"
)

// Stage identifies a node in the workflow graph.
type Stage string

const (
	StageDetect        Stage = "detect"
	StageSecurity      Stage = "security"
	StageQuality       Stage = "quality"
	StageCoverage      Stage = "coverage"
	StageAIReview      Stage = "ai_review"
	StageDocumentation Stage = "documentation"
	StageCoordinate    Stage = "coordinate"
	StageDecide        Stage = "decide"
	StageReport        Stage = "report"
	StageDone          Stage = "done"
)

// AnalysisStages are the five stages that fan out from detect, in the
// canonical order used throughout the pipeline.
var AnalysisStages = []Stage{
	StageSecurity,
	StageQuality,
	StageCoverage,
	StageAIReview,
	StageDocumentation,
}

// Edges is the static topology. The detect edge set is the superset of what
// afterDetect may route to; all five analysis stages converge on coordinate.
var Edges = map[Stage][]Stage{
	StageDetect:        {StageSecurity, StageQuality, StageCoverage, StageAIReview, StageDocumentation, StageDone},
	StageSecurity:      {StageCoordinate},
	StageQuality:       {StageCoordinate},
	StageCoverage:      {StageCoordinate},
	StageAIReview:      {StageCoordinate},
	StageDocumentation: {StageCoordinate},
	StageCoordinate:    {StageDecide},
	StageDecide:        {StageReport},
	StageReport:        {StageDone},
}

// Validate checks that every edge target is a declared stage and that each
// analysis stage converges on coordinate. Used by tests to keep the topology
// honest.
func Validate() bool {
	known := map[Stage]bool{StageDone: true}
	for s := range Edges {
		known[s] = true
	}
	for _, targets := range Edges {
		for _, t := range targets {
			if !known[t] {
				return false
			}
		}
	}
	for _, a := range AnalysisStages {
		targets := Edges[a]
		if len(targets) != 1 || targets[0] != StageCoordinate {
			return false
		}
	}
	return true
}

// afterDetect routes from the detect stage: a failed fetch or an empty file
// snapshot ends the review without invoking any analyzer; otherwise all five
// analysis stages run.
func afterDetect(s state.ReviewState) []Stage {
	if s.Failed() || len(s.Files) == 0 {
		return []Stage{StageDone}
	}
	return AnalysisStages
}

// stragglers names the analyses the coordinate stage found no results for.
// Coordination is permissive: the pipeline proceeds to decide regardless,
// leaving absent metrics at their zero values.
func stragglers(s state.ReviewState) []string {
	if s.Summary == nil {
		return nil
	}
	return s.Summary.Missing()
}
