// Package surface defines output rendering for priomage results.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/priomage/priomage/pkg/item"
	"github.com/priomage/priomage/pkg/scoring"
)

// ItemReport pairs a work item with its computed priority.
type ItemReport struct {
	Item       item.WorkItem  `json:"item"`
	Score      float64        `json:"score"`
	Level      scoring.Level  `json:"level"`
	GoalWeight float64        `json:"goal_weight"`
	Scored     bool           `json:"scored"` // false for pull requests, listed but not scored
}

// ExplainReport pairs a work item with its full scoring breakdown.
type ExplainReport struct {
	Item        item.WorkItem        `json:"item"`
	Explanation *scoring.Explanation `json:"explanation"`
}

// Renderer produces formatted output from priomage results.
type Renderer interface {
	// RenderList writes a listing of items with their priorities.
	RenderList(w io.Writer, reports []ItemReport) error
	// RenderExplanation writes one item's full scoring breakdown.
	RenderExplanation(w io.Writer, report ExplainReport) error
	// RenderProject writes the project's field metadata.
	RenderProject(w io.Writer, info *item.ProjectInfo, url string) error
}
