// Package surface defines output rendering for Shelfguard scorecards.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/shelfguard/shelfguard/pkg/scoring"
)

// Renderer produces formatted output for a set of store scorecards.
type Renderer interface {
	// Render writes the formatted scorecards to the writer.
	Render(w io.Writer, cards []*scoring.Scorecard) error
}
