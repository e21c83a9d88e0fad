package surface

import (
	"encoding/json"
	"io"

	"github.com/shelfguard/shelfguard/pkg/scoring"
)

// JSONRenderer marshals scorecards to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, cards []*scoring.Scorecard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}
