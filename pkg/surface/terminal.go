package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shelfguard/shelfguard/pkg/scoring"
)

// TerminalRenderer renders scorecards as colored terminal output.
type TerminalRenderer struct {
	// MaxFindings caps the findings shown per rule. Zero means the
	// default of 5.
	MaxFindings int
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func classColor(class scoring.Classification) string {
	if noColor() {
		return ""
	}
	switch class {
	case scoring.ClassCritical, scoring.ClassRisky:
		return colorRed
	case scoring.ClassCaution:
		return colorYellow
	case scoring.ClassClean:
		return colorGreen
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, cards []*scoring.Scorecard) error {
	for i, card := range cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		r.renderCard(w, card)
	}
	return nil
}

func (r *TerminalRenderer) renderCard(w io.Writer, card *scoring.Scorecard) {
	cc := classColor(card.Classification)

	// Header
	fmt.Fprintf(w, "%s\n",
		bold(fmt.Sprintf("Store %s: %s — Score %.1f",
			card.StoreID, colored(string(card.Classification), cc), card.TotalScore)))
	if card.Manager != "" || card.Region != "" {
		fmt.Fprintf(w, "%s\n",
			dim(fmt.Sprintf("Manager: %s  Region: %s  Periods: %s",
				card.Manager, card.Region, strings.Join(card.Periods, ", "))))
	}
	fmt.Fprintln(w)

	// Findings per rule
	maxFindings := r.MaxFindings
	if maxFindings <= 0 {
		maxFindings = 5
	}
	hasFindings := false
	for _, rs := range card.Breakdown {
		if rs.Contribution == 0 && len(rs.Findings) == 0 && !rs.Degraded {
			continue
		}
		if !hasFindings {
			fmt.Fprintln(w, "Findings:")
			hasFindings = true
		}

		fmt.Fprintf(w, "  (+%.1f/%.0f) %s", rs.Contribution, rs.MaxContribution, bold(rs.Name))
		if rs.Degraded {
			fmt.Fprintf(w, " %s", colored("[degraded]", colorYellow))
		}
		if len(rs.Findings) > 0 {
			fmt.Fprintf(w, " — %s", rs.Findings[0].Summary)
		}
		fmt.Fprintln(w)

		shown := len(rs.Findings)
		if shown > maxFindings {
			shown = maxFindings
		}
		for i := 1; i < shown; i++ {
			fmt.Fprintf(w, "         %s\n", dim(rs.Findings[i].Summary))
		}
		if len(rs.Findings) > maxFindings {
			fmt.Fprintf(w, "         %s\n", dim(fmt.Sprintf("... and %d more", len(rs.Findings)-maxFindings)))
		}
		fmt.Fprintln(w)
	}

	if !hasFindings {
		fmt.Fprintln(w, "No findings.")
		fmt.Fprintln(w)
	}

	// Diagnosis
	if card.Diagnosis != "" {
		for _, line := range wrapText(card.Diagnosis, 70) {
			fmt.Fprintf(w, "%s\n", line)
		}
	}
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
