package replay

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Summary counts outcomes by result and dominant orientation.
type Summary struct {
	Files        int
	Failed       int
	Orientations map[string]int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Files: len(outcomes), Orientations: map[string]int{}}
	for _, o := range outcomes {
		if o.Err != nil {
			s.Failed++
			continue
		}
		if o.Lens != nil {
			s.Orientations[o.Lens.Metadata.Orientation]++
		}
	}
	return s
}

// Markdown renders outcomes as a markdown report, one section per file.
func Markdown(outcomes []Outcome) string {
	var sb strings.Builder
	sb.WriteString("# Conversation replay\n")
	for _, o := range outcomes {
		fmt.Fprintf(&sb, "\n## %s\n\n", o.Path)
		if o.Err != nil {
			fmt.Fprintf(&sb, "**Failed:** %v\n", o.Err)
			continue
		}
		l := o.Lens
		m := l.Metadata
		fmt.Fprintf(&sb, "| Orientation | Tone | Engagement | Exchanges | Avg sentiment |\n")
		fmt.Fprintf(&sb, "|---|---|---|---|---|\n")
		fmt.Fprintf(&sb, "| %s | %s | %s | %d | %.2f |\n\n",
			m.Orientation, m.EmotionalTone, m.EngagementLevel,
			l.Metrics.TotalExchanges, l.Metrics.AverageSentiment)

		if topics := topThemes(l.Metrics.ThemeFrequency, 3); len(topics) > 0 {
			fmt.Fprintf(&sb, "Themes: %s\n\n", strings.Join(topics, ", "))
		}
		if o.Reply != "" {
			fmt.Fprintf(&sb, "> %s\n", o.Reply)
		}
		if l.Reply.NextQuestion != "" {
			fmt.Fprintf(&sb, "\nNext question: *%s*\n", l.Reply.NextQuestion)
		}
	}
	return sb.String()
}

// topThemes returns up to n themes, most frequent first, ties by name.
func topThemes(freq map[string]int, n int) []string {
	themes := make([]string, 0, len(freq))
	for t := range freq {
		themes = append(themes, t)
	}
	sort.Slice(themes, func(i, j int) bool {
		if freq[themes[i]] != freq[themes[j]] {
			return freq[themes[i]] > freq[themes[j]]
		}
		return themes[i] < themes[j]
	})
	if len(themes) > n {
		themes = themes[:n]
	}
	return themes
}

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// SummaryLine formats s for a terminal.
func SummaryLine(s Summary) string {
	line := okStyle.Render(fmt.Sprintf("%d analyzed", s.Files-s.Failed))
	if s.Failed > 0 {
		line += ", " + failStyle.Render(fmt.Sprintf("%d failed", s.Failed))
	}
	keys := make([]string, 0, len(s.Orientations))
	for k := range s.Orientations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf("  %s:%d", k, s.Orientations[k])
	}
	return line
}

// Render writes the markdown report to w, styled with glamour when w is a
// terminal and as plain markdown otherwise.
func Render(w io.Writer, md string) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, md)
		return err
	}

	width := 100
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 20 {
		width = cols - 4
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
