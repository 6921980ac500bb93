package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const sectionWidth = 61 // inner width between │ and line end

// Section renders a box-drawing framed output section.
type Section struct {
	w     io.Writer
	name  string
	color bool
}

// NewSection creates a section and writes its header.
// If elapsed is non-zero, it appears right-aligned in the header.
func NewSection(w io.Writer, name string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, name: name, color: color}
	s.writeHeader(elapsed)
	return s
}

// Row writes a content line inside the section frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "    │ %s\n", fmt.Sprintf(format, args...))
}

// KV writes an aligned key/value row.
func (s *Section) KV(key, value string) {
	s.Row("%-15s%s", key, value)
}

// Separator writes a mid-section divider.
func (s *Section) Separator() {
	fmt.Fprintf(s.w, "    ├%s\n", strings.Repeat("─", sectionWidth))
}

// Close writes the section footer.
func (s *Section) Close() {
	fmt.Fprintf(s.w, "    └%s\n", strings.Repeat("─", sectionWidth))
}

// writeHeader renders: ── Name ──────────────────── elapsed ──
func (s *Section) writeHeader(elapsed time.Duration) {
	label := fmt.Sprintf("── %s ", s.name)
	suffix := "──"
	if elapsed > 0 {
		suffix = fmt.Sprintf(" %s ──", formatElapsed(elapsed))
	}

	fill := max(sectionWidth+4-len([]rune(label))-len([]rune(suffix)), 1)
	line := label + strings.Repeat("─", fill) + suffix
	if s.color {
		line = "\033[2;36m" + line + "\033[0m"
	}
	fmt.Fprintf(s.w, "\n    %s\n", line)
}

// StatusIcon returns the icon for a phase status: success, failed, anything else.
func StatusIcon(status string, color bool) string {
	var icon, code string
	switch status {
	case "success":
		icon, code = "✓", "32"
	case "failed":
		icon, code = "✗", "31"
	default:
		icon, code = "⊘", "33"
	}
	if !color {
		return icon
	}
	return "\033[" + code + "m" + icon + "\033[0m"
}

// Dimmed returns dimmed text if color is enabled.
func Dimmed(text string, color bool) string {
	if !color {
		return text
	}
	return "\033[90m" + text + "\033[0m"
}

// formatElapsed formats a duration for display in section headers.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	return fmt.Sprintf("%dm%.1fs", mins, d.Seconds()-float64(mins*60))
}

// SummaryRow writes a summary line with status icon.
func SummaryRow(w io.Writer, name, status, detail string, color bool) {
	fmt.Fprintf(w, "    │ %-12s%s  %s\n", name, StatusIcon(status, color), detail)
}

// SummaryTotal writes the final total line.
func SummaryTotal(w io.Writer, elapsed time.Duration, status string, color bool) {
	fmt.Fprintf(w, "    │ %-12s%40s   %s\n", "total", formatElapsed(elapsed), StatusIcon(status, color))
}
