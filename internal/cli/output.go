package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Tone names a text style for command output.
type Tone int

// Tones, rendered with the terminal's palette.
const (
	TonePlain Tone = iota
	ToneGood
	ToneBad
	ToneWarn
	ToneAccent
	ToneStrong
	ToneMuted
)

var toneStyles = map[Tone]lipgloss.Style{
	ToneGood:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	ToneBad:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	ToneWarn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	ToneAccent: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	ToneStrong: lipgloss.NewStyle().Bold(true),
	ToneMuted:  lipgloss.NewStyle().Faint(true),
}

// Format selects how command results are printed.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Output writes command results either as styled text or as JSON/YAML.
type Output struct {
	w      io.Writer
	format Format
	// r is nil when styling is off.
	r *lipgloss.Renderer
}

// NewOutput reads --json and --yaml from cmd. Text goes to cmd's stdout and
// is styled only when that is a terminal.
func NewOutput(cmd *cobra.Command) *Output {
	o := &Output{w: cmd.OutOrStdout(), format: FormatText}
	if y, _ := cmd.Flags().GetBool("yaml"); y {
		o.format = FormatYAML
	}
	if j, _ := cmd.Flags().GetBool("json"); j {
		o.format = FormatJSON
	}
	if f, ok := o.w.(*os.File); ok && o.format == FormatText && isCharDevice(f) {
		o.r = lipgloss.NewRenderer(f)
	}
	return o
}

func isCharDevice(f *os.File) bool {
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

// DisableColor turns styling off.
func (o *Output) DisableColor() { o.r = nil }

// ColorEnabled reports whether text is styled.
func (o *Output) ColorEnabled() bool { return o.r != nil }

// IsStructured reports whether --json or --yaml was given.
func (o *Output) IsStructured() bool { return o.format != FormatText }

// Data writes v as YAML or JSON. YAML keys follow the json tags so both
// formats use the backend's field names.
func (o *Output) Data(v interface{}) error {
	if o.format != FormatYAML {
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(o.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// Paint styles text with tone when styling is on.
func (o *Output) Paint(tone Tone, text string) string {
	style, ok := toneStyles[tone]
	if o.r == nil || !ok {
		return text
	}
	return o.r.NewStyle().Inherit(style).Render(text)
}

func (o *Output) line(tone Tone, format string, args ...interface{}) {
	fmt.Fprintln(o.w, o.Paint(tone, fmt.Sprintf(format, args...)))
}

func (o *Output) Println(args ...interface{}) { fmt.Fprintln(o.w, args...) }

func (o *Output) Printf(format string, args ...interface{}) { fmt.Fprintf(o.w, format, args...) }

func (o *Output) Success(format string, args ...interface{}) { o.line(ToneGood, format, args...) }
func (o *Output) Error(format string, args ...interface{})   { o.line(ToneBad, format, args...) }
func (o *Output) Warning(format string, args ...interface{}) { o.line(ToneWarn, format, args...) }
func (o *Output) Info(format string, args ...interface{})    { o.line(ToneAccent, format, args...) }
func (o *Output) Bold(format string, args ...interface{})    { o.line(ToneStrong, format, args...) }
func (o *Output) Dim(format string, args ...interface{})     { o.line(ToneMuted, format, args...) }

// Sentiment colors label green above 0.1, red below -0.1 and yellow in
// between. A missing score leaves it plain.
func (o *Output) Sentiment(label string, score *float64) string {
	tone := TonePlain
	if score != nil {
		switch s := *score; {
		case s > 0.1:
			tone = ToneGood
		case s < -0.1:
			tone = ToneBad
		default:
			tone = ToneWarn
		}
	}
	return o.Paint(tone, label)
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

// Box prints lines inside a border with title on top.
func (o *Output) Box(title string, lines []string) {
	style := lipgloss.NewStyle().Border(asciiBorder)
	if o.r != nil {
		style = o.r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	}
	body := append([]string{o.Paint(ToneStrong, title)}, lines...)
	fmt.Fprintln(o.w, style.Padding(0, 1).Render(strings.Join(body, "\n")))
}

// Table collects rows and prints them with aligned columns.
type Table struct {
	out     *Output
	headers []string
	rows    [][]string
}

// NewTable starts a table with the given column headers.
func NewTable(out *Output, headers ...string) *Table {
	return &Table{out: out, headers: headers}
}

// AddRow appends a row. Cells beyond the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render prints the header, a rule and every row. Widths are measured
// without ANSI sequences so styled cells line up.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}
	widths := make([]int, len(t.headers))
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}

	t.print(t.headers, widths, ToneStrong)
	t.out.Println(t.out.Paint(ToneMuted, strings.Join(rule, "──")))
	for _, row := range t.rows {
		t.print(row, widths, TonePlain)
	}
}

func (t *Table) print(cells []string, widths []int, tone Tone) {
	var b strings.Builder
	for i := 0; i < len(cells) && i < len(widths); i++ {
		if i > 0 {
			b.WriteString("  ")
		}
		pad := widths[i] - lipgloss.Width(cells[i])
		b.WriteString(t.out.Paint(tone, cells[i]+strings.Repeat(" ", max(pad, 0))))
	}
	t.out.Println(strings.TrimRight(b.String(), " "))
}
