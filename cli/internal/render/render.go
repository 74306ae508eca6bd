package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts text, json, markdown (or md), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("render: unknown output format %q (want text|json|markdown)", s)
}

// BarWidth is the number of cells in a full-scale bar.
const BarWidth = 20

// ── Styles ───────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fde68a"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#94a3b8")).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Width(12)

	filledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d97706"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	tipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	paramStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))
)

// labels holds the per-locale section headings and dimension names.
type labels struct {
	title, profile, notes, tips, guide string
	dims                               [4]string
}

var labelsByLocale = map[flavor.Locale]labels{
	flavor.LocaleEN: {
		title:   "Brew simulation",
		profile: "Flavor intensity",
		notes:   "Likely flavor",
		tips:    "Suggested adjustments",
		guide:   "Brewing basics",
		dims:    [4]string{"Acidity", "Sweetness", "Bitterness", "Body"},
	},
	flavor.LocaleZH: {
		title:   "模擬結果",
		profile: "風味強度預測",
		notes:   "可能風味敘述",
		tips:    "建議調整方向",
		guide:   "咖啡沖煮小知識",
		dims:    [4]string{"酸度", "甜感", "苦味", "醇厚度"},
	},
}

func labelsFor(loc flavor.Locale) labels {
	if l, ok := labelsByLocale[loc]; ok {
		return l
	}
	return labelsByLocale[flavor.LocaleEN]
}

func scores(f types.FlavorProfile) [4]float64 {
	return [4]float64{f.Acidity, f.Sweetness, f.Bitterness, f.Body}
}

// Bar renders score as a BarWidth-cell bar scaled to types.ScoreMax.
// Scores outside [0, ScoreMax] are clamped.
func Bar(score float64) string {
	n := cells(score)
	return strings.Repeat("█", n) + strings.Repeat("░", BarWidth-n)
}

// cells is the number of filled cells for score.
func cells(score float64) int {
	n := int(math.Round(score / types.ScoreMax * BarWidth))
	return max(0, min(BarWidth, n))
}

// Simulation writes sim to w in format f.
func Simulation(w io.Writer, sim flavor.Simulation, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, sim)
	case FormatMarkdown:
		return simulationMarkdown(w, sim)
	default:
		return simulationText(w, sim)
	}
}

func simulationText(w io.Writer, sim flavor.Simulation) error {
	l := labelsFor(sim.Locale)
	var b strings.Builder

	b.WriteString(titleStyle.Render("☕ "+l.title) + "\n")
	b.WriteString(paramStyle.Render(paramLine(sim.Params)) + "\n")

	b.WriteString(headerStyle.Render(l.profile) + "\n")
	for i, s := range scores(sim.Profile) {
		n := cells(s)
		b.WriteString(labelStyle.Render(l.dims[i]) + " " +
			filledStyle.Render(strings.Repeat("█", n)) +
			emptyStyle.Render(strings.Repeat("░", BarWidth-n)) + " " +
			scoreStyle.Render(fmt.Sprintf("%.1f", s)) + "\n")
	}

	b.WriteString(headerStyle.Render(l.notes) + "\n")
	for _, n := range sim.Notes {
		b.WriteString(noteStyle.Render("  "+stripEmphasis(n)) + "\n")
	}

	b.WriteString(headerStyle.Render(l.tips) + "\n")
	for _, t := range sim.Tips {
		b.WriteString(tipStyle.Render("  • "+stripEmphasis(t.Text)) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func simulationMarkdown(w io.Writer, sim flavor.Simulation) error {
	l := labelsFor(sim.Locale)
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", l.title)
	fmt.Fprintf(&b, "`%s`\n\n", paramLine(sim.Params))

	fmt.Fprintf(&b, "### %s\n\n", l.profile)
	b.WriteString("| | | |\n|---|---|---|\n")
	for i, s := range scores(sim.Profile) {
		fmt.Fprintf(&b, "| %s | `%s` | %.1f |\n", l.dims[i], Bar(s), s)
	}

	fmt.Fprintf(&b, "\n### %s\n\n", l.notes)
	for _, n := range sim.Notes {
		fmt.Fprintf(&b, "- %s\n", n)
	}

	fmt.Fprintf(&b, "\n### %s\n\n", l.tips)
	for _, t := range sim.Tips {
		fmt.Fprintf(&b, "- %s\n", t.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Params writes a parameter set.
func Params(w io.Writer, p types.BrewParameters, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, p)
	case FormatMarkdown:
		_, err := fmt.Fprintf(w, "`%s`\n", paramLine(p))
		return err
	default:
		_, err := fmt.Fprintln(w, paramStyle.Render(paramLine(p)))
		return err
	}
}

// Topics writes guide topics for loc.
func Topics(w io.Writer, loc flavor.Locale, topics []flavor.Topic, f Format) error {
	if f == FormatJSON {
		return writeJSON(w, topics)
	}

	l := labelsFor(loc)
	var b strings.Builder
	if f == FormatMarkdown {
		fmt.Fprintf(&b, "## %s\n", l.guide)
		for _, t := range topics {
			fmt.Fprintf(&b, "\n### %s\n\n%s\n\n", t.Title, t.Intro)
			for _, p := range t.Points {
				fmt.Fprintf(&b, "- %s\n", p)
			}
		}
	} else {
		b.WriteString(titleStyle.Render("💡 "+l.guide) + "\n")
		for _, t := range topics {
			b.WriteString(headerStyle.Render(t.Title+paramStyle.Render(" ("+t.ID+")")) + "\n")
			b.WriteString("  " + stripEmphasis(t.Intro) + "\n")
			for _, p := range t.Points {
				b.WriteString(noteStyle.Render("  • "+stripEmphasis(p)) + "\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// paramLine is the one-line summary shared by every format.
func paramLine(p types.BrewParameters) string {
	return fmt.Sprintf("1:%g · %ds · %d°C · %s grind · %s · %s roast · bloom %ds ×%g · %d pours",
		p.Ratio, p.BrewTime, p.Temperature, p.GrindSize, p.ProcessMethod, p.RoastLevel,
		p.BloomTime, p.BloomRatio, p.PourCount)
}

// stripEmphasis drops markdown bold markers for terminal output.
func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
