package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

func sample(loc flavor.Locale) flavor.Simulation {
	return flavor.Simulate(loc, types.Defaults())
}

func TestBar(t *testing.T) {
	tests := []struct {
		score  float64
		filled int
	}{
		{0, 0},
		{2.5, 10},
		{4, 16},
		{5, 20},
		{0.1, 0},
		{-1, 0},
		{7, 20},
	}
	for _, tc := range tests {
		got := Bar(tc.score)
		if n := strings.Count(got, "█"); n != tc.filled {
			t.Errorf("Bar(%v): %d filled, want %d", tc.score, n, tc.filled)
		}
		if n := len([]rune(got)); n != BarWidth {
			t.Errorf("Bar(%v): width %d, want %d", tc.score, n, BarWidth)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{" markdown ", FormatMarkdown, false},
		{"yaml", "", true},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFormat(%q): err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimulation_Text(t *testing.T) {
	sim := sample(flavor.LocaleEN)
	var buf bytes.Buffer
	if err := Simulation(&buf, sim, FormatText); err != nil {
		t.Fatalf("Simulation: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Flavor intensity", "Acidity", "Body", "4.0", "Suggested adjustments"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**") {
		t.Error("text output should not contain markdown emphasis")
	}
	for _, n := range sim.Notes {
		if !strings.Contains(out, stripEmphasis(n)) {
			t.Errorf("text output missing note %q", n)
		}
	}
}

func TestSimulation_TextLocalizedLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := Simulation(&buf, sample(flavor.LocaleZH), FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"風味強度預測", "酸度", "醇厚度", "建議調整方向"} {
		if !strings.Contains(out, want) {
			t.Errorf("zh output missing %q", want)
		}
	}
}

func TestSimulation_Markdown(t *testing.T) {
	sim := sample(flavor.LocaleEN)
	var buf bytes.Buffer
	if err := Simulation(&buf, sim, FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "## Brew simulation\n") {
		t.Errorf("markdown should start with the title, got %q", out[:min(40, len(out))])
	}
	if !strings.Contains(out, "| Acidity | `"+Bar(4)+"` | 4.0 |") {
		t.Errorf("markdown missing acidity row:\n%s", out)
	}
	for _, tip := range sim.Tips {
		if !strings.Contains(out, "- "+tip.Text+"\n") {
			t.Errorf("markdown missing tip %q", tip.Text)
		}
	}
}

func TestSimulation_JSON(t *testing.T) {
	sim := sample(flavor.LocaleEN)
	var buf bytes.Buffer
	if err := Simulation(&buf, sim, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var got flavor.Simulation
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Profile != sim.Profile || got.Params != sim.Params {
		t.Errorf("decoded %+v, want %+v", got, sim)
	}
}

func TestTopics(t *testing.T) {
	topics := flavor.Guide(flavor.LocaleEN)

	var md bytes.Buffer
	if err := Topics(&md, flavor.LocaleEN, topics, FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	for _, tp := range topics {
		if !strings.Contains(md.String(), "### "+tp.Title) {
			t.Errorf("markdown missing topic %q", tp.Title)
		}
	}

	var text bytes.Buffer
	if err := Topics(&text, flavor.LocaleEN, topics[:1], FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "("+topics[0].ID+")") {
		t.Errorf("text output missing topic id:\n%s", text.String())
	}
}

func TestParams(t *testing.T) {
	var buf bytes.Buffer
	if err := Params(&buf, types.Defaults(), FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	want := "`1:15 · 150s · 90°C · medium grind · washed · medium roast · bloom 30s ×2 · 2 pours`\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
