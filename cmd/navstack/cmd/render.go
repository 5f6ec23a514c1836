package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/navstack/cmd/navstack/internal/sim"
	"github.com/go-drift/navstack/pkg/config"
)

type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
	name  lipgloss.Style
	box   lipgloss.Style
}

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func newStyles(plain bool) styles {
	if plain {
		return styles{
			title: lipgloss.NewStyle(),
			ok:    lipgloss.NewStyle(),
			fail:  lipgloss.NewStyle(),
			muted: lipgloss.NewStyle(),
			name:  lipgloss.NewStyle(),
			box:   lipgloss.NewStyle(),
		}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true),
		ok:    lipgloss.NewStyle().Foreground(ac("#2e7d32", "#81c784")).Bold(true),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d16d7a")).Bold(true),
		muted: lipgloss.NewStyle().Foreground(ac("240", "245")),
		name:  lipgloss.NewStyle().Foreground(ac("#1565c0", "#90caf9")),
		box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ac("250", "238")).Padding(0, 1),
	}
}

func renderConfig(st styles, path string, cfg *config.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", st.ok.Render("valid"), path, cfg.Version)
	for _, c := range cfg.Containers {
		anim := c.Animation.Type
		if anim == "" {
			anim = "default"
		}
		fmt.Fprintf(&b, "  %-12s %-6s %s\n", st.name.Render(c.Name), c.Kind, st.muted.Render("animation="+anim))
	}
	for _, l := range cfg.Links {
		fmt.Fprintf(&b, "  %s %s %s:%s\n", st.muted.Render("link"), l.Path, l.Container, l.Key)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStep(st styles, res sim.StepResult) string {
	mark := st.ok.Render("ok")
	if !res.OK() {
		mark = st.fail.Render("FAIL")
	}
	head := fmt.Sprintf("%s %s %s", st.title.Render(fmt.Sprintf("#%d", res.Index)), res.Step, mark)
	meta := st.muted.Render(fmt.Sprintf("%d frames, %s", res.Frames, res.Elapsed))

	lines := []string{head + "  " + meta}
	if res.Err != nil {
		label := "error"
		if res.Step.ExpectError {
			label = "expected error"
		}
		lines = append(lines, st.muted.Render(label+": ")+res.Err.Error())
	}
	for _, c := range res.Containers {
		entries := strings.Join(c.Entries, " > ")
		if entries == "" {
			entries = st.muted.Render("(empty)")
		}
		line := fmt.Sprintf("%s %s", st.name.Render(fmt.Sprintf("%-10s", c.Name)), entries)
		if c.Active != "" {
			line += st.muted.Render(" active=") + c.Active
		}
		if c.Busy {
			line += st.fail.Render(" busy")
		}
		lines = append(lines, line)
	}
	return st.box.Render(strings.Join(lines, "\n"))
}
