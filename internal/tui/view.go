package tui

import (
	"fmt"
	"strings"

	"github.com/huangsam/codearchitect/internal/form"
	"github.com/huangsam/codearchitect/internal/outwriter"
	"github.com/huangsam/codearchitect/schema"
)

const subtitle = "Autonomous code analysis powered by Gemini 3 Pro"

var fieldLabels = map[string]string{
	form.FieldRepositoryURL: "Repository URL",
	form.FieldBranch:        "Branch",
	form.FieldFocusAreas:    "Focus Areas",
	form.FieldDepth:         "Analysis Depth",
}

var fieldPlaceholders = map[string]string{
	form.FieldRepositoryURL: "https://github.com/user/repo",
	form.FieldBranch:        "main",
	form.FieldFocusAreas:    "architecture, performance, security",
	form.FieldDepth:         "1-5",
}

// View renders the page.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(schema.AppTitle))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(subtitle))
	b.WriteString("\n\n")

	if banner := m.ctrl.Banner(); banner != "" {
		b.WriteString(bannerStyle.Render(banner))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/shift+tab focus • enter submit/toggle • ↑/↓ select • ctrl+r reset • q quit"))
	return b.String()
}

func (m *Model) renderForm() string {
	values := m.form.Values()
	var lines []string
	for i, name := range form.FieldNames {
		value, _ := values.Get(name)
		shown := valueStyle.Render(value)
		if value == "" {
			shown = dimStyle.Render(fieldPlaceholders[name])
		}
		cursor := "  "
		if m.focus == i {
			cursor = "> "
			if !m.form.Loading() {
				shown += "█"
			}
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", cursor, labelStyle.Render(fieldLabels[name]+":"), shown))
	}

	button := "Start Analysis"
	if m.form.Loading() {
		button = "Analyzing..."
	}
	lines = append(lines, "", buttonStyle.Render(button))
	if m.formErr != "" {
		lines = append(lines, critStyle.Render(m.formErr))
	}

	style := panelStyle
	if m.focus < focusResults {
		style = activePanelStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderResults() string {
	if !m.session.HasID() {
		return panelStyle.Render(dimStyle.Render(outwriter.PlaceholderMessage))
	}

	view := schema.ViewOf(m.session)
	var lines []string
	lines = append(lines,
		fmt.Sprintf("%s %s", labelStyle.Render("Analysis ID:"), valueStyle.Render(m.session.AnalysisID)),
		fmt.Sprintf("%s %s", labelStyle.Render("Status:"), statusStyle(view.Status).Render(schema.StatusLabel(view.Status))),
	)

	if view.ShowFindings() {
		lines = append(lines, "", titleStyle.Render("Findings"))
		for i, p := range view.Panels {
			marker := "▸"
			if m.expanded[i] {
				marker = "▾"
			}
			header := fmt.Sprintf("%s %s", marker, p.Label)
			if m.focus == focusResults && m.selected == i {
				header = selectedStyle.Render(header)
			}
			lines = append(lines, header)
			if m.expanded[i] {
				for _, line := range strings.Split(p.Body, "\n") {
					lines = append(lines, "    "+line)
				}
			}
		}
	}

	if view.ShowRecommendations() {
		lines = append(lines, "", titleStyle.Render("Recommendations"))
		for _, rec := range view.Recommendations {
			lines = append(lines, okStyle.Render("✓")+" "+rec)
		}
	}

	lines = append(lines, "", helpStyle.Render("[ctrl+r] Start New Analysis"))

	style := panelStyle
	if m.focus == focusResults {
		style = activePanelStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}
