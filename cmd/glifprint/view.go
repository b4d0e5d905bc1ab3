package main

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/midbel/glifprint/trace"
)

var footerStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 1)

type pager struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
	footer   lipgloss.Style
}

// newPager builds the pager model. The footer is only styled for colored
// themes.
func newPager(title, content string, theme trace.Theme) pager {
	p := pager{
		title:   title,
		content: content,
		footer:  lipgloss.NewStyle(),
	}
	if theme.Colored() {
		p.footer = footerStyle
	}
	return p
}

func (p pager) Init() tea.Cmd {
	return nil
}

func (p pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := max(msg.Height-1, 1)
		if !p.ready {
			p.viewport = viewport.New(viewport.WithWidth(msg.Width), viewport.WithHeight(height))
			p.viewport.SetContent(p.content)
			p.ready = true
		} else {
			p.viewport.SetWidth(msg.Width)
			p.viewport.SetHeight(height)
		}
	}
	var cmd tea.Cmd
	if p.ready {
		p.viewport, cmd = p.viewport.Update(msg)
	}
	return p, cmd
}

func (p pager) View() tea.View {
	if !p.ready {
		return tea.NewView("loading...")
	}
	v := tea.NewView(p.viewport.View() + "\n" + p.status())
	v.AltScreen = true
	return v
}

func (p pager) status() string {
	return p.footer.Render(fmt.Sprintf("%s %3.f%%", p.title, p.viewport.ScrollPercent()*100))
}

func view(p pager, w io.Writer) error {
	prg := tea.NewProgram(p, tea.WithOutput(w))
	_, err := prg.Run()
	return err
}
