package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/view-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	ref      *runtime.ViewRef
	factory  *termRendererFactory
	viewport viewport.Model
	devMode  bool
	detached bool
	ticks    int
	ready    bool
}

func newInteractiveModel(devMode bool) *interactiveModel {
	return &interactiveModel{devMode: devMode}
}

func (m *interactiveModel) Init() tea.Cmd {
	m.factory = newTermRendererFactory()
	m.rt = runtime.New(runtime.WithRendererFactory(m.factory))
	ref, err := m.rt.Bootstrap(appDef(), nil, nil)
	if err != nil {
		m.err = err
		return nil
	}
	m.ref = ref
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-8)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 8
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.rt != nil {
				m.rt.Close()
			}
			return m, tea.Quit

		case "enter", "+":
			if m.ref == nil {
				break
			}
			m.factory.fire("click", nil)
			m.err = m.rt.TickAll()
			if m.err == nil && m.devMode {
				m.err = m.ref.CheckNoChanges()
			}
			m.ticks++

		case "t":
			if m.ref == nil {
				break
			}
			m.err = m.rt.TickAll()
			m.ticks++

		case "c":
			if m.ref != nil {
				m.err = m.ref.CheckNoChanges()
			}

		case "d":
			if m.ref == nil {
				break
			}
			if m.detached {
				m.ref.Reattach()
			} else {
				m.ref.Detach()
			}
			m.detached = !m.detached
		}
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport.SetContent(renderTree(m.factory.root, 0))
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("View Runtime"))
	b.WriteString(" demo-app\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	} else {
		b.WriteString(renderTree(m.factory.root, 0))
	}

	if m.ref != nil {
		if app, ok := m.ref.Component().(*CounterApp); ok {
			b.WriteString(statStyle.Render(fmt.Sprintf(
				"count=%d ticks=%d attached=%v | renderer: creates=%d setValue=%d classOps=%d",
				app.Count, m.ticks, !m.detached,
				m.factory.ops.creates, m.factory.ops.setValue, m.factory.ops.classOps)))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/+ click+tick • t tick • c check-no-changes • d detach/reattach • q quit"))
	return b.String()
}

func runInteractive(devMode bool) error {
	p := tea.NewProgram(newInteractiveModel(devMode), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
