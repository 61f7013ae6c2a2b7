package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/rsacrack/pkg/dispatch"
	"github.com/germanamz/rsacrack/pkg/display"
)

const (
	defaultWidth  = 100
	paneMaxLines  = 12
	paneMinWidth  = 24
	paneGapsWidth = 4 // border and padding
)

type keyMap struct {
	Classic  key.Binding
	Classify key.Binding
	Lotto    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Classic:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "factor")),
	Classify: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "classify")),
	Lotto:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "lotto")),
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
}

// appModel is the root bubbletea model. The event loop is the only writer
// of the board; calls run in commands and report back with outcomeMsg.
type appModel struct {
	ctx   context.Context
	disp  *dispatch.Dispatcher
	board *display.Board
	form  formModel
	busy  map[display.Target]int
	width int
}

func newAppModel(ctx context.Context, disp *dispatch.Dispatcher, defaults dispatch.Form) appModel {
	return appModel{
		ctx:   ctx,
		disp:  disp,
		board: display.NewBoard(),
		form:  newForm(defaults),
		busy:  make(map[display.Target]int),
		width: defaultWidth,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.healthCmd())
}

func (m appModel) healthCmd() tea.Cmd {
	ctx, disp := m.ctx, m.disp
	return func() tea.Msg {
		return outcomeMsg{out: disp.Health(ctx)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case outcomeMsg:
		msg.out.Render(m.board)
		if m.busy[msg.out.Target] > 0 {
			m.busy[msg.out.Target]--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Classic):
		return m, m.trigger(dispatch.Classic)
	case key.Matches(msg, keys.Classify):
		return m, m.trigger(dispatch.Classify)
	case key.Matches(msg, keys.Lotto):
		return m, m.trigger(dispatch.Lotto)
	case key.Matches(msg, keys.Next):
		var cmd tea.Cmd
		m.form, cmd = m.form.move(1)
		return m, cmd
	case key.Matches(msg, keys.Prev):
		var cmd tea.Cmd
		m.form, cmd = m.form.move(-1)
		return m, cmd
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// trigger reads the controls, writes the prompt or placeholder right away
// and returns the command that performs the call, if any.
func (m appModel) trigger(a dispatch.Action) tea.Cmd {
	c, now, ok := m.disp.Prepare(a, m.form.values())
	now.Render(m.board)
	if !ok {
		return nil
	}

	m.busy[now.Target]++

	ctx, disp := m.ctx, m.disp
	return func() tea.Msg {
		return outcomeMsg{out: disp.Execute(ctx, c)}
	}
}

func (m appModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("rsacrack"))
	sb.WriteString("  ")
	sb.WriteString(healthBadge(m.board.Get(display.Health)))
	sb.WriteString("\n\n")

	sb.WriteString(m.form.View())
	sb.WriteString("\n\n")

	sb.WriteString(m.panes())
	sb.WriteString("\n")

	sb.WriteString(dimStyle.Render(helpLine()))
	return sb.String()
}

func (m appModel) panes() string {
	outputs := []struct {
		title  string
		target display.Target
	}{
		{"classic", display.Classic},
		{"classify", display.Classify},
		{"lotto", display.Lotto},
	}

	stacked := m.width < 3*(paneMinWidth+paneGapsWidth)
	w := (m.width - 3*paneGapsWidth) / 3
	if stacked {
		w = max(m.width-paneGapsWidth, paneMinWidth)
	}

	views := make([]string, 0, len(outputs))
	for _, o := range outputs {
		style := paneStyle
		if m.busy[o.target] > 0 {
			style = busyPaneStyle
		}

		body := truncate(clipLines(m.board.Get(o.target), paneMaxLines), w)
		views = append(views, style.Width(w+2).Render(paneTitle.Render(o.title)+"\n"+body))
	}

	if stacked {
		return lipgloss.JoinVertical(lipgloss.Left, views...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func healthBadge(status string) string {
	switch status {
	case dispatch.HealthOK:
		return healthOKStyle.Render("● " + status)
	case dispatch.HealthDegraded:
		return healthDegradedStyle.Render("● " + status)
	case dispatch.HealthUnreachable:
		return healthDownStyle.Render("● " + status)
	default:
		return healthPendingStyle.Render("○ checking")
	}
}

func helpLine() string {
	bindings := []key.Binding{keys.Classic, keys.Classify, keys.Lotto, keys.Next, keys.Quit}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
