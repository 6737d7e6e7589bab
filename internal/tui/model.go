// Package tui is the interactive menu loop. It renders the live session
// list, reads one key at a time, and dispatches through a closed
// command set. No action is fatal; every failure becomes a notice and
// the loop keeps going. Only an explicit quit ends the program.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/manager"
)

type mode int

const (
	modeMain mode = iota
	modeConfig
	modePrompt
)

// promptPurpose says which action a completed prompt feeds.
type promptPurpose int

const (
	promptCreate promptPurpose = iota
	promptAttach
	promptDelete
	promptRenameTarget
	promptRenameNew
)

type sessionsMsg struct {
	names []string
	err   error
}

type actionMsg struct {
	status string
	err    error

	// attach, when set, asks the loop to follow up with a blocking
	// attach to that session.
	attach string
}

type attachDoneMsg struct {
	name string
	err  error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	listStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// Model is the menu loop's state. One Model lives for the whole
// interactive run; mode changes are field changes, not new programs.
type Model struct {
	state *manager.State

	mode     mode
	purpose  promptPurpose
	input    textinput.Model
	sessions []string

	// renameTarget holds the resolved name between the two rename
	// prompts.
	renameTarget string

	notice string
	status string
	width  int
}

// NewModel builds the initial model. The settings-load notice, if any,
// is shown on the first render.
func NewModel(state *manager.State) Model {
	ti := textinput.New()
	ti.CharLimit = 120

	m := Model{state: state, input: ti, status: "loading sessions"}
	if state.Notice != nil {
		m.notice = state.Notice.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m Model) refreshCmd() tea.Cmd {
	reg := m.state.Registry
	return func() tea.Msg {
		names, err := reg.List(context.Background())
		return sessionsMsg{names: names, err: err}
	}
}

func (m Model) saveSnapshotCmd() tea.Cmd {
	st := m.state
	return func() tea.Msg {
		if !st.Settings.SessionFileEnabled {
			return actionMsg{status: "session file is disabled, nothing saved"}
		}
		if err := st.SaveSnapshot(context.Background()); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "sessions saved to " + st.Settings.SessionFilePath}
	}
}

func (m Model) createCmd(name string) tea.Cmd {
	reg := m.state.Registry
	attachAfter := m.state.Settings.AttachAfterCreation
	return func() tea.Msg {
		created, err := reg.CreateDetached(context.Background(), name, "")
		if err != nil {
			return actionMsg{err: err}
		}
		if attachAfter {
			return actionMsg{status: "created " + created, attach: created}
		}
		return actionMsg{status: "created " + created}
	}
}

func (m Model) deleteCmd(identifier string) tea.Cmd {
	reg := m.state.Registry
	return func() tea.Msg {
		name, err := reg.Delete(context.Background(), identifier)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "deleted " + name}
	}
}

func (m Model) renameCmd(target, newName string) tea.Cmd {
	reg := m.state.Registry
	return func() tea.Msg {
		if _, err := reg.Rename(context.Background(), target, newName); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "renamed " + target + " to " + newName}
	}
}

// attachTo resolves the identifier against the live list and hands the
// terminal to the multiplexer. Resolution happens here, synchronously,
// so a vanished session is a notice rather than a broken exec.
func (m *Model) attachTo(identifier string) tea.Cmd {
	name, cmd, err := m.state.Registry.AttachCommand(context.Background(), identifier)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.status = "attached to " + name
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return attachDoneMsg{name: name, err: err}
	})
}

func (m *Model) fail(err error) {
	if errors.IsUserInput(err) {
		m.notice = err.Error()
	} else {
		m.notice = "action failed: " + err.Error()
	}
}

func (m *Model) startPrompt(purpose promptPurpose, label, placeholder string) {
	m.mode = modePrompt
	m.purpose = purpose
	m.input.Prompt = label + " "
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sessionsMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.sessions = msg.names
		if m.status == "loading sessions" {
			m.status = ""
		}
		return m, nil

	case actionMsg:
		if msg.attach != "" {
			m.status = msg.status
			cmd := m.attachTo(msg.attach)
			return m, cmd
		}
		if msg.err != nil {
			m.fail(msg.err)
			return m, m.refreshCmd()
		}
		m.notice = ""
		m.status = msg.status
		return m, m.refreshCmd()

	case attachDoneMsg:
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.status = "detached from " + msg.name
		}
		return m, m.refreshCmd()

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfig:
			return m.updateConfig(msg)
		default:
			return m.updateMain(msg)
		}
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, index := parseMainCommand(msg.String())
	switch cmd {
	case cmdAttachIndex:
		cmd := m.attachTo(strconv.Itoa(index))
		return m, cmd
	case cmdNewSession:
		m.startPrompt(promptCreate, "new session name:", "empty for a generated name")
		return m, nil
	case cmdAttach:
		m.startPrompt(promptAttach, "attach to:", "number or name")
		return m, nil
	case cmdDelete:
		m.startPrompt(promptDelete, "delete:", "number or name")
		return m, nil
	case cmdRename:
		m.startPrompt(promptRenameTarget, "rename:", "number or name")
		return m, nil
	case cmdSaveSnapshot:
		return m, m.saveSnapshotCmd()
	case cmdRefresh:
		m.status = "refreshing"
		return m, m.refreshCmd()
	case cmdConfig:
		m.mode = modeConfig
		m.notice = ""
		return m, nil
	case cmdQuit:
		return m, tea.Quit
	}

	m.notice = fmt.Sprintf("invalid option %q", msg.String())
	return m, nil
}

func (m Model) updateConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch parseConfigCommand(msg.String()) {
	case cfgToggleSessionFile:
		if err := m.state.Settings.Toggle(manager.FieldSessionFileEnabled); err != nil {
			m.fail(err)
		}
		return m, nil
	case cfgToggleAttach:
		if err := m.state.Settings.Toggle(manager.FieldAttachAfterCreation); err != nil {
			m.fail(err)
		}
		return m, nil
	case cfgBack:
		m.mode = modeMain
		m.notice = ""
		return m, m.refreshCmd()
	}

	m.notice = fmt.Sprintf("invalid option %q", msg.String())
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = modeMain
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.mode = modeMain
		m.input.Blur()
		return m.dispatchPrompt(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) dispatchPrompt(value string) (tea.Model, tea.Cmd) {
	switch m.purpose {
	case promptCreate:
		return m, m.createCmd(value)
	case promptAttach:
		if value == "" {
			return m, nil
		}
		cmd := m.attachTo(value)
		return m, cmd
	case promptDelete:
		if value == "" {
			return m, nil
		}
		return m, m.deleteCmd(value)
	case promptRenameTarget:
		if value == "" {
			return m, nil
		}
		m.renameTarget = value
		m.startPrompt(promptRenameNew, "new name for "+value+":", "")
		return m, nil
	case promptRenameNew:
		if value == "" {
			return m, nil
		}
		return m, m.renameCmd(m.renameTarget, value)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.mode {
	case modeConfig:
		return m.viewConfig()
	case modePrompt:
		return m.viewPrompt()
	}
	return m.viewMain()
}

func (m Model) viewMain() string {
	title := titleStyle.Render("deskmux") + dimStyle.Render("  backend: "+m.state.Backend().Name())

	var list string
	if len(m.sessions) == 0 {
		list = listStyle.Render("(no sessions)")
	} else {
		lines := make([]string, 0, len(m.sessions))
		for i, name := range m.sessions {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, name))
		}
		list = listStyle.Render(strings.Join(lines, "\n"))
	}

	help := dimStyle.Render("1-9 attach  n new  a attach  d delete  r rename  s save  l refresh  c config  q quit")
	return joinScreen(title, list, m.feedback(), help)
}

func (m Model) viewConfig() string {
	title := titleStyle.Render("deskmux config")
	body := listStyle.Render(strings.Join([]string{
		fmt.Sprintf("1. session file   %s", onOff(m.state.Settings.SessionFileEnabled)),
		fmt.Sprintf("2. attach on new  %s", onOff(m.state.Settings.AttachAfterCreation)),
		"",
		"session file: " + m.state.Settings.SessionFilePath,
	}, "\n"))
	help := dimStyle.Render("1/2 toggle  b back")
	return joinScreen(title, body, m.feedback(), help)
}

func (m Model) viewPrompt() string {
	title := titleStyle.Render("deskmux")
	help := dimStyle.Render("enter confirm  esc cancel")
	return joinScreen(title, m.input.View(), m.feedback(), help)
}

func (m Model) feedback() string {
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func joinScreen(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, kept...) + "\n"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
