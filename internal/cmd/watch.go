package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/outrider/wayfinder/internal/supervisor"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live TUI view of state transitions",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := runtimeDir()
	if err != nil {
		return err
	}
	p := tea.NewProgram(newWatchModel(statusPath(dir)))
	_, err = p.Run()
	return err
}

type watchKeyMap struct {
	Quit key.Binding
}

func defaultWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type watchModel struct {
	statusFile string
	keys       watchKeyMap
	status     supervisor.Status
	err        error
	titleCaser cases.Caser
}

func newWatchModel(statusFile string) watchModel {
	return watchModel{
		statusFile: statusFile,
		keys:       defaultWatchKeyMap(),
		titleCaser: cases.Title(language.English),
	}
}

type tickMsg time.Time

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.poll, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type statusMsg struct {
	status supervisor.Status
	err    error
}

func (m watchModel) poll() tea.Msg {
	st, err := supervisor.ReadStatus(m.statusFile)
	return statusMsg{status: st, err: err}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(m.poll, tickCmd())
	case statusMsg:
		m.status = msg.status
		m.err = msg.err
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("waiting for wf run to start writing status...\n(%v)\n\npress q to quit", m.err)
	}
	state := m.titleCaser.String(displayState(m.status.State))
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	return box.Render(fmt.Sprintf(
		"state:  %s\narea:   %s\nupdated: %s\n\npress q to quit",
		state, m.status.AreaName, m.status.UpdatedAt.Format(time.TimeOnly),
	))
}

func displayState(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '_' {
			out = append(out, ' ')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
