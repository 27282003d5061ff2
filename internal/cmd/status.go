package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/outrider/wayfinder/internal/supervisor"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current state and area",
	RunE:  runStatus,
}

var (
	stateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runStatus(cmd *cobra.Command, args []string) error {
	dir, err := runtimeDir()
	if err != nil {
		return err
	}
	st, err := supervisor.ReadStatus(statusPath(dir))
	if err != nil {
		return fmt.Errorf("no status available (is wf running?): %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 60
	}

	fmt.Println(lipgloss.NewStyle().Width(width).Render(
		labelStyle.Render("running: ") + fmt.Sprint(st.Running) + "  " +
			labelStyle.Render("state: ") + stateStyle.Render(st.State) + "  " +
			labelStyle.Render("area: ") + st.AreaName,
	))
	return nil
}
