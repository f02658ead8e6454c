package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yeeaiclub/fastoverlay/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace [scenario...]",
	Short: "Run scripted modal lifecycles on a virtual clock",
	Long: `Runs each scenario on its own host with a virtual clock and prints every
state change. Without arguments all scenarios run. Available: ` + strings.Join(trace.Names(), ", "),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		if list {
			for _, s := range trace.Scenarios() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", s.Name, s.Description)
			}
			return nil
		}

		results, err := trace.RunAll(cmd.Context(), args, logger, conf.ModalOptions()...)
		if err != nil {
			return err
		}
		for _, res := range results {
			fmt.Fprintln(cmd.OutOrStdout(), renderResult(res))
		}
		return nil
	},
}

func init() {
	traceCmd.Flags().Bool("list", false, "list scenarios and exit")
	rootCmd.AddCommand(traceCmd)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = cellStyle.Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

func renderResult(res trace.Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("t", "modal", "from", "to").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(res.Events) && res.Events[row].Note != "" {
				return noteStyle
			}
			return cellStyle
		})
	for _, e := range res.Events {
		if e.Note != "" {
			t.Row(e.At.String(), e.Modal, e.Note, "")
			continue
		}
		t.Row(e.At.String(), e.Modal, e.From.String(), e.To.String())
	}
	return titleStyle.Render(res.Scenario) + "\n" + t.Render()
}
