package main

import (
	"fmt"
	"io"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/yeeaiclub/fastoverlay/internal/demo"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open an interactive playground of stacked modals",
	RunE: func(cmd *cobra.Command, args []string) error {
		animation, _ := cmd.Flags().GetDuration("animation")
		logFile, _ := cmd.Flags().GetString("log-file")

		// The demo owns the screen; logs only go to a file.
		var out io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			out = f
		}
		demoLogger := log.NewWithOptions(out, log.Options{
			Prefix:          "fastoverlay",
			Level:           logger.GetLevel(),
			ReportTimestamp: true,
		})

		return demo.Run(cmd.Context(), demo.Config{
			ModalOptions: conf.ModalOptions(),
			Animation:    animation,
			Logger:       demoLogger,
		})
	},
}

func init() {
	demoCmd.Flags().Duration("animation", demo.DefaultAnimation, "simulated transition length")
	demoCmd.Flags().String("log-file", "", "write logs to this file")
	rootCmd.AddCommand(demoCmd)
}
