package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vera/internal/pipeline"
	"vera/internal/ui"
)

var monitorTitle string

func init() {
	monitorCmd.Flags().StringVar(&monitorTitle, "title", "verification", "progress header")
}

var monitorCmd = &cobra.Command{
	Use:   "monitor [session-file]",
	Short: "Render a recorded verification session",
	Long: `Reads a msgpack event stream recorded by the pipeline (or piped in on
stdin) and renders per-unit verification progress.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // read-only handle
			in = f
		} else if isTerminal(os.Stdin) {
			return fmt.Errorf("monitor needs a session file or a piped event stream")
		}

		events := make(chan pipeline.Event, 256)
		replayErr := make(chan error, 1)
		go func() {
			replayErr <- pipeline.ReplayEvents(in, events)
		}()

		model := ui.NewProgressModel(monitorTitle, nil, events)
		program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()))
		_, runErr := program.Run()

		// The TUI may quit mid-stream; drain the rest so the replay
		// goroutine can finish instead of blocking on a full channel.
		go func() {
			for range events {
			}
		}()
		if runErr != nil {
			return runErr
		}
		return <-replayErr
	},
}
