package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizai/internal/app"
	"github.com/abhisek/quizai/internal/datefmt"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	gen, _, err := newGenerator(cmd.Context(), st)
	if err != nil {
		return err
	}

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Generator:   gen,
		Clock:       datefmt.NewClock(),
		Events:      st.EventRepo(),
		SkipWelcome: skip,
	})
}
