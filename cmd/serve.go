package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizai/internal/server"
	"github.com/abhisek/quizai/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quiz sessions over HTTP",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		cfg.Log.Console = true
		telemetry.Init(cfg.Log)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
			cfg.Server.ListenAddr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		_, provider, err := newGenerator(ctx, st)
		if err != nil {
			return err
		}

		cache, closeCache, err := newSharedCache(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		srv := server.New(server.Deps{
			Provider:   provider,
			Quiz:       cfg.Quiz,
			Cache:      cache,
			Events:     st.EventRepo(),
			SessionTTL: cfg.Server.SessionTTL,
			RateLimit:  cfg.Server.RateLimit,
		})
		return srv.Run(ctx, cfg.Server.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides server.listen_addr)")
}
