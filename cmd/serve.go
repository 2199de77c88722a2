package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question generation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		origins, _ := cmd.Flags().GetStringSlice("cors-origin")

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if os.Getenv(gin.EnvGinMode) == "" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := httpapi.NewServer(httpapi.RouterConfig{
			Log:          log,
			Generator:    newGenerator(cmd, s, log),
			AllowOrigins: origins,
		})
		return srv.Run(ctx, addr)
	},
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed browser origin (repeatable)")
	serveCmd.Flags().Bool("structured", false, "Ask the provider for schema-constrained JSON (overrides QUIZGEN_STRUCTURED_OUTPUT env var)")
}
