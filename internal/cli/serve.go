package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rcliao/aurvo/internal/server"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Bootstrap module databases and serve the HTTP API",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $AURVO_ADDR or :8000)")

	RootCmd.AddCommand(cmd)
}

func listenAddr(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("AURVO_ADDR"); env != "" {
		return env
	}
	return ":8000"
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	a := mustApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.service.Bootstrap(ctx); err != nil {
		exitErr("bootstrap", err)
	}

	if err := server.New(a.service, a.logger).Run(ctx, listenAddr(addr)); err != nil {
		exitErr("serve", err)
	}
}
