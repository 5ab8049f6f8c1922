package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create module databases and seed default insights",
		Run:   runBootstrap,
	}

	RootCmd.AddCommand(cmd)
}

func runBootstrap(cmd *cobra.Command, args []string) {
	a := mustApp()

	dir, err := bootstrap(cmd.Context(), a)
	if err != nil {
		exitErr("bootstrap", err)
	}

	fmt.Println("databases initialised in", dir)
}

// bootstrap seeds every module database and returns the data directory
// they were written to.
func bootstrap(ctx context.Context, a *app) (string, error) {
	settings, err := a.registry.Settings()
	if err != nil {
		return "", err
	}
	if err := a.service.Bootstrap(ctx); err != nil {
		return "", err
	}
	return settings.DataDir, nil
}
