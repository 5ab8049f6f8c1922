package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/aurvo/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all insights as JSON",
		Long:  "Export every module's insights as a JSON object keyed by module slug.",
		Run:   runExport,
	}

	cmd.Flags().StringP("module", "m", "", "Only export this module")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	only, _ := cmd.Flags().GetString("module")

	a := mustApp()

	dump, err := a.store.Export(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	if only != "" {
		insights, ok := dump[only]
		if !ok {
			_, err := a.registry.Module(only)
			exitErr("export", err)
		}
		dump = store.Dump{only: insights}
	}

	b, _ := json.MarshalIndent(dump, "", "  ")
	fmt.Println(string(b))
}
