package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List modules with their record counts",
		Run:   runList,
	}

	cmd.Flags().Bool("slugs-only", false, "Only output module slugs")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	slugsOnly, _ := cmd.Flags().GetBool("slugs-only")

	a := mustApp()

	if slugsOnly {
		modules, err := a.registry.List()
		if err != nil {
			exitErr("list", err)
		}
		for _, m := range modules {
			fmt.Println(m.Slug)
		}
		return
	}

	summaries, err := a.service.ListSummaries(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}

	b, _ := json.MarshalIndent(summaries, "", "  ")
	fmt.Println(string(b))
}
