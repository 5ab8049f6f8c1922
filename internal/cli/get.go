package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show a module and its insights",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().StringP("key", "k", "", "Only output the value of this insight")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")

	a := mustApp()

	detail, err := a.service.Detail(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	if key != "" {
		for _, in := range detail.Insights {
			if in.Key == key {
				fmt.Println(in.Value)
				return
			}
		}
		exitErr("get", fmt.Errorf("insight %q not found in module %q", key, args[0]))
	}

	b, _ := json.MarshalIndent(detail, "", "  ")
	fmt.Println(string(b))
}
