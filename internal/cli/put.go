package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put <slug> [value]",
		Short: "Create or update an insight",
		Long:  "Create or update an insight. The value can be a positional arg or piped via stdin.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runPut,
	}

	cmd.Flags().StringP("key", "k", "", "Insight key (required)")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	slug := args[0]

	// Get value: positional args first, then check stdin
	var value string
	if len(args) > 1 {
		value = strings.Join(args[1:], " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			value = string(b)
		}
	}

	value = strings.TrimSpace(value)
	if value == "" {
		exitErr("put", fmt.Errorf("value is required (positional arg or stdin)"))
	}

	a := mustApp()

	in, err := a.service.UpsertInsight(cmd.Context(), slug, key, value)
	if err != nil {
		exitErr("put", err)
	}

	b, _ := json.Marshal(in)
	fmt.Println(string(b))
}
