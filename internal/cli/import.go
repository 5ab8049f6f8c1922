package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/aurvo/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import insights from JSON",
		Long:  "Import insights from JSON on stdin. Expects the format produced by export.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var dump store.Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		exitErr("parse json", err)
	}

	a := mustApp()

	imported, err := a.store.Import(cmd.Context(), dump)
	fmt.Printf(`{"ok":%t,"imported":%d}`+"\n", err == nil, imported)
	if err != nil {
		exitErr("import", err)
	}
}
