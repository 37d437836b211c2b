// Init command for the yardstick CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finmetrics/yardstick/internal/catalog"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the yardstick catalog",
	Long: `Init creates the configuration directory with a default config.yaml,
opens the catalog database, and seeds it with the builtin units on first run.
Running init on an existing catalog leaves it untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve config directory (flag > env > default) and ensure it
		// exists with a default config.yaml.
		configDir, err := resolveConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureConfigDir(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		// Open the catalog (creates the data directory and schema) and seed
		// the builtin units.
		st, err := openCatalog()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		if err := catalog.Seed(st); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Yardstick initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
