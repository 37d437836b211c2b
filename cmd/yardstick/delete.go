// Delete command for the yardstick CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a unit definition",
	Long: `Delete removes a unit definition from the catalog.

A unit that other definitions or factors reference cannot be deleted until
its dependents are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		st, err := openCatalog()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		if err := st.DeleteUnit(name); err != nil {
			fail("delete", err)
		}

		fmt.Printf("Deleted %s\n", name)
		return nil
	},
}
