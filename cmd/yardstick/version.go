// Version command for the yardstick CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finmetrics/yardstick/pkg/yardstick"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the yardstick version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("yardstick", yardstick.Version)
	},
}
