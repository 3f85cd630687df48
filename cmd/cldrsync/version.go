package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cldrsync/pkg/cldrsync"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cldrsync v" + cldrsync.Version)
	},
}
