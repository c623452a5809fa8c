package cmd

import (
	"fmt"

	"github.com/couchbaselabs/asgdns/contrib/buildversion"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Gets the version of asgdns",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildversion.GetInfo()
		fmt.Printf("%s (%s)\n", info.Version, info.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
