package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync [flags] <group>",
	Short: "Reconciles the record with the current members of a group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		helper := CmdHelper{}
		logger := helper.GetLogger()
		ctx := helper.GetContext()

		syncer := helper.GetSyncer(ctx)

		res, err := syncer.Sync(ctx, args[0])
		if err != nil {
			logger.Fatal("failed to sync group", zap.Error(err))
		}

		fmt.Printf("%s %s [%s]\n", res.Action, syncer.Target().DomainName, strings.Join(res.Addresses, ", "))
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
