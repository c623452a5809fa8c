package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var zoneIdCmd = &cobra.Command{
	Use:   "zone-id [flags] <zone-name>",
	Short: "Looks up the hosted zone id for a zone name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		helper := CmdHelper{}
		logger := helper.GetLogger()
		ctx := helper.GetContext()

		reconciler := helper.GetReconciler(ctx)

		zoneId, err := reconciler.FindHostedZoneID(ctx, args[0])
		if err != nil {
			logger.Fatal("failed to find hosted zone", zap.Error(err))
		}

		fmt.Printf("%s\n", zoneId)
	},
}

func init() {
	rootCmd.AddCommand(zoneIdCmd)
}
