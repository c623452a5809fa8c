package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <group>",
	Short: "Lists the addresses that would be published for a group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		helper := CmdHelper{}
		logger := helper.GetLogger()
		ctx := helper.GetContext()

		groupCtrl := helper.GetGroupController(ctx)

		snapshot, err := groupCtrl.Resolve(ctx, args[0])
		if err != nil {
			logger.Fatal("failed to resolve group", zap.Error(err))
		}

		fmt.Printf("Members of %s:\n", snapshot.GroupName)
		for _, member := range snapshot.Members {
			fmt.Printf("  %s %s\n", member.InstanceID, member.Address)
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
