package cmd

import (
	"fmt"

	"github.com/couchbaselabs/asgdns/asgdnsconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [flags] <hosted-zone-id> <domain-name>",
	Short: "Writes a config file for running commands by hand",
	Long: `Writes the hosted zone and record name to the config file so that the
sync, handle and zone-id commands can be run without exporting the same
environment variables the lambda function uses.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		helper := CmdHelper{}
		logger := helper.GetLogger()
		ctx := helper.GetContext()

		region, _ := cmd.Flags().GetString("region")
		waitForSync, _ := cmd.Flags().GetBool("wait")

		newConfig := &asgdnsconfig.Config{
			HostedZoneID: args[0],
			DomainName:   args[1],
			AWSRegion:    region,
			WaitForSync:  waitForSync,
		}

		err := newConfig.Validate()
		if err != nil {
			logger.Fatal("invalid configuration", zap.Error(err))
		}

		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		if configPath == "" {
			configPath, err = asgdnsconfig.DefaultConfigPath()
			if err != nil {
				logger.Fatal("failed to find default config path", zap.Error(err))
			}
		}

		err = asgdnsconfig.Save(ctx, configPath, newConfig)
		if err != nil {
			logger.Fatal("failed to save config", zap.Error(err))
		}

		fmt.Printf("wrote %s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("region", "", "The AWS region the group and zone are managed from.")
	initCmd.Flags().Bool("wait", false, "Wait for record changes to be in sync before returning.")
}
