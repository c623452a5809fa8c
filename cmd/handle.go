package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var handleCmd = &cobra.Command{
	Use:   "handle [flags] [event-file]",
	Short: "Handles a single SNS event envelope read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		helper := CmdHelper{}
		logger := helper.GetLogger()
		ctx := helper.GetContext()

		var reader io.Reader = os.Stdin
		if len(args) >= 1 && args[0] != "-" {
			file, err := os.Open(args[0])
			if err != nil {
				logger.Fatal("failed to open event file", zap.Error(err))
			}
			defer file.Close()

			reader = file
		}

		eventBytes, err := io.ReadAll(reader)
		if err != nil {
			logger.Fatal("failed to read event", zap.Error(err))
		}

		var envelope events.SNSEvent
		err = json.Unmarshal(eventBytes, &envelope)
		if err != nil {
			logger.Fatal("failed to parse event envelope", zap.Error(err))
		}

		syncer := helper.GetSyncer(ctx)

		code, err := syncer.Handle(ctx, envelope)
		if err != nil {
			logger.Fatal("failed to handle event", zap.Error(err))
		}

		fmt.Printf("%d\n", code)
	},
}

func init() {
	rootCmd.AddCommand(handleCmd)
}
