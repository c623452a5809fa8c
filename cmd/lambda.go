package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/couchbaselabs/asgdns/contrib/buildversion"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Runs as an AWS Lambda function handling autoscaling notifications",
	Long: `Starts the Lambda runtime loop. The function is configured through the
hosted_zone_id and domain_name environment variables and expects to be
subscribed to the SNS topic the autoscaling group notifies.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		helper := CmdHelper{jsonLogs: true, envOnly: true}
		logger := helper.GetLogger()
		ctx := helper.GetContext()

		syncer := helper.GetSyncer(ctx)
		target := syncer.Target()

		logger.Info("starting lambda handler",
			zap.String("version", buildversion.GetVersion()),
			zap.String("domain", target.DomainName),
			zap.String("zone", target.HostedZoneID))

		lambda.Start(syncer.Handle)
	},
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
