package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "asgdns",
	Short: "Keeps a Route 53 record in sync with an autoscaling group",
	Long: `Keeps a single Route 53 A record equal to the private addresses of the
running and pending instances of an EC2 autoscaling group. Normally run as an
AWS Lambda function subscribed to the group's SNS notifications, but every
step can also be run by hand.`,
}

func Execute() {
	// the provided lambda runtimes start the bootstrap binary with no
	// arguments at all
	if len(os.Args) == 1 && os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		rootCmd.SetArgs([]string{lambdaCmd.Use})
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("failed to initialize command line parser: %s", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Turns on verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (defaults to ~/.asgdns)")
}
