package cmd

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/couchbaselabs/asgdns/asgdnsconfig"
	"github.com/couchbaselabs/asgdns/asgsync"
	"github.com/couchbaselabs/asgdns/dnsrecord"
	"github.com/couchbaselabs/asgdns/utils/awscontrol"
	"go.uber.org/zap"
)

type CmdHelper struct {
	logger *zap.Logger

	// jsonLogs switches to the production encoder, which is what we want
	// when CloudWatch is the consumer.
	jsonLogs bool
	// envOnly skips the config file entirely.
	envOnly bool

	config        *asgdnsconfig.Config
	partialConfig *asgdnsconfig.Config
	awsConfig     *aws.Config
}

func (h *CmdHelper) GetContext() context.Context {
	return context.Background()
}

func (h *CmdHelper) GetLogger() *zap.Logger {
	if h.logger == nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")

		var logConfig zap.Config
		if h.jsonLogs {
			logConfig = zap.NewProductionConfig()
		} else {
			logConfig = zap.NewDevelopmentConfig()
		}

		if !verbose {
			logConfig.Level.SetLevel(zap.InfoLevel)
			logConfig.DisableCaller = true
		} else {
			logConfig.Level.SetLevel(zap.DebugLevel)
		}

		logger, err := logConfig.Build()
		if err != nil {
			log.Fatalf("failed to initialize verbose logger: %s", err)
		}

		logger.Debug("logger initialized")

		h.logger = logger
	}

	return h.logger
}

func (h *CmdHelper) GetConfig(ctx context.Context) *asgdnsconfig.Config {
	logger := h.GetLogger()

	if h.config == nil {
		var curConfig *asgdnsconfig.Config
		var err error
		if h.envOnly {
			curConfig, err = asgdnsconfig.FromEnv(os.LookupEnv)
		} else {
			configPath, _ := rootCmd.PersistentFlags().GetString("config")
			curConfig, err = asgdnsconfig.Load(ctx, configPath, os.LookupEnv)
		}
		if err != nil {
			logger.Fatal("failed to load configuration", zap.Error(err))
		}

		h.config = curConfig
	}

	return h.config
}

// getPartialConfig returns whatever settings are available without
// requiring the record target, for commands that never touch the record.
func (h *CmdHelper) getPartialConfig(ctx context.Context) *asgdnsconfig.Config {
	if h.config != nil {
		return h.config
	}

	if h.partialConfig == nil {
		logger := h.GetLogger()

		var curConfig *asgdnsconfig.Config
		var err error
		if h.envOnly {
			curConfig = &asgdnsconfig.Config{}
			err = curConfig.ApplyEnv(os.LookupEnv)
		} else {
			configPath, _ := rootCmd.PersistentFlags().GetString("config")
			curConfig, err = asgdnsconfig.LoadPartial(ctx, configPath, os.LookupEnv)
		}
		if err != nil {
			logger.Fatal("failed to load configuration", zap.Error(err))
		}

		h.partialConfig = curConfig
	}

	return h.partialConfig
}

func (h *CmdHelper) GetAWSConfig(ctx context.Context) aws.Config {
	logger := h.GetLogger()

	if h.awsConfig == nil {
		var opts []func(*config.LoadOptions) error
		if region := h.getPartialConfig(ctx).AWSRegion; region != "" {
			opts = append(opts, config.WithRegion(region))
		}

		cfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			logger.Fatal("failed to load AWS config", zap.Error(err))
		}

		if cfg.Region == "" {
			localCtrl := &awscontrol.LocalInstanceController{
				Logger:  logger,
				Timeout: 2 * time.Second,
			}

			localInfo, err := localCtrl.Identify(ctx)
			if err != nil {
				logger.Fatal("no AWS region configured and could not identify local instance", zap.Error(err))
			}

			logger.Info("using region of local instance", zap.String("region", localInfo.Region))
			cfg.Region = localInfo.Region
		}

		h.awsConfig = &cfg
	}

	return *h.awsConfig
}

func (h *CmdHelper) GetGroupController(ctx context.Context) *awscontrol.GroupController {
	return awscontrol.NewGroupController(h.GetLogger(), h.GetAWSConfig(ctx))
}

func (h *CmdHelper) GetReconciler(ctx context.Context) *dnsrecord.Reconciler {
	waitForSync := h.getPartialConfig(ctx).WaitForSync
	return dnsrecord.NewReconciler(h.GetLogger(), h.GetAWSConfig(ctx), waitForSync)
}

func (h *CmdHelper) GetSyncer(ctx context.Context) *asgsync.Syncer {
	logger := h.GetLogger()
	cfg := h.GetConfig(ctx)

	syncer, err := asgsync.NewSyncer(&asgsync.SyncerOptions{
		Logger:  logger,
		Groups:  h.GetGroupController(ctx),
		Records: h.GetReconciler(ctx),
		Target:  dnsrecord.NewRecordTarget(cfg.HostedZoneID, cfg.DomainName),
	})
	if err != nil {
		logger.Fatal("failed to create syncer", zap.Error(err))
	}

	return syncer
}
