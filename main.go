package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xpzouying/videogram/configs"
)

var (
	cfg     *configs.Config
	service *VideogramService
)

func main() {
	root := &cobra.Command{
		Use:          "videogram",
		Short:        "Download media from YouTube / Bilibili and sync to Telegram",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env 不存在不算错误
			_ = godotenv.Load()

			var err error
			cfg, err = configs.Load()
			if err != nil {
				return err
			}

			level, err := logrus.ParseLevel(cfg.GetOr(configs.KeyLogLevel, "info"))
			if err != nil {
				logrus.Warnf("invalid log level in config: %v", err)
				level = logrus.InfoLevel
			}
			logrus.SetLevel(level)

			service = NewVideogramService(cfg)
			return nil
		},
	}

	root.AddCommand(
		newDownloadCmd(),
		newUploadCmd(),
		newSyncCmd(),
		newConfigCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		logrus.Fatalf("command failed: %v", err)
	}
}
