package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/productproxy/internal/common/constants"
	"github.com/Alturino/productproxy/internal/log"
	product "github.com/Alturino/productproxy/product/cmd"
)

func Start() {
	logger := log.NewLogger("", os.Stdout).
		With().
		Str(log.KeyAppName, constants.APP_MAIN).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	var envDir, logFile string
	rootCmd := &cobra.Command{
		Use:   constants.APP_MAIN,
		Short: "Proxy product requests to a restdb collection",
	}
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", "./env", "directory holding the service config files")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotated log file, stdout only when empty")

	commands := []*cobra.Command{
		{
			Use:   "product",
			Short: "Run product service",
			Run: func(cmd *cobra.Command, args []string) {
				product.RunProductService(cmd.Context(), envDir, logFile)
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
