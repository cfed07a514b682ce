package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flipgrid/internal/cli"
	"codeberg.org/snonux/flipgrid/internal/processor"
)

func main() {
	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags) error {
	logger, err := cli.Logger(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Sync()

	proc, err := processor.NewProcessor(flags, viper.GetViper(), logger)
	if err != nil {
		return err
	}
	return proc.Run(ctx, args)
}
