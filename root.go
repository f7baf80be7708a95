package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mahirjain10/pixelmancer/config"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pixelmancer <inputDir> [outputDir] [--optimize|-o] [--sizes N,N,...]",
		Short: "Batch resize and optimize PNG sprites",
		Long: `pixelmancer walks a directory of PNG sprites and writes a square, cover-fit
copy of each one per target size into outputDir/SxS/, mirroring the input tree.

Flags may appear anywhere:
  --optimize, -o     run pngquant (quality 70-90) over every output
  --sizes 32,64,128  target sizes in pixels
  --config FILE      YAML defaults, overridden by the command line
  --upload           upload outputs to S3 (AWS_BUCKET_NAME, S3_KEY_PREFIX)
  --notify           publish a RabbitMQ event per output (RABBITMQ_URL)
  --watch            keep processing new sprites until interrupted`,
		Version: version,
		// The argument grammar is positional with flags anywhere, so
		// config.ParseArgs reads the raw list.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               runRoot,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.ParseArgs(args)
	switch {
	case errors.Is(err, config.ErrHelp):
		return cmd.Help()
	case errors.Is(err, config.ErrVersion):
		fmt.Fprintln(cmd.OutOrStdout(), "pixelmancer", version)
		return nil
	case err != nil:
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
