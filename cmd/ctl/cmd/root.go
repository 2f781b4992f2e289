package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/logging"
	"github.com/jpfielding/animcodec.go/pkg/native"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "animctl",
		Short:         "inspect, decode and convert animated images",
		Long:          "animctl sniffs image containers, decodes animations into frames and re-encodes them",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			logFile, _ := cmd.Flags().GetString("log-file")

			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = os.Stderr
			if logFile != "" {
				w = logging.FileWriter(logFile, 10, 3)
			}
			slog.SetDefault(logging.Logger(w, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewSniffCmd(ctx),
		NewDecodeCmd(ctx),
		NewConvertCmd(ctx),
		NewBase64Cmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "emit logs as JSON")
	pf.String("log-file", "", "write logs to a rotated file instead of stderr")
	pf.Bool("heic-multi", false, "decode every frame of HEIC/HEIF image sequences")
	pf.Bool("strict", false, "discard an animation when any frame fails to decode")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
	return cmd
}

// codecConfig builds the codec configuration from the persistent flags.
func codecConfig(cmd *cobra.Command) codec.Config {
	cfg := native.Config()
	cfg.Logger = slog.Default()
	cfg.Capabilities.AllowMultiFrameHEIC, _ = cmd.Flags().GetBool("heic-multi")
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.FramePolicy = codec.FailOnBadFrame
	}
	return cfg
}
