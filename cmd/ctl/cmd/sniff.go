package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewSniffCmd reports the container format of each input.
func NewSniffCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sniff <file...>",
		Short: "detect image container formats",
		Long:  "Classifies each input by its leading bytes and prints the format, MIME type, container type and a content fingerprint.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				data, err := readInput(ctx, arg)
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				printSniff(cmd.OutOrStdout(), arg, data)
			}
			return nil
		},
	}
	return cmd
}

func printSniff(w io.Writer, name string, data []byte) {
	f := imgfmt.Detect(data)
	label := color.New(color.FgGreen, color.Bold).SprintFunc()
	if f == imgfmt.Undefined {
		label = color.New(color.FgRed, color.Bold).SprintFunc()
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		name,
		label(f.String()),
		f.MIMEType(),
		f.ContainerType(),
		color.New(color.Faint).Sprint(util.HashUUID(data)),
	)
}
