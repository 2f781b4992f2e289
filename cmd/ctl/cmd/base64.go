package cmd

import (
	"context"
	"fmt"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/spf13/cobra"
)

// NewBase64Cmd groups the data URI helpers.
func NewBase64Cmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base64",
		Short: "data URI helpers",
		Long:  "Encodes image bytes as a base64 data URI and decodes data URIs or plain base64 back to bytes.",
	}
	cmd.AddCommand(newBase64EncodeCmd(ctx), newBase64DecodeCmd(ctx))
	return cmd
}

func newBase64EncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "print a file as a data URI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			data, err := readInput(ctx, inputArg(filePath, args))
			if err != nil {
				return err
			}
			s, ok := imgfmt.Base64Encode(data)
			if !ok {
				return fmt.Errorf("nothing to encode")
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "input path, http(s) URL or - for stdin")
	return cmd
}

func newBase64DecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "decode a data URI or base64 text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			out, _ := cmd.Flags().GetString("out")
			text, err := readInput(ctx, inputArg(filePath, args))
			if err != nil {
				return err
			}
			data, ok := imgfmt.Base64Decode(string(text))
			if !ok {
				return fmt.Errorf("input is not base64")
			}
			if out == "" {
				ext := imgfmt.Detect(data).Extension()
				if ext == "" {
					ext = "bin"
				}
				out = "decoded." + ext
			}
			return writeOutput(out, data)
		},
	}
	cmd.Flags().StringP("file", "f", "", "input path, http(s) URL or - for stdin")
	cmd.Flags().StringP("out", "o", "", "output path or - for stdout")
	return cmd
}
