package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/spf13/cobra"
)

// NewConvertCmd re-encodes an image into another container.
func NewConvertCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "convert an image between containers",
		Long:  "Decodes an image and encodes it as another container format, preserving frames, durations and loop count where the target supports animation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			formatName, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			quality, _ := cmd.Flags().GetFloat64("quality")

			format := imgfmt.ParseFormat(formatName)
			if formatName != "" && format == imgfmt.Undefined {
				return fmt.Errorf("unknown format %q", formatName)
			}
			data, err := readInput(ctx, inputArg(filePath, args))
			if err != nil {
				return err
			}

			cfg := codecConfig(cmd)
			img, ok := codec.NewDecoder(cfg).Decode(data, 1, codec.DecodeOptions{})
			if !ok {
				return fmt.Errorf("unable to decode %d bytes", len(data))
			}
			if format == imgfmt.Undefined {
				format = codec.DefaultFormat(img)
			}
			encoded, ok := codec.NewEncoder(cfg).Encode(img, format, codec.EncodeOptions{Quality: quality})
			if !ok {
				return fmt.Errorf("unable to encode %s as %s", img.Format, format)
			}
			if out == "" {
				out = "out." + format.Extension()
			}
			slog.InfoContext(ctx, "converted", "from", img.Format.String(), "to", format.String(), "bytes", len(encoded), "out", out)
			return writeOutput(out, encoded)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "image path, http(s) URL or - for stdin")
	pf.String("format", "", "target format (gif|png|jpeg|tiff|webp|svg); empty picks png or jpeg by alpha")
	pf.StringP("out", "o", "", "output path or - for stdout")
	pf.Float64("quality", 1, "lossy quality in (0, 1]")
	return cmd
}
