package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	SerializerFlags
	Format string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert N-Triples or N-Quads to JSON-LD",
		Long: `Read N-Triples or N-Quads from a file (or stdin) and write one JSON-LD
document. Statements are merged into a node only while they arrive
contiguously; sort the input by graph and subject, or use load/export,
to get one node per subject.

Examples:
  rdf2jsonld convert data.nq
  rdf2jsonld convert --base http://example.org/ --indent 2 data.nt
  cat data.nq | rdf2jsonld convert --context context.jsonld -o out.jsonld`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format: nt or nq (default from file extension, else nq)")
	opts.SerializerFlags.register(cmd)

	return cmd
}

func runConvert(opts *ConvertOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}

	var (
		in   io.Reader = cmd.InOrStdin()
		name           = "-"
	)
	if len(args) == 1 && args[0] != "-" {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	format, err := inputFormat(opts.Format, name)
	if err != nil {
		return err
	}
	serOpts, err := opts.SerializerFlags.options(cmd, config, logger)
	if err != nil {
		return err
	}

	src, err := rdf.NewReader(in, format, rdf.OptContext(ctx))
	if err != nil {
		return err
	}
	defer src.Close()

	out, file, err := opts.SerializerFlags.openOutput(cmd)
	if err != nil {
		return err
	}
	ser, err := rdf.NewJSONLDSerializer(out, serOpts)
	if err != nil {
		return file.finish(err)
	}

	logger.Info("converting", "input", name, "format", format, "output", opts.Output)
	if err := file.finish(ser.Import(ctx, src)); err != nil {
		logger.Error("conversion failed", "error", err, "code", rdf.Code(err), "entries", ser.Entries())
		return fmt.Errorf("convert %s: %w", name, err)
	}
	logger.Info("converted", "entries", ser.Entries())
	return nil
}

// inputFormat resolves --format, falling back to the file extension. N-Quads
// is the default since it also reads N-Triples.
func inputFormat(flag, name string) (rdf.Format, error) {
	if flag != "" {
		format, ok := rdf.ParseFormat(flag)
		if !ok || (format != rdf.FormatNTriples && format != rdf.FormatNQuads) {
			return "", fmt.Errorf("unsupported input format %q: must be nt or nq", flag)
		}
		return format, nil
	}
	if format, ok := rdf.FormatFromFilename(name); ok && (format == rdf.FormatNTriples || format == rdf.FormatNQuads) {
		return format, nil
	}
	return rdf.FormatNQuads, nil
}
