package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// SerializerFlags holds the JSON-LD output flags shared by convert and export.
// Flags that are set override the config file.
type SerializerFlags struct {
	Context        string
	Base           string
	UseRdfType     bool
	UseNativeTypes bool
	ExcludeContext bool
	Indent         int
	Output         string
}

func (f *SerializerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Context, "context", "", "context document to compact with (file path or http(s) URL)")
	cmd.Flags().StringVar(&f.Base, "base", "", "base IRI; emits {\"@base\": ...} when no context is given")
	cmd.Flags().BoolVar(&f.UseRdfType, "use-rdf-type", false, "keep rdf:type as a predicate instead of @type")
	cmd.Flags().BoolVar(&f.UseNativeTypes, "use-native-types", false, "write xsd:integer, xsd:double and xsd:boolean as JSON scalars")
	cmd.Flags().BoolVar(&f.ExcludeContext, "exclude-context", false, "write a bare array even when a context is configured")
	cmd.Flags().IntVar(&f.Indent, "indent", 0, "spaces per indentation level (0 writes compact JSON)")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "-", "output file (- for stdout)")
}

// options merges config and flags into serializer options.
func (f *SerializerFlags) options(cmd *cobra.Command, config *Config, logger *slog.Logger) (rdf.JSONLDSerializerOptions, error) {
	opts := config.Serializer
	flags := cmd.Flags()

	if flags.Changed("base") {
		opts.BaseIRI = f.Base
	}
	if flags.Changed("use-rdf-type") {
		opts.UseRdfType = f.UseRdfType
	}
	if flags.Changed("use-native-types") {
		opts.UseNativeTypes = f.UseNativeTypes
	}
	if flags.Changed("exclude-context") {
		opts.ExcludeContext = f.ExcludeContext
	}
	if flags.Changed("indent") {
		if f.Indent < 0 {
			return opts, fmt.Errorf("--indent must not be negative, got %d", f.Indent)
		}
		opts.Space = strings.Repeat(" ", f.Indent)
	}

	location := config.ContextFile
	if flags.Changed("context") {
		location = f.Context
	}
	if location != "" {
		doc, err := rdf.LoadJSONLDContext(location, nil)
		if err != nil {
			return opts, err
		}
		logger.Debug("context loaded", "location", location, "terms", doc.Len())
		opts.Context = doc
	}

	opts.Logger = logger
	return opts, nil
}

// openOutput returns the writer for --output. Writes to a file go through
// outputFile so a failed run does not leave a partial document behind.
func (f *SerializerFlags) openOutput(cmd *cobra.Command) (io.Writer, *outputFile, error) {
	if f.Output == "" || f.Output == "-" {
		return cmd.OutOrStdout(), nil, nil
	}
	file, err := os.Create(f.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, &outputFile{file: file}, nil
}

type outputFile struct {
	file *os.File
}

// finish closes the file and removes it when the run failed.
func (o *outputFile) finish(runErr error) error {
	if o == nil {
		return runErr
	}
	closeErr := o.file.Close()
	if runErr != nil {
		os.Remove(o.file.Name())
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return nil
}
