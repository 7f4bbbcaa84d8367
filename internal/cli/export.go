package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-jsonld/quadstore"
	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	SerializerFlags
	Database string
	Grouped  bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the quads of a quad store as JSON-LD",
		Long: `Write every quad of a SQLite quad store as one JSON-LD document.

By default quads are replayed in the order they were loaded. With --grouped
the default graph comes first, then each named graph, and the statements
about one subject are kept together so each node is written once per graph.

Examples:
  rdf2jsonld export --db quads.db
  rdf2jsonld export --db quads.db --grouped --context context.jsonld --indent 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().BoolVar(&opts.Grouped, "grouped", false, "group quads by graph and subject")
	opts.SerializerFlags.register(cmd)

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	config, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	dbPath, err := databasePath(opts.Database, config)
	if err != nil {
		return err
	}
	serOpts, err := opts.SerializerFlags.options(cmd, config, logger)
	if err != nil {
		return err
	}

	order := quadstore.OrderInsertion
	if opts.Grouped {
		order = quadstore.OrderGrouped
	}

	logger.Info("opening database", "path", dbPath)
	st, err := quadstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	out, file, err := opts.SerializerFlags.openOutput(cmd)
	if err != nil {
		return err
	}
	entries, err := st.Export(ctx, order, out, serOpts)
	if err := file.finish(err); err != nil {
		logger.Error("export failed", "error", err, "code", rdf.Code(err), "entries", entries)
		return fmt.Errorf("export %s: %w", dbPath, err)
	}
	logger.Info("exported", "order", order, "entries", entries)
	return nil
}
