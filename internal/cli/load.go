package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-jsonld/quadstore"
	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
	Format   string
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Add N-Triples or N-Quads to a quad store",
		Long: `Read N-Triples or N-Quads from a file (or stdin) and add them to a SQLite
quad store. Quads that are already stored are skipped. The whole input is
loaded in one transaction: on error nothing is added.

Examples:
  rdf2jsonld load --db quads.db data.nq
  cat more.nt | rdf2jsonld load --db quads.db --format nt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format: nt or nq (default from file extension, else nq)")

	return cmd
}

func runLoad(opts *LoadOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	dbPath, err := databasePath(opts.Database, config)
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

	src, err := rdf.NewReader(in, format, rdf.OptContext(ctx))
	if err != nil {
		return err
	}
	defer src.Close()

	added, err := st.Load(ctx, src)
	if err != nil {
		logger.Error("load failed", "error", err, "code", rdf.Code(err))
		return fmt.Errorf("load %s: %w", name, err)
	}
	total, err := st.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("loaded", "input", name, "added", added, "total", total)
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d new quads into %s (%d total)\n", added, dbPath, total)
	return nil
}
