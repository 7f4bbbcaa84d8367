package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	config *Config
	logger *slog.Logger
}

// NewRootCommand creates the root command for the rdf2jsonld CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rdf2jsonld",
		Short: "Stream RDF quads into JSON-LD",
		Long: `rdf2jsonld converts N-Triples and N-Quads into a single JSON-LD document
in one pass, merging statements about the same subject or graph as they arrive.

Quads can also be collected in a SQLite quad store and exported in an order
that groups every subject and graph together.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// setup loads the config file and builds the run logger once per invocation.
func (o *RootOptions) setup(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	if o.config != nil {
		return o.config, o.logger, nil
	}

	config := DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if config, err = LoadConfig(o.ConfigPath); err != nil {
			return nil, nil, err
		}
	}
	level := config.LogLevel
	if o.Verbose {
		level = "debug"
	}

	o.config = config
	o.logger = newLogger(cmd.ErrOrStderr(), level).With("cmd", cmd.Name())
	return o.config, o.logger, nil
}

// newLogger returns a text logger tagged with a fresh run id.
func newLogger(w io.Writer, level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler).With("run_id", uuid.NewString())
}

// databasePath picks the --db flag, falling back to the config file.
func databasePath(flag string, config *Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if config.Database != "" {
		return config.Database, nil
	}
	return "", fmt.Errorf("no database: pass --db or set database in the config file")
}
