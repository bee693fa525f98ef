package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/helmcode/patient-assistant/pkg/analyzer"
	"github.com/helmcode/patient-assistant/pkg/attach"
	"github.com/helmcode/patient-assistant/pkg/client"
	"github.com/helmcode/patient-assistant/pkg/config"
	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/helmcode/patient-assistant/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrSubmissionFailed is returned once a failed outcome has been rendered,
// so the caller only has to set the exit code.
var ErrSubmissionFailed = errors.New("submission failed")

// annotationLogFile marks a command that owns the terminal. Its logs never go
// to stderr: they go to the named file when verbose and are dropped otherwise.
const annotationLogFile = "patient-assistant/log-file"

var (
	apiURL  string
	timeout time.Duration
	verbose bool
	envFile string
	logFile string

	logger = zap.NewNop()
)

// AddGlobalFlags registers the flags and hooks shared by every subcommand.
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&apiURL, "api-url", "", fmt.Sprintf("Analysis service base URL (default $%s or %s)", config.EnvAPIURL, config.DefaultBaseURL))
	flags.DurationVar(&timeout, "timeout", 0, "Request timeout, 0 waits indefinitely")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	flags.StringVar(&envFile, "env-file", "", "Path to a .env file (default .env when present)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	root.PersistentPreRunE = setupLogger
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	path := logFile
	if file, ok := cmd.Annotations[annotationLogFile]; ok && path == "" {
		if !verbose {
			logger = zap.NewNop()
			return nil
		}
		path = file
	}

	l, err := logging.New(verbose, path)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// loadConfig layers the flags over the .env file and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var overrides config.Overrides
	if cmd.Flags().Changed("api-url") {
		overrides.BaseURL = &apiURL
	}
	if cmd.Flags().Changed("timeout") {
		overrides.Timeout = &timeout
	}

	cfg, err := config.Load(envFile, overrides)
	if err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded",
		zap.String("api_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout))
	return cfg, nil
}

func newAnalyzer(cfg *config.Config, store *intake.Store) *analyzer.Analyzer {
	c := client.New(cfg.BaseURL,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger))
	return analyzer.New(c, store, analyzer.WithLogger(logger))
}

// loadIntake applies an intake file to store and returns its attachment
// paths followed by extra.
func loadIntake(store *intake.Store, from string, extra []string) ([]string, error) {
	if from == "" {
		return extra, nil
	}
	f, err := intake.LoadFile(from)
	if err != nil {
		return nil, err
	}
	store.Replace(f.FormFields)
	logger.Debug("Intake file loaded", zap.String("path", from), zap.Int("files", len(f.Files)))

	return append(f.Files, extra...), nil
}

func warnUnaccepted(w io.Writer, paths []string) {
	for _, p := range paths {
		if !attach.Accepted(p) {
			printWarning(w, fmt.Sprintf("%s is not a %v document, attaching anyway", p, attach.AcceptedExtensions))
		}
	}
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "! %s\n", msg)
}
