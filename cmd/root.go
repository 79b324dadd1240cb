package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loom/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeCheckFailed indicates the descriptor failed an integrity check.
	ExitCodeCheckFailed = 2
)

var (
	rootDescriptorPath string
	rootLogLevel       string
)

// rootCmd represents the base command for the loom application.
var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Assemble and validate agent deployment descriptors",
	Long: `loom works on agent deployment descriptors: YAML documents of named,
interrelated components (schemas, resources, tools, agents, guardrails,
middleware, prompts, variables, memory).

It finds which components depend on which, refuses deletions that would
leave dangling references, and exports the descriptor with native YAML
anchors and aliases so shared definitions are written once.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(rootLogLevel)
		if err != nil {
			return err
		}
		logging.Init(level, os.Stderr)
		return nil
	},
}

func parseLogLevel(s string) (logging.LogLevel, error) {
	switch s {
	case "debug":
		return logging.LevelDebug, nil
	case "info":
		return logging.LevelInfo, nil
	case "warn":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}

// SetVersion sets the version for the root command. It is called from the
// main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// checkFailedError marks a command failure that should exit with
// ExitCodeCheckFailed.
type checkFailedError struct {
	problems int
}

func (e *checkFailedError) Error() string {
	return fmt.Sprintf("descriptor failed %d integrity check(s)", e.problems)
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "loom version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the exit code based on the error type, providing
// semantic exit codes for scripting.
func getExitCode(err error) int {
	if _, ok := err.(*checkFailedError); ok {
		return ExitCodeCheckFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDescriptorPath, "file", "f", "deployment.yaml",
		"path to the deployment descriptor")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newRenderCmd())
}
