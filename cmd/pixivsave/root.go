package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"pixivsave/pkg/ui"
)

var (
	// Version information, set with -ldflags
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
	verbose    bool
)

const (
	exitOK      = 0
	exitFailure = 1
	// exitPartial is used with --strict when some artworks failed
	exitPartial = 2
)

// exitError carries a process exit status. reported means the message
// was already shown to the user.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err, reported: true}
}

// exitCode maps a command error to a process exit status
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pixivsave [flags] <profile-url>",
	Short: "Save the master images of a pixiv artist gallery",
	Long: `pixivsave drives a headless Chrome through an artist's illustrations
tab on pixiv, discovers every artwork across all listing pages, and saves the
master resolution images the artwork pages load.

The profile URL must look like
  https://www.pixiv.net/en/users/<id>/illustrations

Stored sessions (see 'pixivsave auth login') give access to works that need
a logged in account.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuietMode(true)
		}
	},
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if isKnownCommand(cmd, args[0]) {
			return fmt.Errorf("unexpected arguments for %q", args[0])
		}
		if len(args) != 1 {
			return fmt.Errorf("accepts 1 profile URL, received %d arguments", len(args))
		}
		return runSave(cmd, args)
	},
}

// Execute runs the root command and exits with its status
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || !ee.reported {
			fmt.Fprintln(os.Stderr, ui.Red("Error: "+err.Error()))
		}
	}
	os.Exit(exitCode(err))
}

// isKnownCommand reports whether arg names a subcommand of cmd's root
func isKnownCommand(cmd *cobra.Command, arg string) bool {
	for _, sub := range cmd.Root().Commands() {
		if sub.Name() == arg || sub.HasAlias(arg) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.pixivsave.yaml or ~/.config/pixivsave/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.SetVersionTemplate(`pixivsave {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
