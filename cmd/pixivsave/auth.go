package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pixivsave/pkg/auth"
	"pixivsave/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored pixiv session",
	Long: `Manage stored pixiv session cookies.

Sessions are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - PIXIVSAVE_SESSION_ID (read only)

The PHPSESSID cookie gives full access to your pixiv account. Never share it.`,
}

var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a pixiv session cookie",
	Long: `Store the PHPSESSID cookie of a logged in browser so that captures can
reach works hidden from logged out visitors.

The cookie is read without echo. Without a name the account is stored as
"default", which is what 'pixivsave save' uses unless --account is given.`,
	Example: `  pixivsave auth login
  pixivsave auth login second`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"list"},
	Short:   "List stored sessions",
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func accountArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return auth.DefaultAccount
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		return withExitCode(exitFailure, err)
	}

	name := accountArg(args)
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	auth.ShowCookieGuide(out)

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Fprintf(out, "Account '%s' already exists. Replace its session? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Fprint(out, "PHPSESSID: ")
	sessionID, err := readSecret(reader)
	fmt.Fprintln(out)
	if err != nil {
		ui.PrintError("Failed to read session", err.Error())
		return withExitCode(exitFailure, err)
	}

	fmt.Fprint(out, "User agent (Enter for default): ")
	userAgent, _ := reader.ReadString('\n')

	account := &auth.Account{
		Name:      name,
		SessionID: sessionID,
		UserAgent: strings.TrimSpace(userAgent),
	}
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store session", err.Error())
		return withExitCode(exitFailure, err)
	}

	ui.PrintSuccess(fmt.Sprintf("Session saved for account '%s' (%s)", name, auth.SanitizeAccount(account).SessionID))
	if name != auth.DefaultAccount {
		fmt.Fprintf(out, "Use it with: pixivsave save <profile-url> --account %s\n", name)
	}
	return nil
}

// readSecret reads one line without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		return withExitCode(exitFailure, err)
	}

	name := accountArg(args)
	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		return withExitCode(exitFailure, err)
	}
	ui.PrintSuccess("Account removed: " + name)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		return withExitCode(exitFailure, err)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		return withExitCode(exitFailure, err)
	}

	out := cmd.OutOrStdout()
	if len(accounts) == 0 {
		ui.PrintInfo("No stored sessions", "use 'pixivsave auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Sessions")
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Fprintf(out, "%d. %s\n", i+1, sanitized.Name)
		fmt.Fprintf(out, "   PHPSESSID: %s\n", sanitized.SessionID)
		if sanitized.UserAgent != "" {
			fmt.Fprintf(out, "   User Agent: %s\n", sanitized.UserAgent)
		}
		if !sanitized.LastModified.IsZero() {
			fmt.Fprintf(out, "   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
