package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pixivsave/pkg/auth"
	"pixivsave/pkg/browser"
	"pixivsave/pkg/config"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/models"
	"pixivsave/pkg/pixiv"
	"pixivsave/pkg/ratelimit"
	"pixivsave/pkg/scraper"
	"pixivsave/pkg/ui"
	"pixivsave/pkg/ui/tui"
)

var (
	outputDir         string
	sessionID         string
	accountName       string
	headless          bool
	chromePath        string
	maxArtworks       int
	firstOnly         bool
	concurrentWrites  int
	retryAttempts     int
	retryDelay        time.Duration
	requestsPerMinute int
	userFolders       bool
	useTUI            bool
	notify            bool
	strict            bool
)

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save <profile-url>",
	Short: "Save every master image of an artist gallery",
	Long: `Open the artist's illustrations tab, walk every listing page to collect the
artwork links, then visit each artwork and save the master images it loads.

Images are written as <output>/<image name>, or <output>/<user id>/<image name>
with --user-folders. A repeated run overwrites existing files.`,
	Example: `  pixivsave save https://www.pixiv.net/en/users/11/illustrations
  pixivsave https://www.pixiv.net/en/users/11/illustrations --output ./art --user-folders
  pixivsave save https://www.pixiv.net/en/users/11/illustrations --first-only --tui`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
	addSaveFlags(saveCmd)
	addSaveFlags(rootCmd)
}

// addSaveFlags registers the capture flags. The root command carries them
// too so a bare profile URL accepts the same options.
func addSaveFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&outputDir, "output", "o", "", "output directory (default \"files\")")
	f.StringVar(&sessionID, "session-id", "", "PHPSESSID cookie to browse as a logged in user")
	f.StringVarP(&accountName, "account", "a", auth.DefaultAccount, "stored account to take the session from")
	f.BoolVar(&headless, "headless", true, "run Chrome without a window")
	f.StringVar(&chromePath, "chrome-path", "", "Chrome or Chromium executable")
	f.IntVarP(&maxArtworks, "max-artworks", "n", 0, "visit at most this many artworks (0 = all)")
	f.BoolVar(&firstOnly, "first-only", false, "visit only the first discovered artwork")
	f.IntVar(&concurrentWrites, "concurrent-writes", 0, "parallel file writers (1-10)")
	f.IntVar(&retryAttempts, "retry-attempts", 0, "navigation attempts per artwork")
	f.DurationVar(&retryDelay, "retry-delay", 0, "pause before the first navigation retry, doubled for each further one")
	f.IntVar(&requestsPerMinute, "requests-per-minute", 0, "navigation pacing")
	f.BoolVar(&userFolders, "user-folders", false, "write into a folder named after the user id")
	f.BoolVar(&useTUI, "tui", false, "show a full screen dashboard")
	f.BoolVar(&notify, "notify", false, "send a desktop notification when done")
	f.BoolVar(&strict, "strict", false, "exit with status 2 when any artwork failed")
}

// saveFlags collects the flags the user set, keyed the way
// config.MergeCommandLineFlags expects
func saveFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("session-id") {
		flags["session-id"] = sessionID
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("headless") {
		flags["headless"] = headless
	}
	if changed("chrome-path") {
		flags["chrome-path"] = chromePath
	}
	if changed("max-artworks") {
		flags["max-artworks"] = maxArtworks
	}
	if changed("first-only") && firstOnly {
		flags["max-artworks"] = 1
	}
	if changed("concurrent-writes") {
		flags["concurrent-writes"] = concurrentWrites
	}
	if changed("retry-attempts") {
		flags["retry-attempts"] = retryAttempts
	}
	if changed("retry-delay") {
		flags["retry-delay"] = retryDelay
	}
	if changed("requests-per-minute") {
		flags["requests-per-minute"] = requestsPerMinute
	}
	if changed("user-folders") {
		flags["user-folders"] = userFolders
	}

	switch {
	case changed("log-level"):
		flags["log-level"] = logLevel
	case verbose:
		flags["log-level"] = "debug"
	case quiet:
		flags["log-level"] = "error"
	}

	return flags
}

// openPage launches the controlled browser. Tests replace it.
var openPage = func(ctx context.Context, cfg *config.Config) (browser.Page, func() error, error) {
	session, err := browser.NewSession(ctx, browser.OptionsFromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return session, session.Close, nil
}

func runSave(cmd *cobra.Command, args []string) error {
	// No browser is started for a URL that can never be a gallery
	profile, err := pixiv.ValidateProfileURL(args[0])
	if err != nil {
		logger.WithError(err).WithField("url", args[0]).Error("Invalid profile URL")
		ui.PrintError("Invalid profile URL", err.Error())
		return withExitCode(exitFailure, err)
	}

	cfg, err := config.Load(configFile, saveFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return withExitCode(exitFailure, err)
	}

	if useTUI {
		err = logger.InitializeDetached(&cfg.Logging)
	} else {
		err = logger.Initialize(&cfg.Logging)
	}
	if err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		return withExitCode(exitFailure, err)
	}

	applyStoredAccount(cfg, accountName)

	if !useTUI {
		ui.PrintLogo()
		ui.PrintInfo("Profile", profile.URL)
		ui.PrintInfo("Output", cfg.Output.BaseDirectory)
		if cfg.Pixiv.SessionID == "" {
			ui.PrintInfo("Session", "anonymous")
		} else {
			ui.PrintInfo("Session", accountName)
		}
		if cfg.Download.MaxArtworks > 0 {
			ui.PrintInfo("Visit limit", fmt.Sprintf("%d", cfg.Download.MaxArtworks))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	page, closePage, err := openPage(ctx, cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to launch browser")
		ui.PrintError("Failed to launch browser", err.Error())
		return withExitCode(exitFailure, err)
	}
	defer func() {
		if err := closePage(); err != nil {
			logger.WithError(err).Warn("Browser did not close cleanly")
		}
	}()

	var summary *models.Summary
	if useTUI {
		summary, err = captureWithTUI(ctx, cfg, page, profile)
	} else {
		summary, err = capture(ctx, cfg, page, profile)
	}

	return finishRun(summary, err)
}

// newCredentialManager opens the stores written by `auth login`. Tests replace it.
var newCredentialManager = auth.NewManager

// applyStoredAccount takes the session from the account saved by
// `auth login` when none was configured. The account's user agent replaces
// the default one but never a configured one.
func applyStoredAccount(cfg *config.Config, name string) {
	if cfg.Pixiv.SessionID != "" {
		return
	}

	manager, err := newCredentialManager()
	if err != nil {
		logger.WithError(err).Debug("Credential store unavailable, browsing anonymously")
		return
	}
	account, err := manager.Retrieve(name)
	if err != nil {
		logger.WithField("account", name).Debug("No stored session, browsing anonymously")
		return
	}

	cfg.Pixiv.SessionID = account.SessionID
	if account.UserAgent != "" && cfg.Pixiv.UserAgent == config.DefaultConfig().Pixiv.UserAgent {
		cfg.Pixiv.UserAgent = account.UserAgent
	}
}

func capture(ctx context.Context, cfg *config.Config, page browser.Page, profile *pixiv.Profile) (*models.Summary, error) {
	tracker := ui.NewStatusTracker()
	s := scraper.New(cfg, page, scraper.WithReporter(tracker))
	summary, err := s.Run(ctx, profile)
	tracker.Finish()
	return summary, err
}

// captureWithTUI runs the capture behind the dashboard. Quitting the
// dashboard cancels the run.
func captureWithTUI(ctx context.Context, cfg *config.Config, page browser.Page, profile *pixiv.Profile) (*models.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
	rpm := cfg.RateLimit.RequestsPerMinute
	dashboard := tui.NewTUI(func() (int, int) { return limiter.Pending(), rpm })

	tuiDone := make(chan error, 1)
	go func() {
		err := dashboard.Start()
		if err == nil {
			cancel()
		}
		tuiDone <- err
	}()

	dashboard.Log("INFO", "Capturing %s", profile.URL)
	s := scraper.New(cfg, page, scraper.WithReporter(dashboard), scraper.WithLimiter(limiter))
	summary, err := s.Run(ctx, profile)

	if ctx.Err() != nil {
		dashboard.Stop()
	} else {
		if err != nil {
			dashboard.Log("ERROR", "%v", err)
		}
		dashboard.Finish()
	}
	if tuiErr := <-tuiDone; tuiErr != nil {
		logger.WithError(tuiErr).Warn("Dashboard stopped with an error")
	}
	return summary, err
}

// finishRun reports the outcome and maps it to an exit status
func finishRun(summary *models.Summary, runErr error) error {
	if summary != nil {
		ui.PrintSummary(summary)
	}

	var notifier *ui.Notifier
	if notify {
		notifier = ui.NewNotifier()
	}

	if runErr != nil {
		logger.WithError(runErr).Error("Capture failed")
		ui.PrintError("Capture failed", runErr.Error())
		if notifier != nil {
			notifier.NotifyRunFailed(runErr)
		}
		return withExitCode(exitFailure, runErr)
	}

	if notifier != nil {
		notifier.NotifyRunComplete(summary)
	}

	if failed := len(summary.FailedLinks()); failed > 0 && strict {
		return withExitCode(exitPartial, fmt.Errorf("%d artworks failed", failed))
	}
	return nil
}
