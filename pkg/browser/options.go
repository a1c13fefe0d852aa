package browser

import (
	"time"

	"github.com/chromedp/chromedp"
	"pixivsave/pkg/config"
)

// Options configures a Session
type Options struct {
	Headless     bool
	ExecPath     string
	NoSandbox    bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string

	NavigationTimeout time.Duration
	IdleTimeout       time.Duration

	// SessionID is the PHPSESSID cookie injected before the first navigation
	SessionID    string
	CookieDomain string
}

// OptionsFromConfig maps the browser and pixiv config sections onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Headless:          cfg.Browser.Headless,
		ExecPath:          cfg.Browser.ExecPath,
		NoSandbox:         cfg.Browser.NoSandbox,
		WindowWidth:       cfg.Browser.WindowWidth,
		WindowHeight:      cfg.Browser.WindowHeight,
		UserAgent:         cfg.Pixiv.UserAgent,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
		IdleTimeout:       cfg.Browser.IdleTimeout,
		SessionID:         cfg.Pixiv.SessionID,
		CookieDomain:      cfg.Pixiv.CookieDomain,
	}
}

// BuildAllocatorOptions creates Chrome allocator options for opts
func BuildAllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := make([]chromedp.ExecAllocatorOption, 0, len(chromedp.DefaultExecAllocatorOptions)+8)
	allocOpts = append(allocOpts, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)

	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	return allocOpts
}
