// Package browser owns the Playwright lifecycle for one order-entry run:
// launching Chromium, logging in to the order system, keeping known warning
// dialogs dismissed and capturing the confirmation document.
package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/skyorder/pkg/logging"
)

const (
	// Login controls of the Siebel entry page.
	usernameInput = "#s_swepi_1"
	passwordInput = "#s_swepi_2"
	loginButton   = "#s_swepi_22"

	viewportWidth  = 1920
	viewportHeight = 1080
)

// Config holds the connection settings for one session.
type Config struct {
	URL      string
	Username string
	Password string
	Headless bool
}

// Validate checks that all required connection settings are present.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("siebel URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("siebel username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("siebel password is required")
	}
	return nil
}

// runOptions silences the Playwright driver; its output would interleave
// with the run log on stderr.
func runOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
}

// Install downloads the Playwright driver and browsers. It is an explicit
// setup step, not part of the run path.
func Install() error {
	if err := playwright.Install(runOptions()); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// Manager owns one Playwright driver instance.
type Manager struct {
	pw  *playwright.Playwright
	log *logging.Logger
}

// NewManager starts the Playwright driver.
func NewManager(log *logging.Logger) (*Manager, error) {
	pw, err := playwright.Run(runOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright (run with -install first?): %w", err)
	}
	return &Manager{pw: pw, log: log}, nil
}

// Close stops the Playwright driver. Sessions must be closed first.
func (m *Manager) Close() error {
	if err := m.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// OpenSession launches a browser, navigates to the order system, logs in and
// starts the popup watcher. The caller owns the returned session and must
// close it.
//
// The page's default timeout is disabled: the order UI is slow and runs may
// include open-ended manual-intervention pauses, so bounded waits are chosen
// per call site instead.
func (m *Manager) OpenSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     []string{"--start-maximized"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(0)

	session := &Session{
		Browser: browser,
		Context: context,
		Page:    page,
		log:     m.log,
	}

	if err := session.login(cfg); err != nil {
		session.Close()
		return nil, err
	}
	go session.watchPopups()

	m.log.Infof("session open at %s", cfg.URL)
	return session, nil
}
