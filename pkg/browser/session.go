package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/skyorder/pkg/logging"
)

// popupMessages are the warning dialogs the order system raises
// spontaneously during data entry. Both carry an Ok button and are safe to
// dismiss unconditionally.
var popupMessages = []string{
	"Achtung! Wählen Sie ein Angebot",
	"Verbindung mit Desktop Integration Siebel Agent",
}

// Session is one logged-in browser session. All fields are owned by the
// session; the workflow only borrows Page.
type Session struct {
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page
	log     *logging.Logger
}

// login authenticates against the Siebel entry page.
func (s *Session) login(cfg Config) error {
	if _, err := s.Page.Goto(cfg.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.URL, err)
	}
	if err := s.Page.Fill(usernameInput, cfg.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := s.Page.Fill(passwordInput, cfg.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := s.Page.Click(loginButton); err != nil {
		return fmt.Errorf("failed to submit login: %w", err)
	}
	return nil
}

// popupDismissSelector matches the Ok button of any known warning dialog.
func popupDismissSelector() string {
	alternatives := make([]string, len(popupMessages))
	for i, msg := range popupMessages {
		alternatives[i] = fmt.Sprintf(`div:has-text("%s")`, msg)
	}
	return fmt.Sprintf(`div[role=dialog]:has(%s) div div button:has-text("Ok") >> visible=true`,
		strings.Join(alternatives, ","))
}

// watchPopups dismisses known warning dialogs for the lifetime of the page.
// Each click waits without a deadline for the next dialog to appear; the
// loop ends when the page is torn down.
func (s *Session) watchPopups() {
	selector := popupDismissSelector()
	for {
		err := s.Page.Click(selector, playwright.PageClickOptions{
			Timeout: playwright.Float(0),
		})
		if err == nil {
			s.log.Infof("dismissed a warning dialog")
			continue
		}
		if errors.Is(err, playwright.ErrTargetClosed) {
			return
		}
		s.log.Errorf("popup watcher stopped: %v", err)
		return
	}
}

// Close tears the session down. Errors are logged, not returned: teardown
// happens on paths that already carry a primary error.
func (s *Session) Close() {
	if err := s.Page.Close(); err != nil {
		s.log.Warnf("failed to close page: %v", err)
	}
	if err := s.Context.Close(); err != nil {
		s.log.Warnf("failed to close context: %v", err)
	}
	if err := s.Browser.Close(); err != nil {
		s.log.Warnf("failed to close browser: %v", err)
	}
}
