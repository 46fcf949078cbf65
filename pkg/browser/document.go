package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// EnableDocumentCapture arms the session to retrieve the order confirmation
// document: the confirmation prompt is accepted automatically, and when the
// system then opens the document view in a new page its HTML is saved to
// path, with a cleaned plain-text sibling next to it.
func (s *Session) EnableDocumentCapture(path string) {
	s.Page.OnDialog(func(dialog playwright.Dialog) {
		s.log.Infof("accepting dialog: %s", dialog.Message())
		if err := dialog.Accept(); err != nil {
			s.log.Errorf("failed to accept dialog: %v", err)
		}
	})

	s.Context.OnPage(func(page playwright.Page) {
		if err := s.captureDocument(page, path); err != nil {
			s.log.Errorf("failed to capture confirmation document: %v", err)
			return
		}
		s.log.Infof("confirmation document saved to %s", path)
	})
}

func (s *Session) captureDocument(page playwright.Page, path string) error {
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return err
	}

	content, err := page.Content()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	text, err := DocumentText(content)
	if err != nil {
		return fmt.Errorf("failed to clean document: %w", err)
	}
	return os.WriteFile(textSibling(path), []byte(text), 0o644)
}

// textSibling derives the plain-text path next to the HTML document.
func textSibling(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".txt"
}
