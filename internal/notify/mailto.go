package notify

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// MailtoURI builds a mailto: link prefilled with the message subject and
// plain text body. Spaces encode as %20 so mail clients don't show "+".
func MailtoURI(to string, msg EmailMessage) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", to, encodeComponent(msg.Subject), encodeComponent(msg.Body))
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Opener hands a URI to whatever the local environment registered for it.
type Opener interface {
	Open(uri string) error
}

// OpenerFunc adapts a function into an Opener.
type OpenerFunc func(uri string) error

// Open delegates to the underlying function.
func (fn OpenerFunc) Open(uri string) error { return fn(uri) }

// SystemOpener launches the platform URL handler.
var SystemOpener Opener = OpenerFunc(func(uri string) error {
	name, args := openCommand(runtime.GOOS, uri)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("notify: launch %s: %w", name, err)
	}
	return nil
})

func openCommand(goos, uri string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{uri}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}
	default:
		return "xdg-open", []string{uri}
	}
}

// MailtoSender is the no-network fallback: it opens the local mail client
// with the message prefilled and leaves sending to the user.
type MailtoSender struct {
	opener Opener
	logger *logging.Logger
}

// NewMailtoSender creates a fallback sender. A nil opener uses SystemOpener.
func NewMailtoSender(opener Opener, logger *logging.Logger) *MailtoSender {
	if opener == nil {
		opener = SystemOpener
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MailtoSender{opener: opener, logger: logger}
}

// Send opens the mail client. There is no provider message id.
func (s *MailtoSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.opener.Open(MailtoURI(msg.To, msg)); err != nil {
		s.logger.Error("mailto fallback failed", "error", err, "to", msg.To)
		return "", err
	}
	s.logger.Info("mail client opened", "to", msg.To, "subject", msg.Subject)
	return "", nil
}

var _ EmailSender = (*MailtoSender)(nil)
