package smtp

import (
	"context"
	"fmt"
	"strings"

	"github.com/relay-resources/shipbulk/batch"
	"github.com/relay-resources/shipbulk/config"
	"gopkg.in/gomail.v2"
)

// NotifyService mails the operator a plain-text summary when a batch run
// completes. It is entirely optional: when notifications are disabled the
// batch behaves identically.
type NotifyService struct {
	from string
	to   string
	d    *gomail.Dialer
}

func NewNotifyService(cfg config.NotifyConfig) *NotifyService {
	d := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
	)

	return &NotifyService{
		from: cfg.From,
		to:   cfg.To,
		d:    d,
	}
}

// SendCompletion sends the end-of-batch summary.
// This will open a new server connection and immediately close it after sending the e-mail.
func (s *NotifyService) SendCompletion(_ context.Context, report *batch.Report) error {
	m := gomail.NewMessage()

	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", fmt.Sprintf("Bulk shipping run %s complete", report.RunID))
	m.SetBody("text/plain", completionBody(report))

	return s.d.DialAndSend(m)
}

func completionBody(report *batch.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bulk shipping run %s finished.\n\n", report.RunID)
	fmt.Fprintf(&b, "Shipped: %d\n", len(report.Shipped))
	fmt.Fprintf(&b, "Failed:  %d\n\n", len(report.Failed))
	fmt.Fprintf(&b, "Failed orders: %s\n", report.FailedSummary())
	return b.String()
}
