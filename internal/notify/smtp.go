// Package notify delivers the unmatched-lines digest over SMTP.
package notify

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	purchasesrepo "procurement_backend/internal/purchases/repository"
	"procurement_backend/platform/config"
)

const subjectUnmatchedDigest = "Unmatched catalog lines digest"

// DigestSender sends the periodic unmatched-lines report to procurement
// staff over the configured SMTP server.
type DigestSender struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	recipients []string
}

// NewDigestSender creates a DigestSender from the SMTP configuration.
func NewDigestSender(cfg config.SMTPConfig) *DigestSender {
	return &DigestSender{
		host:       cfg.GetSMTPHost(),
		port:       cfg.GetSMTPPort(),
		username:   cfg.GetSMTPUsername(),
		password:   cfg.GetSMTPPassword(),
		fromName:   cfg.GetSMTPFromName(),
		fromEmail:  cfg.GetSMTPFromAddress(),
		recipients: cfg.GetDigestRecipients(),
	}
}

// SendUnmatchedDigest renders and delivers the digest. An empty line set or
// an empty recipient list is a no-op, not an error.
func (s *DigestSender) SendUnmatchedDigest(ctx context.Context, lines []purchasesrepo.UnmatchedLine) error {
	if len(lines) == 0 || len(s.recipients) == 0 {
		return nil
	}

	data := digestData{
		Title:     subjectUnmatchedDigest,
		Heading:   "Line items without a catalog match",
		LineCount: len(lines),
		Lines:     make([]digestLine, 0, len(lines)),
	}
	for _, line := range lines {
		data.Lines = append(data.Lines, digestLine{
			ReferenceNumber: line.ReferenceNumber,
			LineNumber:      line.LineNumber,
			CatalogCode:     line.CatalogCode,
			Description:     line.Description,
			ClientName:      line.ClientName,
		})
	}

	content, err := renderTemplate("unmatched_digest.html", data)
	if err != nil {
		return err
	}

	for _, recipient := range s.recipients {
		if err := s.send(ctx, recipient, subjectUnmatchedDigest, content); err != nil {
			return fmt.Errorf("send digest to %s: %w", recipient, err)
		}
	}
	return nil
}

func (s *DigestSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
