package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"stagedoor/internal/shared/config"
	"stagedoor/pkg/logger"
)

// EmailService delivers ticket emails
type EmailService interface {
	SendTicketEmail(ctx context.Context, notification *TicketEmailNotification) error
}

const ticketEmailTemplate = `<html>
<body>
<p>Hej{{if .RecipientName}} {{.RecipientName}}{{end}}!</p>
<p>Tack för din bokning. Din bokningskod är <strong>{{.ReservationCode}}</strong>.</p>
<p>{{.NumTickets}} biljetter till föreställningen {{.ShowDate.Format "2006-01-02 15:04"}}.</p>
<p>Dina biljetter hittar du här:
<a href="{{.DetailURL}}">{{.DetailURL}}</a></p>
<p>Väl mött!</p>
</body>
</html>`

// SMTPEmailService sends ticket emails through a plain SMTP relay
type SMTPEmailService struct {
	cfg      config.EmailConfig
	template *template.Template
	logger   *logger.Logger
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(cfg config.EmailConfig) (*SMTPEmailService, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	tmpl, err := template.New("ticket_email").Parse(ticketEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticket email template: %w", err)
	}

	return &SMTPEmailService{
		cfg:      cfg,
		template: tmpl,
		logger:   logger.GetDefault(),
	}, nil
}

func (s *SMTPEmailService) SendTicketEmail(ctx context.Context, notification *TicketEmailNotification) error {
	body, err := s.renderBody(notification)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Din bokning %s", notification.ReservationCode)
	message := s.buildMessage(notification.RecipientEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{notification.RecipientEmail}, message); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}

	s.logger.InfoWithContext(ctx, "ticket email sent", map[string]interface{}{
		"reservation_code": notification.ReservationCode,
	})
	return nil
}

func (s *SMTPEmailService) renderBody(notification *TicketEmailNotification) (string, error) {
	data := struct {
		*TicketEmailNotification
		DetailURL string
	}{
		TicketEmailNotification: notification,
		DetailURL:               fmt.Sprintf("%s/reservations/%s", s.cfg.BaseURL, notification.ReservationCode),
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render ticket email: %w", err)
	}
	return buf.String(), nil
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.cfg.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}

// LogEmailService is the development fallback when no SMTP relay is
// configured; it logs instead of sending.
type LogEmailService struct {
	logger *logger.Logger
}

// NewLogEmailService creates an email service that only logs
func NewLogEmailService() *LogEmailService {
	return &LogEmailService{logger: logger.GetDefault()}
}

func (s *LogEmailService) SendTicketEmail(ctx context.Context, notification *TicketEmailNotification) error {
	s.logger.InfoWithContext(ctx, "ticket email (not sent, no SMTP configured)", map[string]interface{}{
		"recipient":        notification.RecipientEmail,
		"reservation_code": notification.ReservationCode,
		"num_tickets":      notification.NumTickets,
	})
	return nil
}
