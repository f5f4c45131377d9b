package notification

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mswdo/soloparent-backend/config"
)

// EmailSender delivers outbound mail over SMTP with STARTTLS.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string

	FrontendURL string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		FromName:    cfg.SMTPFromName,
		FromAddr:    cfg.SMTPFromEmail,
		FrontendURL: cfg.FrontendURL,
	}
}

// Send delivers one plain-text message. When SMTP is not configured it logs
// and returns nil so workflow transitions never fail on mail.
func (e *EmailSender) Send(to, subject, body string) error {
	if e.Host == "" || e.Username == "" || e.Password == "" {
		fmt.Println("⚠️ SMTP not configured. Email not sent.")
		return nil
	}

	fromAddr := e.FromAddr
	if fromAddr == "" {
		fromAddr = e.Username
	}
	from := fromAddr
	if e.FromName != "" {
		from = fmt.Sprintf("%s <%s>", e.FromName, fromAddr)
	}

	addr := fmt.Sprintf("%s:%s", e.Host, e.Port)
	fmt.Println("📤 Sending email to:", to, "via", addr)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         e.Host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(fromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if _, err := w.Write([]byte(msg.String())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	if err := client.Quit(); err != nil {
		fmt.Printf("⚠️ QUIT command error (non-critical): %v\n", err)
	}

	fmt.Println("✅ Email sent successfully to:", to)
	return nil
}

// ===================== MESSAGE CATALOG =====================

// EmailKind picks the subject and body template for a queued message.
type EmailKind string

const (
	EmailStatusUpdate   EmailKind = "status_update"
	EmailRenewal        EmailKind = "renewal"
	EmailRevoke         EmailKind = "revoke"
	EmailTermination    EmailKind = "termination"
	EmailReverification EmailKind = "reverification"
	EmailPasswordReset  EmailKind = "password_reset"
	EmailChildRequest   EmailKind = "child_request"
)

// Compose renders the subject and body for a queued message. Data keys are
// kind-specific: name, status, remarks, token.
func (e *EmailSender) Compose(kind EmailKind, data map[string]string) (subject, body string, err error) {
	name := data["name"]
	switch kind {
	case EmailStatusUpdate:
		subject = "Solo Parent Application Update"
		body = fmt.Sprintf("Hello %s,\n\nYour solo parent application status is now: %s.\n\nThank you,\nMSWDO", name, data["status"])
	case EmailRenewal:
		subject = "Solo Parent ID Renewal Approved"
		body = fmt.Sprintf("Hello %s,\n\nYour solo parent ID renewal has been approved. Your benefits remain active.\n\nThank you,\nMSWDO", name)
	case EmailRevoke:
		subject = "Solo Parent Status Under Review"
		body = fmt.Sprintf("Hello %s,\n\nYour solo parent status is under review following an investigation remark:\n\n%s\n\nPlease coordinate with your barangay office.\n\nMSWDO", name, data["remarks"])
	case EmailTermination:
		subject = "Solo Parent Status Terminated"
		body = fmt.Sprintf("Hello %s,\n\nYour solo parent status has been terminated.\nReason: %s\n\nYou may coordinate with the MSWDO office for clarification.\n\nMSWDO", name, data["remarks"])
	case EmailReverification:
		subject = "Solo Parent Status Restored"
		body = fmt.Sprintf("Hello %s,\n\nYour solo parent status has been restored after re-verification. Your benefits are active again.\n\nThank you,\nMSWDO", name)
	case EmailChildRequest:
		subject = "Child Information Request Update"
		body = fmt.Sprintf("Hello %s,\n\n%s\n\nThank you,\nMSWDO", name, data["message"])
	case EmailPasswordReset:
		base := e.FrontendURL
		if base == "" {
			base = "http://localhost:5173"
			fmt.Println("⚠️ FRONTEND_URL not set, using default:", base)
		}
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", base, data["token"])
		subject = "Reset your password"
		body = fmt.Sprintf("Click here to reset your password: %s\n\nIf you did not request this password reset, please ignore this email.", resetURL)
	default:
		return "", "", fmt.Errorf("unknown email kind %q", kind)
	}
	return subject, body, nil
}
