package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/nikhil/taskflow/internal/config"
	"github.com/nikhil/taskflow/internal/logger"
)

const (
	dialTimeout = 10 * time.Second
	// sendTimeout bounds a whole delivery when ctx carries no deadline.
	sendTimeout = 30 * time.Second
)

// Mailer delivers verification codes to users.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, code string) error
}

// New returns an SMTP mailer when a host is configured and a log-only mailer
// otherwise.
func New(cfg config.SMTPConfig, log *logger.Logger) Mailer {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, verification codes will only be logged")
		return &LogMailer{Log: log.Service("mailer")}
	}
	return &SMTPMailer{cfg: cfg, Log: log.Service("mailer"), send: sendMail}
}

type SMTPMailer struct {
	cfg  config.SMTPConfig
	Log  *logger.Logger
	send func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	msg := verificationMessage(m.cfg.From, to, code)
	if err := m.send(ctx, addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	m.Log.WithContext(ctx).Info("Verification email sent", "to", to)
	return nil
}

// sendMail is smtp.SendMail with the connection bounded by ctx: the dial is
// cancellable and every read and write fails once the deadline passes.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sendTimeout)
		defer cancel()
	}
	deadline, _ := ctx.Deadline()

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	// Unblock a stalled exchange as soon as ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		conn.Close()
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func verificationMessage(from, to, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Verify your TaskFlow account\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your verification code is %s.\r\n", code)
	return []byte(b.String())
}

// LogMailer writes the code to the log instead of sending it.
type LogMailer struct {
	Log *logger.Logger
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, to, code string) error {
	m.Log.WithContext(ctx).Info("Verification code issued", "to", to, "code", code)
	return nil
}
