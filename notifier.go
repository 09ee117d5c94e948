package authgate

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPNotifier delivers email over SMTP with STARTTLS.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger Logger
}

var _ Notifier = (*SMTPNotifier)(nil)

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: defLogger{},
	}
}

func (n *SMTPNotifier) WithLogger(logger Logger) *SMTPNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// Send delivers a single HTML message. The dial and every subsequent IO
// operation share one deadline derived from ctx, defaulting to 15s.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(15 * time.Second)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp dial failed")
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp set deadline failed")
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp handshake failed")
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp starttls failed")
		}
	}

	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp auth failed")
		}
	}

	if err := client.Mail(n.cfg.From); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp mail from failed")
	}
	if err := client.Rcpt(to); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp rcpt failed")
	}

	w, err := client.Data()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp data failed")
	}

	msg := fmt.Sprintf("From: %s <%s>\r\n", n.cfg.FromName, n.cfg.From) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody

	if _, err := w.Write([]byte(msg)); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp write failed")
	}
	if err := w.Close(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp close failed")
	}

	return client.Quit()
}

// LogNotifier prints messages instead of delivering them. Used in
// development when no SMTP host is configured.
type LogNotifier struct {
	logger Logger
}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger Logger) *LogNotifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	n.logger.Info("====== EMAIL NOTIFICATION ======")
	n.logger.Info("to: %s", to)
	n.logger.Info("subject: %s", subject)
	n.logger.Info("body: %s", htmlBody)
	return nil
}
