package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds mail relay settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Enabled reports whether any mail setting is present.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" || c.Username != "" || c.Password != "" || c.From != "" || c.To != ""
}

// Missing returns the names of required settings that are empty.
func (c SMTPConfig) Missing() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Port == 0 {
		missing = append(missing, "port")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.To == "" {
		missing = append(missing, "to")
	}
	return missing
}

func (c SMTPConfig) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// implicitTLSPort is the submissions port, which speaks TLS from the
// first byte instead of upgrading with STARTTLS.
const implicitTLSPort = 465

// sendFunc delivers one message. Swapped out in tests.
type sendFunc func(ctx context.Context, cfg SMTPConfig, msg *mail.Msg) error

// SMTPNotifier emails the plain-text report over an authenticated relay.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

// NewSMTPNotifier creates a notifier for cfg. The config is assumed valid.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPNotifier{cfg: cfg, send: sendMail, now: time.Now}
}

// Notify sends the report. It makes one attempt.
func (n *SMTPNotifier) Notify(ctx context.Context, s Summary) error {
	msg, err := n.buildMessage(s)
	if err != nil {
		return &NotificationError{Op: "build email", Err: err}
	}
	if err := n.send(ctx, n.cfg, msg); err != nil {
		return &NotificationError{Op: "send email", Err: err}
	}
	return nil
}

// headerSafe folds line breaks into spaces so user text stays on one
// header line.
var headerSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (n *SMTPNotifier) buildMessage(s Summary) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithCharset(mail.CharsetUTF8))
	if err := msg.From(n.cfg.sender()); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(n.cfg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Quiz report: %s (%.1f%%)", headerSafe.Replace(s.Topic), s.Score))
	msg.SetDateWithValue(n.now())
	msg.SetBodyString(mail.TypeTextPlain, FormatPlainText(s))
	return msg, nil
}

// sendMail dials the relay honoring ctx. Port 465 uses implicit TLS, any
// other port upgrades with STARTTLS when the server offers it. Auth is PLAIN.
func sendMail(ctx context.Context, cfg SMTPConfig, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("deliver to %s: %w", cfg.Host, err)
	}
	return nil
}
