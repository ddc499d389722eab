package mail

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers plain-text mail.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
	Close() error
}

const defaultSMTPTimeout = 10 * time.Second

// SMTPSender sends mail through an SMTP relay, upgrading to STARTTLS when the
// relay offers it and authenticating with PLAIN when a user is set.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	timeout  time.Duration
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(host, port, user, password, from string) (*SMTPSender, error) {
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return nil, fmt.Errorf("invalid SMTP port %q", port)
	}
	return &SMTPSender{
		host:     host,
		port:     p,
		user:     user,
		password: password,
		from:     from,
		timeout:  defaultSMTPTimeout,
	}, nil
}

func (s *SMTPSender) message(to, subject, body string) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(gomail.TypeTextPlain, body)
	return m, nil
}

func (s *SMTPSender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTimeout(s.timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.user),
			gomail.WithPassword(s.password),
		)
	}
	return gomail.NewClient(s.host, opts...)
}

// Send delivers one message. The dial and the SMTP exchange are bounded by
// both ctx and the sender's timeout.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.message(to, subject, body)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// Close is a no-op; each Send dials its own connection.
func (s *SMTPSender) Close() error { return nil }

// Message is a mail captured by LogSender.
type Message struct {
	To      string
	Subject string
	Body    string
}

// LogSender writes mail to the log instead of delivering it. It is used when
// no SMTP relay is configured, and in tests.
type LogSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewLogSender creates a new LogSender
func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	s.sent = append(s.sent, Message{To: to, Subject: subject, Body: body})
	s.mu.Unlock()

	log.Printf("mail: to=%s subject=%q", to, subject)
	return nil
}

func (s *LogSender) Close() error { return nil }

// Sent returns a copy of the captured messages.
func (s *LogSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
