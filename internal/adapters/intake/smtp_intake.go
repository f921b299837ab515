package intake

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/email-reconciler/internal/ports"
	"go.uber.org/zap"
)

// SMTPIntake receives messages over SMTP, typically as an always_bcc or
// journaling destination, and records their recipients
type SMTPIntake struct {
	*Recorder
	logger         *zap.Logger
	listenAddr     string
	domain         string
	maxMessageSize int64
	maxRecipients  int
	timeout        time.Duration
	server         *smtp.Server
}

var _ ports.EmailIntake = (*SMTPIntake)(nil)

// NewSMTPIntake creates a new SMTP intake
func NewSMTPIntake(
	recorder *Recorder,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	maxMessageSize int64,
	maxRecipients int,
	timeout time.Duration,
) *SMTPIntake {
	return &SMTPIntake{
		Recorder:       recorder,
		logger:         logger,
		listenAddr:     listenAddr,
		domain:         domain,
		maxMessageSize: maxMessageSize,
		maxRecipients:  maxRecipients,
		timeout:        timeout,
	}
}

// Start starts the SMTP listener
func (i *SMTPIntake) Start() error {
	i.server = smtp.NewServer(&smtpBackend{intake: i})

	i.server.Addr = i.listenAddr
	i.server.Domain = i.domain
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = i.maxMessageSize
	i.server.MaxRecipients = i.maxRecipients

	i.logger.Info("SMTP intake starting", zap.String("address", i.listenAddr))

	go func() {
		if err := i.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			i.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (i *SMTPIntake) Stop() error {
	if i.server != nil {
		return i.server.Close()
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake     *SMTPIntake
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := ReadMessage(bytes.NewReader(raw), s.sender, s.recipients)
	if err != nil {
		s.intake.logger.Error("Failed to parse email message", zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Malformed message",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.intake.timeout)
	defer cancel()

	if _, err := s.intake.ProcessMessage(ctx, msg); err != nil {
		s.intake.logger.Error("Failed to record message", zap.String("message_id", msg.ID), zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary storage failure",
		}
	}
	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
