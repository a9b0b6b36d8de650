package service

import (
	"context"
	"fmt"
	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/internal/util"
	"thinkdrills_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailSender delivers a single HTML email. Transport failures surface as
// util.ErrEmailDelivery.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SendgridEmailService struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgridEmailService(cfg config.EmailConfig) *SendgridEmailService {
	return &SendgridEmailService{
		client: sendgrid.NewSendClient(cfg.SendgridKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (s *SendgridEmailService) Send(ctx context.Context, to, subject, html string) error {
	message := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail("", to), "", html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrEmailDelivery, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: sendgrid returned status %d", util.ErrEmailDelivery, resp.StatusCode)
	}
	return nil
}

// ConsoleEmailService logs instead of sending. Used in debug mode and when
// no sendgrid key is configured.
type ConsoleEmailService struct{}

func (ConsoleEmailService) Send(_ context.Context, to, subject, html string) error {
	logger.Log.Info("email (console sender)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("html", html))
	return nil
}
