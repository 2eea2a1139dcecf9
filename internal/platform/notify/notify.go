package notify

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"salon/internal/platform/config"
)

// Service sends client-facing email and SMS. Either channel may be left
// unconfigured; sends on a disabled channel are skipped, not errors, so a
// salon can run email-only or SMS-only.
type Service struct {
	sendgridKey string
	fromEmail   string
	fromName    string
	twilio      *twilio.RestClient
	twilioFrom  string
}

func New(cfg config.Config) *Service {
	s := &Service{
		sendgridKey: cfg.SendGridAPIKey,
		fromEmail:   cfg.EmailFrom,
		fromName:    cfg.EmailFromName,
		twilioFrom:  cfg.TwilioFromNumber,
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		s.twilio = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return s
}

func (s *Service) EmailEnabled() bool { return s.sendgridKey != "" }
func (s *Service) SMSEnabled() bool   { return s.twilio != nil && s.twilioFrom != "" }

func (s *Service) SendEmail(toEmail, toName, subject, plainText string) error {
	if !s.EmailEnabled() {
		slog.Debug("email disabled, skipping", "to", toEmail)
		return nil
	}
	if toEmail == "" {
		return nil
	}

	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, plainText, "")

	resp, err := sendgrid.NewSendClient(s.sendgridKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *Service) SendSMS(toNumber, body string) error {
	if !s.SMSEnabled() {
		slog.Debug("sms disabled, skipping", "to", toNumber)
		return nil
	}
	if toNumber == "" {
		return nil
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.twilioFrom)
	params.SetBody(body)

	if _, err := s.twilio.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
