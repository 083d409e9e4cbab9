// Package notify sends SMS messages to program households and records
// every attempt in the sms_logs table.
package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Provider delivers a single SMS to an E.164 phone number.
type Provider interface {
	Name() string
	Send(ctx context.Context, phoneNumber, message string) error
}

type snsProvider struct {
	client *sns.Client
}

// NewSNSProvider builds the AWS SNS backed provider. Credentials come
// from the default AWS config chain.
func NewSNSProvider(ctx context.Context, region string) (Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &snsProvider{client: sns.NewFromConfig(cfg)}, nil
}

func (p *snsProvider) Name() string { return "sns" }

func (p *snsProvider) Send(ctx context.Context, phoneNumber, message string) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &phoneNumber,
		Message:     &message,
	})
	return err
}

type consoleProvider struct{}

// NewConsoleProvider logs messages instead of sending them. Used in
// development and when no SMS backend is configured.
func NewConsoleProvider() Provider { return consoleProvider{} }

func (consoleProvider) Name() string { return "console" }

func (consoleProvider) Send(_ context.Context, phoneNumber, message string) error {
	log.Printf("sms to %s: %s", phoneNumber, message)
	return nil
}

// ProviderFromEnv picks SNS when SMS_PROVIDER=sns, console otherwise.
func ProviderFromEnv(ctx context.Context) (Provider, error) {
	if os.Getenv("SMS_PROVIDER") == "sns" {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "eu-west-1"
		}
		return NewSNSProvider(ctx, region)
	}
	return NewConsoleProvider(), nil
}

// Service renders templates, normalizes numbers, sends via the provider
// and logs the outcome.
type Service struct {
	provider  Provider
	templates *Templates
	db        *pgxpool.Pool
}

func NewService(provider Provider, templates *Templates, db *pgxpool.Pool) *Service {
	return &Service{provider: provider, templates: templates, db: db}
}

// Send renders the named template and delivers it. The attempt is logged
// whether or not the provider succeeds.
func (s *Service) Send(ctx context.Context, phoneNumber, template string, vars map[string]string) error {
	message, err := s.templates.Render(template, vars)
	if err != nil {
		return err
	}

	normalized, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		s.logAttempt(ctx, phoneNumber, message, err)
		return err
	}

	sendErr := s.provider.Send(ctx, normalized, message)
	s.logAttempt(ctx, normalized, message, sendErr)
	return sendErr
}

func (s *Service) logAttempt(ctx context.Context, phoneNumber, message string, sendErr error) {
	if s.db == nil {
		return
	}
	errText := ""
	if sendErr != nil {
		errText = sendErr.Error()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO sms_logs (phone_number, message, provider, success, error)
		VALUES ($1, $2, $3, $4, $5)
	`, phoneNumber, message, s.provider.Name(), sendErr == nil, errText)
	if err != nil {
		log.Printf("sms log insert failed: %v", err)
	}
}

// NormalizePhoneNumber converts Kenyan numbers to E.164. Accepts the
// common local forms 07XXXXXXXX and 01XXXXXXXX, the bare country code
// form 2547XXXXXXXX, and already normalized +254 numbers.
func NormalizePhoneNumber(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch {
	case cleaned == "":
		return "", fmt.Errorf("empty phone number")
	case strings.HasPrefix(cleaned, "+254") && len(cleaned) == 13:
		return cleaned, nil
	case strings.HasPrefix(cleaned, "254") && len(cleaned) == 12:
		return "+" + cleaned, nil
	case (strings.HasPrefix(cleaned, "07") || strings.HasPrefix(cleaned, "01")) && len(cleaned) == 10:
		return "+254" + cleaned[1:], nil
	}
	return "", fmt.Errorf("unrecognized phone number format: %s", raw)
}
