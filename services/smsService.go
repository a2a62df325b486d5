package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// SMSService talks to an HTTP SMS gateway (BulkSMSBD-style form API). It is
// strictly best-effort: order processing never waits on it and never fails
// because of it.
type SMSService struct {
	client   *resty.Client
	apiURL   string
	apiKey   string
	senderID string
}

func NewSMSServiceFromEnv() *SMSService {
	return &SMSService{
		client:   resty.New().SetTimeout(15 * time.Second),
		apiURL:   os.Getenv("SMS_API_URL"),
		apiKey:   os.Getenv("SMS_API_KEY"),
		senderID: os.Getenv("SMS_SENDER_ID"),
	}
}

// Send delivers one message synchronously. Callers on the order path must go
// through Dispatch instead.
func (s *SMSService) Send(ctx context.Context, phone, message string) error {
	if s.apiURL == "" {
		log.Printf("SMS gateway not configured, skipping message to %s", phone)
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"api_key":  s.apiKey,
			"senderid": s.senderID,
			"number":   phone,
			"message":  message,
		}).
		Post(s.apiURL)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Dispatch sends on a detached goroutine after the caller's work is done.
// Failures are logged and swallowed.
func (s *SMSService) Dispatch(phone, message string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("SMS dispatch panicked for %s: %v", phone, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		if err := s.Send(ctx, phone, message); err != nil {
			log.Printf("SMS dispatch to %s failed: %v", phone, err)
		}
	}()
}
