package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"backoffice/internal/core/domain/model/notification"
)

type SMSGatewayConfig struct {
	URL      string
	Username string
	Password string
}

// SMSSender posts text messages to an HTTP SMS gateway.
type SMSSender struct {
	cfg    SMSGatewayConfig
	client *http.Client
}

func NewSMSSender(cfg SMSGatewayConfig) *SMSSender {
	return &SMSSender{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

type smsRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Ref  string `json:"reference"`
}

func (s *SMSSender) Send(ctx context.Context, m notification.Message) error {
	body, err := json.Marshal(smsRequest{To: m.Target, Text: m.Text(), Ref: m.ID.String()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Username != "" {
		req.SetBasicAuth(s.cfg.Username, s.cfg.Password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
