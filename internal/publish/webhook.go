package publish

import (
	"bytes"
	"context"
	"io"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type webhookAccount struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	ProfileRef string `json:"profile_ref"`
	Topic      string `json:"topic"`
	Language   string `json:"language,omitempty"`
}

type webhookRequest struct {
	Platform string         `json:"platform"`
	Account  webhookAccount `json:"account"`
	Payload  models.Payload `json:"payload"`
	SentAt   string         `json:"sent_at"`
}

type webhookResponse struct {
	Ref string `json:"ref"`
}

// WebhookPublisher hands every payload to an HTTP endpoint that drives the real
// browser automation. A 2xx answer with a ref means the content went out.
type WebhookPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     providers.Logger
}

func NewWebhookPublisher(endpoint string, timeout time.Duration, logger providers.Logger) *WebhookPublisher {
	return &WebhookPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, platform models.Platform, account *models.Account, payload models.Payload) (string, error) {
	body, err := json.Marshal(webhookRequest{
		Platform: platform.String(),
		Account: webhookAccount{
			ID:         account.ID,
			Nickname:   account.Nickname,
			ProfileRef: account.ProfileRef,
			Topic:      account.TopicOrNiche,
			Language:   account.LanguageOrEmpty(),
		},
		Payload: payload,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-Id", account.ID)

	p.logger.Debugf(providers.TypePublish, "POST %s for %s/%s", p.endpoint, platform, account.ID)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "read publisher response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Errorf("publisher returned non-success status: %d", resp.StatusCode)
	}

	var out webhookResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return "", errors.Wrap(err, "decode publisher response")
		}
	}
	if out.Ref == "" {
		return "", errors.New("publisher response carries no ref")
	}
	return out.Ref, nil
}
