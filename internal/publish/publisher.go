package publish

import (
	"context"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/structures"

	"github.com/google/uuid"
)

// Publisher is the external side effect: posting a tweet, uploading a video.
// It returns an opaque reference to what was published.
type Publisher interface {
	Publish(ctx context.Context, platform models.Platform, account *models.Account, payload models.Payload) (string, error)
}

// NewPublisher picks the webhook publisher when an endpoint is configured.
func NewPublisher(conf *structures.Config, logger providers.Logger) Publisher {
	if conf.Publisher.Endpoint == "" {
		logger.Warnf(providers.TypePublish, "No publisher endpoint configured, activities are only recorded locally")
		return &localPublisher{logger: logger}
	}
	return NewWebhookPublisher(conf.Publisher.Endpoint, conf.Publisher.Timeout, logger)
}

// localPublisher accepts everything and only logs it.
type localPublisher struct {
	logger providers.Logger
}

func (p *localPublisher) Publish(_ context.Context, platform models.Platform, account *models.Account, payload models.Payload) (string, error) {
	ref := "local-" + uuid.NewString()
	p.logger.Infof(providers.TypePublish, "[local] %s/%s %s", platform, account.Nickname, ref)
	return ref, nil
}
