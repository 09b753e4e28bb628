package publish

import (
	"context"
	"errors"
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/structures"
	"time"

	"github.com/google/uuid"
)

// Action produces and publishes one piece of content for an account.
// Produce has no side effects; Publish records nothing unless the external call succeeded.
type Action interface {
	Platform() models.Platform
	Produce() (models.Payload, error)
	Publish(ctx context.Context, payload models.Payload) (*models.Activity, error)
	History(account *models.Account) []*models.Activity
}

// Factory builds actions bound to a resolved account.
type Factory struct {
	publisher Publisher
	templates *Templates
	timeout   time.Duration
	now       func() time.Time
}

func NewFactory(conf *structures.Config, publisher Publisher, templates *Templates) *Factory {
	return &Factory{
		publisher: publisher,
		templates: templates,
		timeout:   conf.Publisher.Timeout,
		now:       time.Now,
	}
}

func (f *Factory) ForAccount(platform models.Platform, account *models.Account) (Action, error) {
	switch platform {
	case models.CollectionTwitter:
		return &PostAction{base: f.base(platform, account)}, nil
	case models.CollectionYouTube:
		return &VideoAction{base: f.base(platform, account)}, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownPlatform, platform)
}

// ForPitch shares the product through the linked twitter account.
func (f *Factory) ForPitch(product *models.Product, linked *models.Account) Action {
	return &PitchAction{
		product: product,
		post:    &PostAction{base: f.base(models.CollectionTwitter, linked)},
	}
}

func (f *Factory) base(platform models.Platform, account *models.Account) base {
	return base{
		platform:  platform,
		account:   account,
		publisher: f.publisher,
		templates: f.templates,
		timeout:   f.timeout,
		now:       f.now,
	}
}

type base struct {
	platform  models.Platform
	account   *models.Account
	publisher Publisher
	templates *Templates
	timeout   time.Duration
	now       func() time.Time
}

func (b *base) Platform() models.Platform {
	return b.platform
}

func (b *base) History(account *models.Account) []*models.Activity {
	if account == nil {
		return nil
	}
	return account.Clone().Activities
}

func (b *base) data() contentData {
	return contentData{
		Topic:    b.account.TopicOrNiche,
		Nickname: b.account.Nickname,
		Language: b.account.LanguageOrEmpty(),
		Date:     b.now().UTC().Format("2006-01-02"),
	}
}

type publishResult struct {
	ref string
	err error
}

// publish calls the publisher and waits at most timeout, even when the
// publisher ignores ctx. A late answer is dropped.
func (b *base) publish(ctx context.Context, payload models.Payload) (*models.Activity, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	done := make(chan publishResult, 1)
	account := b.account.Clone()
	go func() {
		ref, err := b.publisher.Publish(ctx, b.platform, account, payload)
		done <- publishResult{ref: ref, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, contextFailure(ctx.Err())
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled) {
				return nil, contextFailure(res.err)
			}
			return nil, models.NewPublishFailed("rejected", res.err)
		}
		payload.ExternalRef = res.ref
		return &models.Activity{
			ID:      uuid.NewString(),
			Date:    b.now().UTC().Format(time.RFC3339),
			Payload: payload,
		}, nil
	}
}

func contextFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewPublishFailed("timeout", models.ErrTimeout)
	}
	return models.NewPublishFailed("cancelled", err)
}

// PostAction produces a tweet from the account topic.
type PostAction struct {
	base
}

func (a *PostAction) Produce() (models.Payload, error) {
	content, err := render(a.templates.post, a.data())
	if err != nil {
		return models.Payload{}, err
	}
	return models.Payload{Content: content}, nil
}

func (a *PostAction) Publish(ctx context.Context, payload models.Payload) (*models.Activity, error) {
	return a.publish(ctx, payload)
}

// VideoAction produces a short video title and description in the account language.
type VideoAction struct {
	base
}

func (a *VideoAction) Produce() (models.Payload, error) {
	data := a.data()
	title, err := render(a.templates.videoTitle, data)
	if err != nil {
		return models.Payload{}, err
	}
	description, err := render(a.templates.videoDescription, data)
	if err != nil {
		return models.Payload{}, err
	}
	return models.Payload{Title: title, Description: description, Language: data.Language}, nil
}

func (a *VideoAction) Publish(ctx context.Context, payload models.Payload) (*models.Activity, error) {
	return a.publish(ctx, payload)
}

// PitchAction renders a product pitch and posts it as the linked account.
type PitchAction struct {
	product *models.Product
	post    *PostAction
}

func (a *PitchAction) Platform() models.Platform {
	return a.post.Platform()
}

func (a *PitchAction) Produce() (models.Payload, error) {
	data := a.post.data()
	data.Link = a.product.AffiliateLink
	content, err := render(a.post.templates.pitch, data)
	if err != nil {
		return models.Payload{}, err
	}
	return models.Payload{Content: content}, nil
}

func (a *PitchAction) Publish(ctx context.Context, payload models.Payload) (*models.Activity, error) {
	return a.post.Publish(ctx, payload)
}

func (a *PitchAction) History(account *models.Account) []*models.Activity {
	return a.post.History(account)
}
