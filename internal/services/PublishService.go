package services

import (
	"context"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/publish"
	"moneyprint/internal/registry"
	"time"
)

type PublishServiceInterface interface {
	Invoke(ctx context.Context, platform models.Platform, accountID string) (*models.Activity, error)
	Pitch(ctx context.Context, productID string) (*models.Activity, error)
}

// PublishService runs resolve, produce, publish, append for one account.
// The activity is appended only after the publisher confirmed.
type PublishService struct {
	accounts registry.AccountRegistryInterface
	products registry.ProductRegistryInterface
	factory  *publish.Factory
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewPublishService(accounts registry.AccountRegistryInterface, products registry.ProductRegistryInterface, factory *publish.Factory, logger providers.Logger, metrics providers.MetricsProviderInterface) *PublishService {
	return &PublishService{
		accounts: accounts,
		products: products,
		factory:  factory,
		logger:   logger,
		metrics:  metrics,
	}
}

func (ps *PublishService) Invoke(ctx context.Context, platform models.Platform, accountID string) (*models.Activity, error) {
	account, err := ps.accounts.FindByID(platform, accountID)
	if err != nil {
		return nil, err
	}
	action, err := ps.factory.ForAccount(platform, account)
	if err != nil {
		return nil, err
	}
	return ps.run(ctx, action, account)
}

func (ps *PublishService) Pitch(ctx context.Context, productID string) (*models.Activity, error) {
	product, err := ps.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	linked, err := ps.accounts.FindByID(models.CollectionTwitter, product.LinkedAccountID)
	if err != nil {
		return nil, err
	}
	return ps.run(ctx, ps.factory.ForPitch(product, linked), linked)
}

func (ps *PublishService) run(ctx context.Context, action publish.Action, account *models.Account) (*models.Activity, error) {
	platform := action.Platform()
	payload, err := action.Produce()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	activity, err := action.Publish(ctx, payload)
	ps.metrics.ObservePublishDuration(platform.String(), time.Since(start))
	ps.metrics.IncPublishResult(platform.String(), err == nil)
	if err != nil {
		ps.logger.Errorf(providers.TypePublish, "Publish for %s/%s failed: %s", platform, account.ID, err)
		return nil, err
	}

	if err := ps.accounts.AppendActivity(platform, account.ID, activity); err != nil {
		ps.logger.Errorf(providers.TypePublish, "Published %s for %s/%s but could not record it: %s", activity.ExternalRef, platform, account.ID, err)
		return nil, err
	}
	ps.logger.Infof(providers.TypePublish, "Published %s for %s/%s", activity.ID, platform, account.ID)
	return activity, nil
}
