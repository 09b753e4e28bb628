package services

import (
	"context"
	"fmt"
	"moneyprint/internal/jobs/interfaces"
	"moneyprint/internal/models"
	"moneyprint/internal/publish"
	"moneyprint/internal/registry"
)

// ConsoleServiceInterface is what an operator front end calls.
type ConsoleServiceInterface interface {
	CreateAccount(platform models.Platform, fields models.AccountFields) (*models.Account, error)
	ListAccounts(platform models.Platform) ([]*models.Account, error)
	RemoveAccount(platform models.Platform, id string) error
	RunPublishNow(ctx context.Context, platform models.Platform, id string) (*models.Activity, error)
	GetHistory(platform models.Platform, id string, limit int) ([]*models.Activity, error)
	ScheduleRecurring(platform models.Platform, id string, choice string, times []string) (*models.ScheduleStatus, error)
	CancelSchedule(id string) error
	ListSchedules() []*models.ScheduleStatus
	AddProduct(fields models.ProductFields) (*models.Product, error)
	ListProducts() ([]*models.Product, error)
	RemoveProduct(id string) error
	PitchProduct(ctx context.Context, id string) (*models.Activity, error)
	AccountCounts() (map[models.Platform]int, error)
}

type ConsoleService struct {
	accounts  registry.AccountRegistryInterface
	products  registry.ProductRegistryInterface
	publisher PublishServiceInterface
	scheduler interfaces.SchedulerInterface
	factory   *publish.Factory
}

func NewConsoleService(accounts registry.AccountRegistryInterface, products registry.ProductRegistryInterface, publisher PublishServiceInterface, scheduler interfaces.SchedulerInterface, factory *publish.Factory) ConsoleServiceInterface {
	return &ConsoleService{
		accounts:  accounts,
		products:  products,
		publisher: publisher,
		scheduler: scheduler,
		factory:   factory,
	}
}

func (cs *ConsoleService) CreateAccount(platform models.Platform, fields models.AccountFields) (*models.Account, error) {
	return cs.accounts.Create(platform, fields)
}

func (cs *ConsoleService) ListAccounts(platform models.Platform) ([]*models.Account, error) {
	return cs.accounts.List(platform)
}

// RemoveAccount leaves schedules in place; their next firing is skipped.
func (cs *ConsoleService) RemoveAccount(platform models.Platform, id string) error {
	return cs.accounts.Remove(platform, id)
}

func (cs *ConsoleService) RunPublishNow(ctx context.Context, platform models.Platform, id string) (*models.Activity, error) {
	return cs.publisher.Invoke(ctx, platform, id)
}

// GetHistory returns the last limit activities, oldest first. Zero means all.
func (cs *ConsoleService) GetHistory(platform models.Platform, id string, limit int) ([]*models.Activity, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", models.ErrInvalidInput)
	}
	account, err := cs.accounts.FindByID(platform, id)
	if err != nil {
		return nil, err
	}
	action, err := cs.factory.ForAccount(platform, account)
	if err != nil {
		return nil, err
	}
	history := action.History(account)
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

func (cs *ConsoleService) ScheduleRecurring(platform models.Platform, id string, choice string, times []string) (*models.ScheduleStatus, error) {
	kind, err := models.ParseRecurrenceKind(choice)
	if err != nil {
		return nil, err
	}
	if _, err := cs.accounts.FindByID(platform, id); err != nil {
		return nil, err
	}
	rec, err := cs.scheduler.Recurrence(kind, times)
	if err != nil {
		return nil, err
	}
	return cs.scheduler.Schedule(platform, id, rec)
}

func (cs *ConsoleService) CancelSchedule(id string) error {
	return cs.scheduler.Cancel(id)
}

func (cs *ConsoleService) ListSchedules() []*models.ScheduleStatus {
	return cs.scheduler.List()
}

func (cs *ConsoleService) AddProduct(fields models.ProductFields) (*models.Product, error) {
	return cs.products.Create(fields)
}

func (cs *ConsoleService) ListProducts() ([]*models.Product, error) {
	return cs.products.List()
}

// RemoveProduct is a no-op when the id is absent.
func (cs *ConsoleService) RemoveProduct(id string) error {
	return cs.products.Remove(id)
}

func (cs *ConsoleService) PitchProduct(ctx context.Context, id string) (*models.Activity, error) {
	return cs.publisher.Pitch(ctx, id)
}

func (cs *ConsoleService) AccountCounts() (map[models.Platform]int, error) {
	counts := make(map[models.Platform]int, len(models.AccountPlatforms))
	for _, p := range models.AccountPlatforms {
		n, err := cs.accounts.Count(p)
		if err != nil {
			return nil, err
		}
		counts[p] = n
	}
	return counts, nil
}
