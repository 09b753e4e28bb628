package registry

import (
	"fmt"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/storage/interfaces"

	"github.com/google/uuid"
	"github.com/gookit/validate"
)

type AccountRegistryInterface interface {
	List(platform models.Platform) ([]*models.Account, error)
	Create(platform models.Platform, fields models.AccountFields) (*models.Account, error)
	Remove(platform models.Platform, id string) error
	FindByID(platform models.Platform, id string) (*models.Account, error)
	AppendActivity(platform models.Platform, id string, activity *models.Activity) error
	Count(platform models.Platform) (int, error)
}

// AccountRegistry owns the accounts of the twitter and youtube collections.
// Every mutation is a whole-collection read-modify-write through store.Update.
type AccountRegistry struct {
	store   interfaces.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewAccountRegistry(store interfaces.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) AccountRegistryInterface {
	return &AccountRegistry{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

func validateFields(data interface{}) error {
	v := validate.Struct(data)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, v.Errors.One())
	}
	return nil
}

// List returns copies in insertion order.
func (r *AccountRegistry) List(platform models.Platform) ([]*models.Account, error) {
	if err := platform.ValidatePlatform(); err != nil {
		return nil, err
	}
	doc, err := r.store.Peek(platform)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Account, 0, len(doc.Accounts))
	for _, acc := range doc.Accounts {
		out = append(out, acc.Clone())
	}
	return out, nil
}

func (r *AccountRegistry) Create(platform models.Platform, fields models.AccountFields) (*models.Account, error) {
	if err := platform.ValidatePlatform(); err != nil {
		return nil, err
	}
	if err := validateFields(&fields); err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Nickname:     fields.Nickname,
		ProfileRef:   fields.ProfileRef,
		TopicOrNiche: fields.TopicOrNiche,
		Language:     fields.Language,
		Activities:   []*models.Activity{},
	}
	var total int
	err := r.store.Update(platform, func(doc *models.Document) error {
		doc.Accounts = append(doc.Accounts, account)
		total = len(doc.Accounts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.metrics.SetAccounts(platform.String(), total)
	r.logger.Infof(providers.TypeStore, "Created %s account %s (%s)", platform, account.ID, account.Nickname)
	return account.Clone(), nil
}

// Remove is a no-op when the id is absent. Activities go with the account.
func (r *AccountRegistry) Remove(platform models.Platform, id string) error {
	if err := platform.ValidatePlatform(); err != nil {
		return err
	}
	removed := false
	var total int
	err := r.store.Update(platform, func(doc *models.Document) error {
		if _, idx := doc.FindAccount(id); idx >= 0 {
			doc.Accounts = append(doc.Accounts[:idx], doc.Accounts[idx+1:]...)
			removed = true
		}
		total = len(doc.Accounts)
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		r.metrics.SetAccounts(platform.String(), total)
		r.logger.Infof(providers.TypeStore, "Removed %s account %s", platform, id)
	}
	return nil
}

func (r *AccountRegistry) FindByID(platform models.Platform, id string) (*models.Account, error) {
	if err := platform.ValidatePlatform(); err != nil {
		return nil, err
	}
	doc, err := r.store.Peek(platform)
	if err != nil {
		return nil, err
	}
	acc, _ := doc.FindAccount(id)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s/%s", models.ErrAccountNotFound, platform, id)
	}
	return acc.Clone(), nil
}

// AppendActivity never creates the account. A concurrent Remove that wins the
// lock turns this into AccountNotFound.
func (r *AccountRegistry) AppendActivity(platform models.Platform, id string, activity *models.Activity) error {
	if err := platform.ValidatePlatform(); err != nil {
		return err
	}
	if activity == nil || activity.ID == "" {
		return fmt.Errorf("%w: activity without id", models.ErrInvalidInput)
	}
	return r.store.Update(platform, func(doc *models.Document) error {
		acc, _ := doc.FindAccount(id)
		if acc == nil {
			return fmt.Errorf("%w: %s/%s", models.ErrAccountNotFound, platform, id)
		}
		cp := *activity
		acc.Activities = append(acc.Activities, &cp)
		return nil
	})
}

func (r *AccountRegistry) Count(platform models.Platform) (int, error) {
	if err := platform.ValidatePlatform(); err != nil {
		return 0, err
	}
	doc, err := r.store.Peek(platform)
	if err != nil {
		return 0, err
	}
	return len(doc.Accounts), nil
}
