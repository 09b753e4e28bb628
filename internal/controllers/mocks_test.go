package controllers

import (
	"context"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockConsole struct {
	err error

	accounts     []*models.Account
	created      []models.AccountFields
	removed      []string
	history      []*models.Activity
	historyLimit int
	activity     *models.Activity
	schedules    []*models.ScheduleStatus
	scheduleReq  []string
	cancelled    []string
	products     []*models.Product
	removedProds []string
	counts       map[models.Platform]int
	countsErr    error
}

func (m *mockConsole) CreateAccount(_ models.Platform, fields models.AccountFields) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, fields)
	return &models.Account{ID: "new", Nickname: fields.Nickname, TopicOrNiche: fields.TopicOrNiche, Activities: []*models.Activity{}}, nil
}

func (m *mockConsole) ListAccounts(_ models.Platform) ([]*models.Account, error) {
	return m.accounts, m.err
}

func (m *mockConsole) RemoveAccount(_ models.Platform, id string) error {
	m.removed = append(m.removed, id)
	return m.err
}

func (m *mockConsole) RunPublishNow(_ context.Context, _ models.Platform, _ string) (*models.Activity, error) {
	return m.activity, m.err
}

func (m *mockConsole) GetHistory(_ models.Platform, _ string, limit int) ([]*models.Activity, error) {
	m.historyLimit = limit
	return m.history, m.err
}

func (m *mockConsole) ScheduleRecurring(platform models.Platform, id string, choice string, _ []string) (*models.ScheduleStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.scheduleReq = append(m.scheduleReq, platform.String()+"/"+id+"/"+choice)
	return &models.ScheduleStatus{ScheduleSpec: models.ScheduleSpec{ID: "s1", Platform: platform, AccountID: id}, Timers: 2, State: models.ScheduleScheduled}, nil
}

func (m *mockConsole) CancelSchedule(id string) error {
	m.cancelled = append(m.cancelled, id)
	return m.err
}

func (m *mockConsole) ListSchedules() []*models.ScheduleStatus {
	return m.schedules
}

func (m *mockConsole) AddProduct(fields models.ProductFields) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Product{ID: "p1", AffiliateLink: fields.AffiliateLink, LinkedAccountID: fields.LinkedAccountID}, nil
}

func (m *mockConsole) ListProducts() ([]*models.Product, error) {
	return m.products, m.err
}

func (m *mockConsole) RemoveProduct(id string) error {
	m.removedProds = append(m.removedProds, id)
	return m.err
}

func (m *mockConsole) PitchProduct(_ context.Context, _ string) (*models.Activity, error) {
	return m.activity, m.err
}

func (m *mockConsole) AccountCounts() (map[models.Platform]int, error) {
	return m.counts, m.countsErr
}
