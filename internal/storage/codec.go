package storage

import (
	"bytes"
	"fmt"
	"moneyprint/internal/models"

	json "github.com/goccy/go-json"
)

const indent = "    "

type twitterAccount struct {
	ID             string             `json:"id"`
	Nickname       string             `json:"nickname"`
	FirefoxProfile string             `json:"firefox_profile"`
	Topic          string             `json:"topic"`
	Language       *string            `json:"language,omitempty"`
	Posts          []*models.Activity `json:"posts"`
}

type youtubeAccount struct {
	ID             string             `json:"id"`
	Nickname       string             `json:"nickname"`
	FirefoxProfile string             `json:"firefox_profile"`
	Niche          string             `json:"niche"`
	Language       *string            `json:"language,omitempty"`
	Videos         []*models.Activity `json:"videos"`
}

// topLevelKey is the single key every document of the collection must carry.
func topLevelKey(key models.Collection) (string, error) {
	switch {
	case key.HoldsAccounts():
		return "accounts", nil
	case key == models.CollectionAffiliate:
		return "products", nil
	case key == models.CollectionSchedules:
		return "schedules", nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownPlatform, key)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func encodeDocument(key models.Collection, doc *models.Document) ([]byte, error) {
	field, err := topLevelKey(key)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.NewDocument(key)
	}

	var body any
	switch key {
	case models.CollectionTwitter:
		accounts := make([]twitterAccount, 0, len(doc.Accounts))
		for _, a := range doc.Accounts {
			accounts = append(accounts, twitterAccount{
				ID:             a.ID,
				Nickname:       a.Nickname,
				FirefoxProfile: a.ProfileRef,
				Topic:          a.TopicOrNiche,
				Language:       a.Language,
				Posts:          nonNil(a.Activities),
			})
		}
		body = accounts
	case models.CollectionYouTube:
		accounts := make([]youtubeAccount, 0, len(doc.Accounts))
		for _, a := range doc.Accounts {
			accounts = append(accounts, youtubeAccount{
				ID:             a.ID,
				Nickname:       a.Nickname,
				FirefoxProfile: a.ProfileRef,
				Niche:          a.TopicOrNiche,
				Language:       a.Language,
				Videos:         nonNil(a.Activities),
			})
		}
		body = accounts
	case models.CollectionAffiliate:
		body = nonNil(doc.Products)
	case models.CollectionSchedules:
		body = nonNil(doc.Schedules)
	}

	return json.MarshalIndent(map[string]any{field: body}, "", indent)
}

func corrupt(key models.Collection, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", models.ErrCorruptState, key, fmt.Sprintf(format, args...))
}

func checkActivities(key models.Collection, id string, acts []*models.Activity) error {
	for _, act := range acts {
		if act == nil || act.ID == "" {
			return corrupt(key, "account %s has an invalid activity", id)
		}
	}
	return nil
}

func decodeDocument(key models.Collection, data []byte) (*models.Document, error) {
	field, err := topLevelKey(key)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, corrupt(key, "%s", err)
	}
	raw, ok := top[field]
	if !ok {
		return nil, corrupt(key, "missing %q", field)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, corrupt(key, "%q is null", field)
	}

	doc := models.NewDocument(key)
	seen := make(map[string]struct{})
	checkID := func(id string) error {
		if id == "" {
			return corrupt(key, "entry without id")
		}
		if _, dup := seen[id]; dup {
			return corrupt(key, "duplicate id %s", id)
		}
		seen[id] = struct{}{}
		return nil
	}

	switch key {
	case models.CollectionTwitter:
		var accounts []twitterAccount
		if err := json.Unmarshal(raw, &accounts); err != nil {
			return nil, corrupt(key, "%s", err)
		}
		for _, a := range accounts {
			if err := checkID(a.ID); err != nil {
				return nil, err
			}
			if err := checkActivities(key, a.ID, a.Posts); err != nil {
				return nil, err
			}
			doc.Accounts = append(doc.Accounts, &models.Account{
				ID:           a.ID,
				Nickname:     a.Nickname,
				ProfileRef:   a.FirefoxProfile,
				TopicOrNiche: a.Topic,
				Language:     a.Language,
				Activities:   nonNil(a.Posts),
			})
		}
	case models.CollectionYouTube:
		var accounts []youtubeAccount
		if err := json.Unmarshal(raw, &accounts); err != nil {
			return nil, corrupt(key, "%s", err)
		}
		for _, a := range accounts {
			if err := checkID(a.ID); err != nil {
				return nil, err
			}
			if err := checkActivities(key, a.ID, a.Videos); err != nil {
				return nil, err
			}
			doc.Accounts = append(doc.Accounts, &models.Account{
				ID:           a.ID,
				Nickname:     a.Nickname,
				ProfileRef:   a.FirefoxProfile,
				TopicOrNiche: a.Niche,
				Language:     a.Language,
				Activities:   nonNil(a.Videos),
			})
		}
	case models.CollectionAffiliate:
		if err := json.Unmarshal(raw, &doc.Products); err != nil {
			return nil, corrupt(key, "%s", err)
		}
		for _, p := range doc.Products {
			if p == nil {
				return nil, corrupt(key, "null product")
			}
			if err := checkID(p.ID); err != nil {
				return nil, err
			}
		}
		doc.Products = nonNil(doc.Products)
	case models.CollectionSchedules:
		if err := json.Unmarshal(raw, &doc.Schedules); err != nil {
			return nil, corrupt(key, "%s", err)
		}
		for _, s := range doc.Schedules {
			if s == nil {
				return nil, corrupt(key, "null schedule")
			}
			if err := checkID(s.ID); err != nil {
				return nil, err
			}
		}
		doc.Schedules = nonNil(doc.Schedules)
	}
	return doc, nil
}
