package models

// Payload is the platform specific content of an activity.
// Posts fill Content, videos fill Title/Description/Language.
type Payload struct {
	Content     string `json:"content,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	ExternalRef string `json:"external_ref,omitempty"`
}

// Activity is an append-only record of a successful publish.
type Activity struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Payload
}

type Account struct {
	ID           string      `json:"id"`
	Nickname     string      `json:"nickname"`
	ProfileRef   string      `json:"profile_ref"`
	TopicOrNiche string      `json:"topic"`
	Language     *string     `json:"language,omitempty"`
	Activities   []*Activity `json:"activities"`
}

// AccountFields is what a caller supplies on creation; id and activities are owned by the registry.
type AccountFields struct {
	Nickname     string  `json:"nickname" validate:"required"`
	ProfileRef   string  `json:"profile_ref"`
	TopicOrNiche string  `json:"topic" validate:"required"`
	Language     *string `json:"language,omitempty"`
}

func (a *Account) LanguageOrEmpty() string {
	if a.Language == nil {
		return ""
	}
	return *a.Language
}

// Clone returns a deep copy so callers can not mutate a cached document.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Language != nil {
		lang := *a.Language
		c.Language = &lang
	}
	c.Activities = make([]*Activity, len(a.Activities))
	for i, act := range a.Activities {
		cp := *act
		c.Activities[i] = &cp
	}
	return &c
}
