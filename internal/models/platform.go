package models

import "fmt"

// Collection names one persisted document. It is the unit of load/save atomicity.
type Collection string

const (
	CollectionTwitter   Collection = "twitter"
	CollectionYouTube   Collection = "youtube"
	CollectionAffiliate Collection = "afm"
	CollectionSchedules Collection = "schedules"
)

// Platform is an account-holding collection.
type Platform = Collection

var (
	AccountPlatforms = []Platform{CollectionTwitter, CollectionYouTube}
	AllCollections   = []Collection{CollectionTwitter, CollectionYouTube, CollectionAffiliate, CollectionSchedules}
)

func (c Collection) String() string {
	return string(c)
}

// FileName is the document file name inside the storage dir.
func (c Collection) FileName() string {
	return string(c) + ".json"
}

func (c Collection) HoldsAccounts() bool {
	return c == CollectionTwitter || c == CollectionYouTube
}

// ValidatePlatform rejects collections that do not hold accounts.
func (c Collection) ValidatePlatform() error {
	if !c.HoldsAccounts() {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, string(c))
	}
	return nil
}

// ParsePlatform accepts only collections that hold accounts.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if err := p.ValidatePlatform(); err != nil {
		return "", err
	}
	return p, nil
}

func ParseCollection(s string) (Collection, error) {
	for _, c := range AllCollections {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}
