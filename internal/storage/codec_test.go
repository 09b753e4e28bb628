package storage

import (
	"moneyprint/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDocument_YouTubeUsesOriginalKeys(t *testing.T) {
	doc := &models.Document{Accounts: []*models.Account{{
		ID:           "y1",
		Nickname:     "chan",
		ProfileRef:   "/p",
		TopicOrNiche: "cooking",
		Activities:   []*models.Activity{{ID: "v1", Date: "2026-01-01T00:00:00Z", Payload: models.Payload{Title: "t", Description: "d"}}},
	}}}

	data, err := encodeDocument(models.CollectionYouTube, doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts": [{
		"id": "y1", "nickname": "chan", "firefox_profile": "/p", "niche": "cooking",
		"videos": [{"id": "v1", "date": "2026-01-01T00:00:00Z", "title": "t", "description": "d"}]
	}]}`, string(data))
	assert.Contains(t, string(data), "\n    ", "documents are indented for inspection")
}

func TestEncodeDocument_NilSlicesBecomeEmptyLists(t *testing.T) {
	data, err := encodeDocument(models.CollectionTwitter, &models.Document{Accounts: []*models.Account{{ID: "a1"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts": [{"id": "a1", "nickname": "", "firefox_profile": "", "topic": "", "posts": []}]}`, string(data))

	data, err = encodeDocument(models.CollectionAffiliate, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products": []}`, string(data))
}

func TestDecodeDocument_Products(t *testing.T) {
	doc, err := decodeDocument(models.CollectionAffiliate, []byte(`{"products": [
		{"id": "p1", "affiliate_link": "https://amzn.to/x", "twitter_uuid": "a1"}
	]}`))
	require.NoError(t, err)
	require.Len(t, doc.Products, 1)
	assert.Equal(t, "a1", doc.Products[0].LinkedAccountID)
}

func TestDecodeDocument_MissingActivityListIsEmpty(t *testing.T) {
	doc, err := decodeDocument(models.CollectionTwitter, []byte(`{"accounts": [{"id": "a1", "topic": "x"}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.NotNil(t, doc.Accounts[0].Activities)
	assert.Empty(t, doc.Accounts[0].Activities)
}

func TestDecodeDocument_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  models.Collection
		data string
	}{
		{"null product", models.CollectionAffiliate, `{"products": [null]}`},
		{"duplicate product", models.CollectionAffiliate, `{"products": [{"id": "p"}, {"id": "p"}]}`},
		{"null schedule", models.CollectionSchedules, `{"schedules": [null]}`},
		{"activity without id", models.CollectionTwitter, `{"accounts": [{"id": "a", "posts": [{"date": "x"}]}]}`},
		{"null activity", models.CollectionYouTube, `{"accounts": [{"id": "a", "videos": [null]}]}`},
		{"top level array", models.CollectionYouTube, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDocument(tt.key, []byte(tt.data))
			assert.ErrorIs(t, err, models.ErrCorruptState)
		})
	}
}

func TestCodec_ScheduleRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	doc := &models.Document{Schedules: []*models.ScheduleSpec{{
		ID:         "s1",
		Platform:   models.CollectionTwitter,
		AccountID:  "a1",
		Recurrence: models.TwiceDaily,
		Times:      []string{"10:00", "16:00"},
		CreatedAt:  created,
	}}}

	data, err := encodeDocument(models.CollectionSchedules, doc)
	require.NoError(t, err)
	decoded, err := decodeDocument(models.CollectionSchedules, data)
	require.NoError(t, err)
	assert.Equal(t, doc.Schedules, decoded.Schedules)
}
