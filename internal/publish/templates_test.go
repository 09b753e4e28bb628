package publish

import (
	"moneyprint/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplates_RejectsBrokenTemplate(t *testing.T) {
	conf := testutil.TestConfig(t.TempDir())
	conf.Content.PitchTemplate = "{{.Link"

	_, err := NewTemplates(conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pitchTemplate")
}

func TestRender_UnknownFieldFails(t *testing.T) {
	conf := testutil.TestConfig(t.TempDir())
	conf.Content.PostTemplate = "{{.Nope}}"
	templates, err := NewTemplates(conf)
	require.NoError(t, err)

	_, err = render(templates.post, contentData{Topic: "x"})
	assert.Error(t, err)
}
