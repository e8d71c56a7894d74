package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/domain"
)

// stubClient satisfies Client for directory tests.
type stubClient struct{}

func (stubClient) GenerateText(_ context.Context, _ TextRequest) (TextResult, error) {
	return TextResult{}, nil
}

func (stubClient) GenerateImage(_ context.Context, _ ImageRequest) (ImageResult, error) {
	return ImageResult{}, nil
}

func TestNewDirectory(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty client set", func(t *testing.T) {
		t.Parallel()

		_, err := NewDirectory(nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil client", func(t *testing.T) {
		t.Parallel()

		_, err := NewDirectory(map[domain.ProviderRef]Client{
			domain.ProviderGemini: nil,
		})
		assert.Error(t, err)
	})

	t.Run("resolves registered refs", func(t *testing.T) {
		t.Parallel()

		d, err := NewDirectory(map[domain.ProviderRef]Client{
			domain.ProviderGemini:     stubClient{},
			domain.ProviderOpenRouter: stubClient{},
		})
		require.NoError(t, err)

		client, err := d.Client(domain.ProviderGemini)
		require.NoError(t, err)
		assert.NotNil(t, client)

		_, err = d.Client("anthropic")
		assert.ErrorIs(t, err, ErrUnknownProvider)

		assert.Equal(t, []domain.ProviderRef{domain.ProviderGemini, domain.ProviderOpenRouter}, d.Refs())
	})
}

func TestParseContent(t *testing.T) {
	t.Parallel()

	t.Run("plain JSON", func(t *testing.T) {
		t.Parallel()

		content, err := ParseContent(`{
			"headline": "Brunch Is Back",
			"subheadline": "Every weekend from nine",
			"caption": "Join us for the return of weekend brunch.",
			"image_text": "Brunch Is Back",
			"hashtags": ["brunch", "portlandeats"]
		}`)
		require.NoError(t, err)

		assert.Equal(t, "Brunch Is Back", content.Headline)
		assert.Equal(t, "Every weekend from nine", content.Subheadline)
		assert.Equal(t, []string{"brunch", "portlandeats"}, content.Hashtags)
	})

	t.Run("fenced JSON", func(t *testing.T) {
		t.Parallel()

		content, err := ParseContent("```json\n{\"headline\": \"Brunch Is Back\", \"caption\": \"Join us.\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Brunch Is Back", content.Headline)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		t.Parallel()

		content, err := ParseContent("```\n{\"headline\": \"Brunch Is Back\", \"caption\": \"Join us.\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Brunch Is Back", content.Headline)
	})

	t.Run("rejects non-JSON prose", func(t *testing.T) {
		t.Parallel()

		_, err := ParseContent("Sure! Here is your content: a headline and a caption.")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("rejects empty response", func(t *testing.T) {
		t.Parallel()

		_, err := ParseContent("   ")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("rejects bundle with no usable content", func(t *testing.T) {
		t.Parallel()

		_, err := ParseContent(`{"hashtags": ["empty"]}`)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("error carries parse detail without wrapping it", func(t *testing.T) {
		t.Parallel()

		_, err := ParseContent(`{"headline": `)
		require.Error(t, err)

		var syntaxErr *json.SyntaxError
		assert.False(t, errors.As(err, &syntaxErr), "json internals should not leak through the taxonomy")
	})
}
