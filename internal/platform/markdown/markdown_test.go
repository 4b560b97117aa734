package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillpoint/internal/platform/markdown"
)

func TestRenderParseRoundTrip(t *testing.T) {
	t.Parallel()
	note := markdown.Note{Meta: map[string]any{"day": 12, "year": 2024}, Body: "hello\n"}
	rendered, err := note.Render()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "---\n"))

	parsed, err := markdown.Parse(rendered)
	require.NoError(t, err)
	assert.Equal(t, 12, parsed.Meta["day"])
	assert.Equal(t, "hello\n", strings.TrimPrefix(parsed.Body, "\n"))
}

func TestParseWithoutHeader(t *testing.T) {
	t.Parallel()
	parsed, err := markdown.Parse("just text")
	require.NoError(t, err)
	assert.Empty(t, parsed.Meta)
	assert.Equal(t, "just text", parsed.Body)

	_, err = markdown.Parse("---\nday: 1\nno closing")
	assert.Error(t, err)
}

func TestBlockReplaceKeepsUserText(t *testing.T) {
	t.Parallel()
	b := markdown.Block{Start: "<!-- s -->", End: "<!-- e -->"}
	body := b.Replace("", "v1")
	assert.Equal(t, "<!-- s -->\nv1\n<!-- e -->\n", body)

	body = "my notes\n\n" + body + "after\n"
	body = b.Replace(body, "v2")
	assert.True(t, strings.HasPrefix(body, "my notes\n"))
	assert.True(t, strings.HasSuffix(body, "after\n"))
	got, ok := b.Extract(body)
	require.True(t, ok)
	assert.Equal(t, "v2", got)

	_, ok = b.Extract("nothing here")
	assert.False(t, ok)
}
