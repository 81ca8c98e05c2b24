package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/schooldocs/internal/render"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	doc := render.Compose("<p>hello</p>", ".x { color: red; }")

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<meta charset="utf-8">`)
	assert.Contains(t, doc, "@page { size: A4; margin: 10mm; }")
	assert.Contains(t, doc, ".x { color: red; }")
	assert.Contains(t, doc, "<body>\n<p>hello</p>\n</body>")

	// Template CSS comes after the print defaults so it can override them.
	assert.Less(t, strings.Index(doc, "@page"), strings.Index(doc, ".x { color: red; }"))
}

func TestCompose_EmptyCSSOmitsStyleBlock(t *testing.T) {
	t.Parallel()

	doc := render.Compose("<p>x</p>", "  ")
	assert.Equal(t, 1, strings.Count(doc, "<style>"))
}

func TestCompose_StyleCloseInCSSEscaped(t *testing.T) {
	t.Parallel()

	for _, css := range []string{
		"a{} </style><script>alert(1)</script>",
		"a{} </STYLE><script>alert(1)</script>",
		"a{} </StYlE ><script>alert(1)</script>",
	} {
		doc := strings.ToLower(render.Compose("<p>x</p>", css))
		assert.NotContains(t, doc, "</style><script>", css)
		assert.NotContains(t, doc, "</style ><script>", css)
		assert.Equal(t, 2, strings.Count(doc, "</style"), css)
	}
}
