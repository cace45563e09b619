package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHeadingAndTable(t *testing.T) {
	r := New()
	out, err := r.Render("# Hello World\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	require.Contains(t, out, `<h1 id="hello-world">Hello World</h1>`)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>1</td>")
}

func TestRenderKeepsRawHTML(t *testing.T) {
	out, err := New().Render("<div class=\"x\">raw</div>\n")
	require.NoError(t, err)
	require.Contains(t, out, `<div class="x">raw</div>`)
}

func TestRenderEmpty(t *testing.T) {
	out, err := New().Render("")
	require.NoError(t, err)
	require.Empty(t, out)
}
