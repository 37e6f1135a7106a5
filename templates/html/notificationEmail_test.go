package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderNotificationEmailEscapes(t *testing.T) {
	out := RenderNotificationEmail("FIR <Filed>", "line one\nline <two>", "https://example.test/firs/1?a=b&c=d")

	assert.Contains(t, out, "FIR &lt;Filed&gt;")
	assert.Contains(t, out, "line one<br>line &lt;two&gt;")
	assert.Contains(t, out, `href="https://example.test/firs/1?a=b&amp;c=d"`)
	assert.False(t, strings.Contains(out, "<two>"))
}

func TestRenderNotificationEmailWithoutLink(t *testing.T) {
	out := RenderNotificationEmail("Hearing Scheduled", "Tomorrow at 10", "")

	assert.NotContains(t, out, "View details")
}
