package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/typeset/internal/ui/pretty"
	"github.com/yaklabco/typeset/pkg/syntax"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &syntax.Diagnostic{
		Path:    "/abs/doc.tps",
		Span:    syntax.NewRange(4, 5),
		Line:    2,
		Column:  3,
		Message: "unclosed delimiter",
	}

	t.Run("basic line", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatDiagnostic(diag, "doc.tps", false, "")
		assert.Contains(t, out, "doc.tps:2:3")
		assert.Contains(t, out, "error")
		assert.Contains(t, out, "unclosed delimiter")
		assert.NotContains(t, out, "/abs/")
	})

	t.Run("falls back to diagnostic path", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatDiagnostic(diag, "", false, "")
		assert.Contains(t, out, "/abs/doc.tps:2:3")
	})

	t.Run("with source context", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatDiagnostic(diag, "doc.tps", true, "a *b")
		assert.Contains(t, out, "a *b")
		assert.Contains(t, out, "^")
	})
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatSourceContext("hello", 3)

	lines := []string{"        hello\n", "          ^\n"}
	assert.Equal(t, lines[0]+lines[1], out)
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "doc.tps (3 issues)", styles.FormatFileHeader("doc.tps", 3))
	assert.Equal(t, "doc.tps", styles.FormatFileHeader("doc.tps", 0))
}
