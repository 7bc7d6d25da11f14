package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/phishsim/internal/domain"
)

func TestRender(t *testing.T) {
	t.Run("every template variant renders a full subject and body pair", func(t *testing.T) {
		for _, tmpl := range domain.Templates() {
			rendered, err := Render(tmpl, "Ada", "http://localhost:8080/t/abc/click?tpl="+string(tmpl))
			require.NoError(t, err, "template %s", tmpl)
			assert.NotEmpty(t, rendered.Subject)
			assert.Contains(t, rendered.TextBody, "Ada")
			assert.Contains(t, rendered.TextBody, "/t/abc/click")
			assert.Contains(t, rendered.HTMLBody, `href="http://localhost:8080/t/abc/click`)
		}
	})

	t.Run("unknown identifier fails with a typed error", func(t *testing.T) {
		_, err := Render(domain.Template("lottery"), "Ada", "http://x")
		var unknown *domain.UnknownTemplateError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "lottery", unknown.Name)
	})
}
