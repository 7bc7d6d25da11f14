package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/service"
)

// TrackingHandler records staff interactions with simulated phishing emails.
// These routes are the landing path of the emailed links and carry no auth.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler constructs handler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// Click handles GET /t/:id/click and serves the training landing page.
func (h *TrackingHandler) Click(c *fiber.Ctx) error {
	if tpl := c.Query("tpl"); tpl != "" {
		if _, err := domain.ParseTemplate(tpl); err != nil {
			return err
		}
	}

	if _, err := h.trackingService.RecordClick(c.Context(), c.Params("id")); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(landingPage)
}

// Submit handles POST /t/:id/submit. Submitted credentials are discarded
// unread; only the fact of submission is recorded.
func (h *TrackingHandler) Submit(c *fiber.Ctx) error {
	if _, err := h.trackingService.RecordSubmission(c.Context(), c.Params("id")); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(debriefPage)
}

const landingPage = `<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in to continue</h1>
<form method="POST" action="submit">
<input name="username" placeholder="Username">
<input name="password" type="password" placeholder="Password">
<button type="submit">Sign in</button>
</form>
</body>
</html>`

const debriefPage = `<!DOCTYPE html>
<html>
<head><title>Security awareness</title></head>
<body>
<h1>This was a simulated phishing exercise</h1>
<p>The email you followed was sent by your organisation's security team.
No credentials were stored. Watch for unexpected senders, urgent language,
and unfamiliar links.</p>
</body>
</html>`
