package mailer

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/spec-kit/phishsim/internal/domain"
)

// templateData is the rendering context for every email variant.
type templateData struct {
	Name     string
	ClickURL string
}

type emailTemplate struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// RenderedEmail is a fully rendered subject plus text/HTML body pair.
type RenderedEmail struct {
	Subject  string
	TextBody string
	HTMLBody string
}

var registry = map[domain.Template]emailTemplate{
	domain.TemplateOffice: newEmailTemplate(
		"Action required: document shared with you",
		"Hi {{.Name}},\n\nA document has been shared with you. Review it here:\n{{.ClickURL}}\n\nRegards,\nDocument Services",
		`<p>Hi {{.Name}},</p><p>A document has been shared with you. <a href="{{.ClickURL}}">Review it now</a>.</p><p>Regards,<br>Document Services</p>`,
	),
	domain.TemplateCourier: newEmailTemplate(
		"Delivery attempt failed",
		"Hi {{.Name}},\n\nWe could not deliver your parcel. Reschedule your delivery:\n{{.ClickURL}}\n\nCustomer Care",
		`<p>Hi {{.Name}},</p><p>We could not deliver your parcel. <a href="{{.ClickURL}}">Reschedule your delivery</a>.</p><p>Customer Care</p>`,
	),
	domain.TemplateBank: newEmailTemplate(
		"Unusual sign-in activity on your account",
		"Dear {{.Name}},\n\nWe noticed unusual sign-in activity. Verify your account immediately:\n{{.ClickURL}}\n\nSecurity Team",
		`<p>Dear {{.Name}},</p><p>We noticed unusual sign-in activity. <a href="{{.ClickURL}}">Verify your account</a> immediately.</p><p>Security Team</p>`,
	),
	domain.TemplatePayroll: newEmailTemplate(
		"Your payslip is ready",
		"Hi {{.Name}},\n\nYour latest payslip is available. Sign in to view it:\n{{.ClickURL}}\n\nPayroll",
		`<p>Hi {{.Name}},</p><p>Your latest payslip is available. <a href="{{.ClickURL}}">Sign in to view it</a>.</p><p>Payroll</p>`,
	),
	domain.TemplateITSupport: newEmailTemplate(
		"Mailbox storage limit reached",
		"Hi {{.Name}},\n\nYour mailbox is almost full. Upgrade your quota to keep receiving mail:\n{{.ClickURL}}\n\nIT Support",
		`<p>Hi {{.Name}},</p><p>Your mailbox is almost full. <a href="{{.ClickURL}}">Upgrade your quota</a> to keep receiving mail.</p><p>IT Support</p>`,
	),
}

func newEmailTemplate(subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New("text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New("html").Parse(html)),
	}
}

// Render produces the subject and body pair for a template variant.
// Unknown identifiers fail with domain.UnknownTemplateError.
func Render(tmpl domain.Template, name, clickURL string) (*RenderedEmail, error) {
	entry, ok := registry[tmpl]
	if !ok {
		return nil, &domain.UnknownTemplateError{Name: string(tmpl)}
	}

	data := templateData{Name: name, ClickURL: clickURL}

	var text bytes.Buffer
	if err := entry.text.Execute(&text, data); err != nil {
		return nil, err
	}
	var html bytes.Buffer
	if err := entry.html.Execute(&html, data); err != nil {
		return nil, err
	}

	return &RenderedEmail{
		Subject:  entry.subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}
