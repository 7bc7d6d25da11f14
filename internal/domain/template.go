package domain

import "fmt"

// Template identifies a simulated-phishing email variant. The set is closed:
// each constant maps to a subject plus text/HTML body pair in the mailer.
type Template string

const (
	TemplateOffice    Template = "office"
	TemplateCourier   Template = "courier"
	TemplateBank      Template = "bank"
	TemplatePayroll   Template = "payroll"
	TemplateITSupport Template = "it-support"
)

// Templates returns every selectable template variant.
func Templates() []Template {
	return []Template{
		TemplateOffice,
		TemplateCourier,
		TemplateBank,
		TemplatePayroll,
		TemplateITSupport,
	}
}

// UnknownTemplateError reports a template identifier outside the closed set.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown phishing template %q", e.Name)
}

// ParseTemplate validates a raw template identifier.
func ParseTemplate(name string) (Template, error) {
	for _, t := range Templates() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &UnknownTemplateError{Name: name}
}
