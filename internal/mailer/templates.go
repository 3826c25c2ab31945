package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

var subjects = map[TemplateKind]string{
	TemplateReviewRequest:      "{{.AthleteName}} has requested a coach review",
	TemplateReviewCancellation: "Review request from {{.AthleteName}} was withdrawn",
}

var bodies = map[TemplateKind]string{
	TemplateReviewRequest: `Hi {{.ReviewerName}},

{{.AthleteName}} has asked you to write a verified review of their athletic profile.

Their message to you:

{{.RequestMessage}}

You can submit your review using the link below. The link is valid until {{.ExpiresAt}} and can be used once.

{{.VerifyURL}}

If you don't know {{.AthleteName}}, you can safely ignore this email.
`,
	TemplateReviewCancellation: `Hi {{.ReviewerName}},

{{.AthleteName}} has withdrawn their review request. The link you received earlier no longer works, and no action is needed on your part.
`,
}

// renderTemplate builds the subject and body for a template kind.
func renderTemplate(kind TemplateKind, data TemplateData) (string, string, error) {
	subjectTmpl, ok := subjects[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown email template: %s", kind)
	}

	subject, err := render("subject", subjectTmpl, data)
	if err != nil {
		return "", "", err
	}
	body, err := render("body", bodies[kind], data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func render(name, text string, data TemplateData) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}
