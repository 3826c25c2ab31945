package mailer

import (
	"context"
)

// TemplateKind selects which transactional email to build.
type TemplateKind string

const (
	TemplateReviewRequest      TemplateKind = "review_request"
	TemplateReviewCancellation TemplateKind = "review_cancellation"
)

// Mailer delivers transactional email. Callers treat delivery as
// best-effort: a failed send never fails the primary operation.
type Mailer interface {
	Send(ctx context.Context, to string, kind TemplateKind, data TemplateData) error
}

// TemplateData carries the fields interpolated into email templates.
type TemplateData struct {
	ReviewerName   string
	AthleteName    string
	RequestMessage string
	VerifyURL      string
	ExpiresAt      string
}
