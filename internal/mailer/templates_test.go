package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderReviewRequest(t *testing.T) {
	data := TemplateData{
		ReviewerName:   "Coach Taylor",
		AthleteName:    "Jordan Hayes",
		RequestMessage: "Please verify my season.",
		VerifyURL:      "https://app.recruitpath.io/verify-review/abc123",
		ExpiresAt:      "June 8, 2025",
	}

	subject, body, err := renderTemplate(TemplateReviewRequest, data)

	assert.NoError(t, err)
	assert.Equal(t, "Jordan Hayes has requested a coach review", subject)
	assert.Contains(t, body, "Hi Coach Taylor")
	assert.Contains(t, body, "Please verify my season.")
	assert.Contains(t, body, data.VerifyURL)
	assert.Contains(t, body, "valid until June 8, 2025")
}

func TestRenderReviewCancellation(t *testing.T) {
	data := TemplateData{
		ReviewerName: "Coach Taylor",
		AthleteName:  "Jordan Hayes",
	}

	subject, body, err := renderTemplate(TemplateReviewCancellation, data)

	assert.NoError(t, err)
	assert.Equal(t, "Review request from Jordan Hayes was withdrawn", subject)
	assert.Contains(t, body, "has withdrawn their review request")
	assert.NotContains(t, body, "{{")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := renderTemplate(TemplateKind("welcome"), TemplateData{})
	assert.Error(t, err)
}
