package cards

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/verification"
)

// Generator renders one-page recruit cards: the printable profile summary
// athletes hand to recruiters at showcases.
type Generator struct {
	accentR, accentG, accentB int
}

// NewGenerator creates a card generator with the portal accent color.
func NewGenerator() *Generator {
	return &Generator{accentR: 22, accentG: 101, accentB: 216}
}

// RenderCard produces the PDF for an athlete profile and its verified
// reviews. Reviews beyond the first three are summarized as a count.
func (g *Generator) RenderCard(profile *accounts.PublicProfile, reviews []verification.VerifiedReview) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Banner
	pdf.SetFillColor(g.accentR, g.accentG, g.accentB)
	pdf.Rect(0, 0, 210, 34, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(18, 10)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s %s", profile.FirstName, profile.LastName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(18)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s  |  %s  |  Class of %d", strings.Title(profile.Sport), profile.Position, profile.GraduationYear), "", 1, "L", false, 0, "")

	pdf.SetTextColor(33, 33, 33)
	pdf.SetY(44)

	g.sectionHeader(pdf, "Profile")
	pdf.SetFont("Helvetica", "", 11)
	g.field(pdf, "School", profile.School)
	if profile.HeightCm != nil {
		g.field(pdf, "Height", fmt.Sprintf("%d cm", *profile.HeightCm))
	}
	if profile.WeightKg != nil {
		g.field(pdf, "Weight", fmt.Sprintf("%d kg", *profile.WeightKg))
	}
	if profile.Bio != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, profile.Bio, "", "L", false)
	}

	pdf.Ln(4)
	g.sectionHeader(pdf, "Verified Reviews")
	if len(reviews) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "No verified reviews yet.", "", 1, "L", false, 0, "")
	} else {
		shown := reviews
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for _, review := range shown {
			g.reviewBlock(pdf, &review)
		}
		if extra := len(reviews) - len(shown); extra > 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, fmt.Sprintf("+ %d more verified reviews on the profile", extra), "", 1, "L", false, 0, "")
		}
	}

	pdf.SetY(-28)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s - recruitpath.io", time.Now().Format("Jan 2, 2006")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render recruit card: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(g.accentR, g.accentG, g.accentB)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(33, 33, 33)
}

func (g *Generator) field(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *Generator) reviewBlock(pdf *gofpdf.Fpdf, review *verification.VerifiedReview) {
	pdf.SetFont("Helvetica", "B", 10)
	byline := review.ReviewerName
	if review.ReviewerTitle != nil {
		byline += ", " + *review.ReviewerTitle
	}
	if review.ReviewerOrganization != nil {
		byline += " (" + *review.ReviewerOrganization + ")"
	}
	pdf.CellFormat(0, 6, byline, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Rating: %d/5  -  verified %s", review.Rating, review.VerifiedAt.Format("Jan 2006")), "", 1, "L", false, 0, "")

	text := review.ReviewText
	if len(text) > 280 {
		text = text[:277] + "..."
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 4.5, text, "", "L", false)
	pdf.Ln(2)
}
