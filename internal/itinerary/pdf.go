package itinerary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"GO2GETHER_PLANNER/internal/models"
)

// PDFOptions carries the page header and the share link encoded in the QR.
type PDFOptions struct {
	Title    string
	Subtitle string
	ShareURL string
}

const (
	qrSize     = 28.0
	lineHeight = 6.0
)

// WritePDF renders doc as an A4 PDF. Address runs become clickable links.
func WritePDF(w io.Writer, doc models.Document, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if opts.ShareURL != "" {
		png, err := qrcode.Encode(opts.ShareURL, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("itinerary pdf: qr code: %w", err)
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("share-qr", imageOpts, bytes.NewReader(png))
		pdf.ImageOptions("share-qr", 210-15-qrSize, 10, qrSize, qrSize, false, imageOpts, 0, opts.ShareURL)
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(150, 9, tr(opts.Title), "", "L", false)
	if opts.Subtitle != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(150, lineHeight, tr(opts.Subtitle), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)

	for _, r := range doc.Runs {
		switch r.Style {
		case models.StyleHeading:
			pdf.Ln(3)
			pdf.SetFont("Arial", "B", 14)
			pdf.MultiCell(0, 8, tr(r.Text), "", "L", false)
		case models.StyleBullet:
			pdf.SetFont("Arial", "", 11)
			pdf.SetX(20)
			pdf.MultiCell(0, lineHeight, tr("• "+r.Text), "", "L", false)
		case models.StyleAddress:
			pdf.SetFont("Arial", "U", 10)
			pdf.SetTextColor(30, 90, 200)
			pdf.SetX(25)
			pdf.WriteLinkString(lineHeight, tr(r.Text), r.Link)
			pdf.Ln(lineHeight)
			pdf.SetTextColor(0, 0, 0)
		default:
			pdf.SetFont("Arial", "I", 11)
			pdf.MultiCell(0, lineHeight, tr(r.Text), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("itinerary pdf: %w", err)
	}
	return nil
}
