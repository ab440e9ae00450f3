// Package export renders a collection as a PDF report and builds its share
// link.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// Labels are the translated strings printed on the report
type Labels struct {
	Subtitle      string
	TotalValue    string
	NumberOfCards string
	Name          string
	SetNumber     string
	SetName       string
	Condition     string
	Language      string
	Version       string
	Quantity      string
}

// Document is everything the report shows. Cards are printed in the given
// order.
type Document struct {
	Title       string
	LocalValue  string // already formatted with symbol
	USDValue    string
	CardCount   int
	Cards       []models.Card
	Labels      Labels
	GeneratedAt time.Time
}

// column widths in mm for a landscape A4 page
var columnWidths = []float64{70, 25, 60, 28, 28, 38, 20}

// WritePDF renders doc as a PDF to w
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	subtitle := doc.Labels.Subtitle
	if !doc.GeneratedAt.IsZero() {
		subtitle += " - " + doc.GeneratedAt.Format("2006-01-02 15:04")
	}
	pdf.CellFormat(0, 6, tr(subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 7, tr(doc.Labels.TotalValue), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(doc.LocalValue+"  ("+doc.USDValue+")"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 7, tr(doc.Labels.NumberOfCards), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, strconv.Itoa(doc.CardCount), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	headers := []string{
		doc.Labels.Name, doc.Labels.SetNumber, doc.Labels.SetName, doc.Labels.Condition,
		doc.Labels.Language, doc.Labels.Version, doc.Labels.Quantity,
	}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(columnWidths[i], 8, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, card := range doc.Cards {
		if pdf.GetY()+7 > pageHeight-bottom {
			pdf.AddPage()
			writeHeader()
		}
		row := []string{
			card.Name, card.SetNumber, card.SetName, string(card.Condition),
			string(card.Language), card.Version, strconv.Itoa(card.Quantity),
		}
		for i, cell := range row {
			align := "L"
			if i == len(row)-1 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[i], 7, tr(fit(pdf, cell, columnWidths[i]-2)), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// fit shortens s with an ellipsis until it fits width
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// FileName is the download name for a collection report
func FileName(title string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		slug = "my"
	}
	return slug + "_collection.pdf"
}

// ShareURL is the public link to a collection. Links are not registered
// anywhere and never expire.
func ShareURL(base string, collectionID uint) string {
	return strings.TrimRight(base, "/") + "/collection/" + strconv.FormatUint(uint64(collectionID), 10)
}
