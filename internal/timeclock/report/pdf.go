package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
	"github.com/aussiebroadwan/timeclock/pkg/timecalc"
	"github.com/go-pdf/fpdf"
)

// Report is everything needed to render one PDF.
type Report struct {
	Name        string
	Kind        Kind
	Month       string
	GeneratedAt time.Time
	Location    *time.Location
	Records     []domain.TimeRecord // already filtered
}

// TotalMinutes sums the durations of the report records.
func (r Report) TotalMinutes() int {
	return timecalc.TotalMinutes(domain.Spans(r.Records))
}

var (
	columns      = []string{"Date", "Start Time", "End Time", "Duration"}
	columnWidths = []float64{50, 40, 40, 52}
)

const (
	marginLeft = 14.0
	rowHeight  = 8.0
)

// Render draws the report as a single-table PDF: a title, three summary
// lines and a grid of Date / Start Time / End Time / Duration with a dark
// header row and shaded alternate rows.
func Render(r Report) ([]byte, error) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	title := Title(r.Kind, r.Month, r.Name)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("timeclock", true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetMargins(marginLeft, 15, marginLeft)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, 20, tr(title))

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(marginLeft, 30, "Generated on: "+r.GeneratedAt.In(loc).Format("2006-01-02 15:04:05"))
	pdf.Text(marginLeft, 37, fmt.Sprintf("Total Records: %d", len(r.Records)))
	pdf.Text(marginLeft, 44, "Total Hours Worked: "+timecalc.FormatDuration(r.TotalMinutes()))

	pdf.SetXY(marginLeft, 55)
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(66, 66, 66)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(200, 200, 200)
		for i, c := range columns {
			pdf.CellFormat(columnWidths[i], rowHeight, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(50, 50, 50)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, rec := range r.Records {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}

		in := rec.CheckIn.In(loc)
		out := rec.CheckOut.In(loc)
		row := []string{
			in.Format("2006-01-02"),
			in.Format("15:04"),
			out.Format("15:04"),
			timecalc.FormatDuration(rec.DurationMinutes()),
		}

		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for j, cell := range row {
			pdf.CellFormat(columnWidths[j], rowHeight, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
