package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"eventhub/internal/models"
)

// Generator renders reports; handlers depend on this so tests can mock it.
type Generator interface {
	PendingTasksReport(w io.Writer, res *models.PendingTasksResult, locale string) error
}

// PendingReportGenerator renders the pending-tasks view as an A4 report.
// Without a TTF font only the built-in Helvetica is available, which has no
// Arabic glyphs, so the report falls back to English.
type PendingReportGenerator struct {
	FontPath string
	Title    string
	now      func() time.Time
}

func NewPendingReportGenerator(fontPath string) *PendingReportGenerator {
	return &PendingReportGenerator{FontPath: fontPath, Title: "Pending tasks", now: time.Now}
}

type writer struct {
	pdf      *gofpdf.Fpdf
	fontName string
	tr       func(string) string
}

var columns = []struct {
	title string
	width float64
}{
	{"Date", 28},
	{"Task", 92},
	{"Status", 28},
	{"Priority", 22},
}

func (g *PendingReportGenerator) PendingTasksReport(w io.Writer, res *models.PendingTasksResult, locale string) error {
	if res == nil {
		return fmt.Errorf("pdf: nil result")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(g.Title, true)
	pdf.SetAuthor("eventhub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pw := g.setupFont(pdf)
	if pw.fontName == "Helvetica" {
		locale = "en"
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pw.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pw.fontName, "B", 16)
	pdf.CellFormat(0, 10, pw.tr(g.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(pw.fontName, "", 10)
	period := res.RangeStart.String()
	if !res.RangeEnd.Equal(res.RangeStart) {
		period += " - " + res.RangeEnd.String()
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)  generated %s", period, res.Range, g.now().Format("2006-01-02 15:04")),
		"", 1, "C", false, 0, "")
	pw.hr()

	if len(res.Departments) == 0 {
		pdf.Ln(4)
		pdf.SetFont(pw.fontName, "", 11)
		pdf.CellFormat(0, 8, "No pending tasks.", "", 1, "L", false, 0, "")
	}

	for _, dg := range res.Departments {
		pw.sectionTitle(dg.Department.NameText().Resolve(locale))
		for _, eg := range dg.Events {
			heading := "Not linked to an event"
			if eg.Event != nil {
				heading = fmt.Sprintf("%s (%s - %s)", eg.Event.NameText().Resolve(locale), eg.Event.StartDate, eg.Event.EndDate)
			}
			pdf.SetFont(pw.fontName, "B", 10)
			pdf.CellFormat(0, 6, pw.tr(heading), "", 1, "L", false, 0, "")
			pw.tableHeader()
			for _, t := range eg.Tasks {
				pw.taskRow(t, locale)
			}
			pdf.Ln(2)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (g *PendingReportGenerator) setupFont(pdf *gofpdf.Fpdf) *writer {
	if g.FontPath != "" {
		pdf.AddUTF8Font("DejaVu", "", g.FontPath)
		pdf.AddUTF8Font("DejaVu", "B", g.FontPath)
		if pdf.Ok() {
			return &writer{pdf: pdf, fontName: "DejaVu", tr: func(s string) string { return s }}
		}
		pdf.ClearError()
	}
	return &writer{pdf: pdf, fontName: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *writer) sectionTitle(s string) {
	w.pdf.Ln(2)
	w.pdf.SetFont(w.fontName, "B", 13)
	w.pdf.CellFormat(0, 8, w.tr(s), "", 1, "L", false, 0, "")
}

func (w *writer) tableHeader() {
	w.pdf.SetFont(w.fontName, "B", 9)
	w.pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		w.pdf.CellFormat(c.width, 6, c.title, "1", 0, "L", true, 0, "")
	}
	w.pdf.Ln(-1)
}

func (w *writer) taskRow(t models.PendingTask, locale string) {
	w.pdf.SetFont(w.fontName, "", 9)
	title := w.fit(w.tr(t.TitleText().Resolve(locale)), columns[1].width-2)
	cells := []string{t.EffectiveDate.String(), title, string(t.Status), string(t.Priority)}
	for i, c := range columns {
		w.pdf.CellFormat(c.width, 6, cells[i], "1", 0, "L", false, 0, "")
	}
	w.pdf.Ln(-1)
}

// fit shortens s with an ellipsis so it stays on one row.
func (w *writer) fit(s string, width float64) string {
	if w.pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 1 && w.pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (w *writer) hr() {
	y := w.pdf.GetY() + 1.5
	w.pdf.SetLineWidth(0.2)
	w.pdf.Line(20, y, 190, y)
	w.pdf.SetY(y + 2)
}
