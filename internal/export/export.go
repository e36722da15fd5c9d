// Package export writes the filtered task list to CSV and PDF files and
// reads exported CSV files back.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskdash/internal/service"
)

// DefaultFileName is the CSV file written when no name is given.
const DefaultFileName = "todo-list.csv"

// DefaultTimeLayout renders timestamps the way the dashboard's locale does.
const DefaultTimeLayout = "15:04:05 2/1/2006"

const bom = "\ufeff"

// Header is the fixed CSV column order.
var Header = []string{"id", "todo", "username", "completed", "priority", "order", "createdAt", "updatedAt"}

// ErrNothingToExport is returned for an empty task list. Nothing is written.
var ErrNothingToExport = service.NewError(service.CodeInvalid, "no tasks to export")

// Format is an export file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", service.Errorf(service.CodeInvalid, "unknown export format %q", s)
}

// FileName returns the default file name for f.
func FileName(f Format) string {
	if f == FormatPDF {
		return strings.TrimSuffix(DefaultFileName, ".csv") + ".pdf"
	}
	return DefaultFileName
}

// Options controls timestamp rendering.
type Options struct {
	TimeLayout string         // defaults to DefaultTimeLayout
	Location   *time.Location // defaults to time.Local
}

func (o Options) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout := o.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}

// Row is one exported task, every column already rendered as text.
type Row struct {
	ID        string
	Text      string
	Username  string
	Status    string
	Priority  string
	Order     string
	CreatedAt string
	UpdatedAt string
}

func (r Row) fields() []string {
	return []string{r.ID, r.Text, r.Username, r.Status, r.Priority, r.Order, r.CreatedAt, r.UpdatedAt}
}

// Rows renders tasks in the given order. A task whose owner is unknown gets
// an empty username.
func Rows(tasks []service.Task, users []service.User, opts Options) []Row {
	names := make(map[service.ID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		r := Row{
			ID:        t.ID.String(),
			Text:      t.Text,
			Username:  names[t.UserID],
			Status:    t.Status.String(),
			Priority:  "Normal",
			CreatedAt: opts.formatTime(t.CreatedAt),
			UpdatedAt: opts.formatTime(t.UpdatedAt),
		}
		if t.Priority {
			r.Priority = "Priority"
		}
		if t.Order != nil {
			r.Order = strconv.Itoa(*t.Order)
		}
		rows[i] = r
	}
	return rows
}

// CSV writes tasks as a BOM-prefixed CSV document with CRLF row separators
// and no trailing separator.
func CSV(w io.Writer, tasks []service.Task, users []service.User, opts Options) error {
	if len(tasks) == 0 {
		return ErrNothingToExport
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(bom)
	bw.WriteString(strings.Join(Header, ","))
	for _, r := range Rows(tasks, users, opts) {
		bw.WriteString("\r\n")
		for i, f := range r.fields() {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(f))
		}
	}
	return bw.Flush()
}

// quote wraps s in double quotes, doubling embedded quotes, when it
// contains a comma, a quote, a carriage return or a newline.
func quote(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// PDF writes tasks as a one-table A4 report.
func PDF(w io.Writer, tasks []service.Task, users []service.User, opts Options) error {
	if len(tasks) == 0 {
		return ErrNothingToExport
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)

	widths := []float64{16, 95, 30, 24, 20, 14, 39, 39}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range Header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range Rows(tasks, users, opts) {
		for i, f := range r.fields() {
			pdf.CellFormat(widths[i], 6, tr(fit(pdf, f, widths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fit truncates s so it renders within width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// ParseCSV reads a file written by CSV back into rows. The leading BOM is
// optional. The header must match the export header.
func ParseCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && string(head) == bom {
		br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = len(Header)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, service.NewError(service.CodeInvalid, "empty file")
	}
	if err != nil {
		return nil, service.WrapError(service.CodeInvalid, "invalid csv", err)
	}
	for i, h := range Header {
		if header[i] != h {
			return nil, service.Errorf(service.CodeInvalid, "unexpected column %q, want %q", header[i], h)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, service.WrapError(service.CodeInvalid, "invalid csv", err)
		}
		rows = append(rows, Row{
			ID: rec[0], Text: rec[1], Username: rec[2], Status: rec[3],
			Priority: rec[4], Order: rec[5], CreatedAt: rec[6], UpdatedAt: rec[7],
		})
	}
	return rows, nil
}
