package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/DaniarKamaev/Tasks/internal/storage"
)

// TaskLister is the slice of the store the exporter needs.
type TaskLister interface {
	ListAll(ctx context.Context) []*storage.TaskRecord
}

// Exporter renders the stored task list in a portable format.
type Exporter struct {
	st TaskLister
}

func NewExporter(st TaskLister) *Exporter { return &Exporter{st: st} }

type taskJSON struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	IsCompleted bool      `json:"is_completed"`
	OwnerTag    int       `json:"owner_tag"`
}

// Export returns the full task list rendered as json, csv or pdf.
func (e *Exporter) Export(ctx context.Context, format string) ([]byte, error) {
	all := e.st.ListAll(ctx)

	switch strings.ToLower(format) {
	case "json":
		out := make([]taskJSON, len(all))
		for i, t := range all {
			out[i] = taskJSON{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				CreatedAt:   t.CreatedAt,
				IsCompleted: t.IsCompleted,
				OwnerTag:    t.OwnerTag,
			}
		}
		return json.MarshalIndent(out, "", "  ")

	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "title", "description", "created_at", "is_completed", "owner_tag"})
		for _, t := range all {
			_ = w.Write([]string{
				strconv.Itoa(t.ID),
				t.Title,
				t.Description,
				t.CreatedAt.UTC().Format(time.RFC3339),
				strconv.FormatBool(t.IsCompleted),
				strconv.Itoa(t.OwnerTag),
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil

	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Task List")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		for _, t := range all {
			mark := "[ ]"
			if t.IsCompleted {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s #%d %s - %s (%s)",
				mark, t.ID, t.Title, t.Description, t.CreatedAt.Format("2006-01-02"))
			pdf.MultiCell(0, 6, line, "0", "L", false)
		}
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("unsupported export format: %s", format)
}
