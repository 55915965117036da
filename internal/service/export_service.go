package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"govassess/internal/model"
	"govassess/internal/scoring"
)

// Exportable documents. Spreadsheet cell layout is a presentation
// concern; these are plain CSV renderings of the derived tables.
const (
	DocSummary    = "summary"     // per-domain aggregates plus an overall row
	DocDetail     = "detail"      // every rating tuple
	DocActionPlan = "action-plan" // rows with a positive gap, widest first
)

var ErrUnknownDocument = errors.New("unknown export document")

var exportDocs = []string{DocSummary, DocDetail, DocActionPlan}

// ExportService renders the derived assessment into CSV documents.
type ExportService struct {
	assessment *AssessmentService
}

// NewExportService creates a new export service.
func NewExportService(assessment *AssessmentService) *ExportService {
	return &ExportService{assessment: assessment}
}

// Filename returns the file name used for a document.
func Filename(doc string) string {
	return "assessment-" + doc + ".csv"
}

// Write renders one document to w.
func (s *ExportService) Write(doc string, w io.Writer) error {
	switch doc {
	case DocSummary:
		return s.writeSummary(w)
	case DocDetail:
		return s.writeDetail(w)
	case DocActionPlan:
		return s.writeActionPlan(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownDocument, doc)
}

// WriteAll writes the three documents into dir, one file each. The
// files render from one shared snapshot of the ratings table, so a
// concurrent edit cannot tear the export.
func (s *ExportService) WriteAll(dir string) error {
	rows := s.assessment.Rows()
	summary := s.assessment.Summary()

	g := new(errgroup.Group)
	for _, doc := range exportDocs {
		doc := doc
		g.Go(func() error {
			f, err := os.Create(filepath.Join(dir, Filename(doc)))
			if err != nil {
				return err
			}
			if err := s.render(doc, f, rows, summary); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}
	return g.Wait()
}

func (s *ExportService) writeSummary(w io.Writer) error {
	return s.render(DocSummary, w, s.assessment.Rows(), s.assessment.Summary())
}

func (s *ExportService) writeDetail(w io.Writer) error {
	return s.render(DocDetail, w, s.assessment.Rows(), nil)
}

func (s *ExportService) writeActionPlan(w io.Writer) error {
	return s.render(DocActionPlan, w, s.assessment.Rows(), nil)
}

func (s *ExportService) render(doc string, w io.Writer, rows []scoring.Row, summary []scoring.DomainSummary) error {
	cw := csv.NewWriter(w)
	switch doc {
	case DocSummary:
		cw.Write([]string{"domain_id", "domain", "questions", "mean_current", "mean_target", "mean_gap", "critical_high"})
		for _, d := range summary {
			cw.Write([]string{
				strconv.Itoa(d.DomainID),
				d.DomainName,
				strconv.Itoa(d.Questions),
				formatMean(d.MeanCurrent),
				formatMean(d.MeanTarget),
				formatMean(d.MeanGap),
				strconv.Itoa(d.CriticalHigh),
			})
		}
		meanCurrent, meanTarget, meanGap := scoring.Overall(rows)
		cw.Write([]string{"", "overall", strconv.Itoa(len(rows)),
			formatMean(meanCurrent), formatMean(meanTarget), formatMean(meanGap), ""})
	case DocDetail:
		cw.Write(detailHeader)
		for _, r := range rows {
			cw.Write(detailRecord(r))
		}
	case DocActionPlan:
		cw.Write(detailHeader)
		for _, r := range scoring.TopGapItems(rows, len(rows)) {
			cw.Write(detailRecord(r))
		}
	}
	cw.Flush()
	return cw.Error()
}

var detailHeader = []string{
	"code", "domain", "question", "current", "target", "gap", "priority",
	"action_items", "benefit", "effort",
}

func detailRecord(r scoring.Row) []string {
	return []string{
		r.Code,
		r.DomainName,
		r.Question,
		strconv.Itoa(r.Current),
		strconv.Itoa(r.Target),
		strconv.Itoa(r.Gap),
		string(r.Priority),
		r.ActionItems,
		strconv.Itoa(r.Benefit),
		strconv.Itoa(r.Effort),
	}
}

func formatMean(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ReadDetail parses a detail export back into rating tuples, in file
// order. The detail document round-trips every field of every rating
// exactly.
func ReadDetail(r io.Reader) ([]model.Rating, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("export: read detail: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("export: detail document has no header")
	}

	ratings := make([]model.Rating, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(detailHeader) {
			return nil, fmt.Errorf("export: detail row %d has %d columns, want %d", i+1, len(rec), len(detailHeader))
		}
		current, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("export: detail row %d: bad current: %w", i+1, err)
		}
		target, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("export: detail row %d: bad target: %w", i+1, err)
		}
		benefit, err := strconv.Atoi(rec[8])
		if err != nil {
			return nil, fmt.Errorf("export: detail row %d: bad benefit: %w", i+1, err)
		}
		effort, err := strconv.Atoi(rec[9])
		if err != nil {
			return nil, fmt.Errorf("export: detail row %d: bad effort: %w", i+1, err)
		}
		ratings = append(ratings, model.Rating{
			Code:        rec[0],
			Current:     current,
			Target:      target,
			ActionItems: rec[7],
			Benefit:     benefit,
			Effort:      effort,
		})
	}
	return ratings, nil
}
