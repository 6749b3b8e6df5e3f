package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"device-inspector/internal/domain/entity"
)

// ReportHeader колонки CSV-отчёта
var ReportHeader = []string{
	"ID", "Filename", "Timestamp", "Final Status",
	"Home Button", "Status Button", "Screen", "ID/Back Button",
	"Text Language", "Fail Reason", "Confidence", "Product Model",
}

// WriteReport пишет записи по фильтру в CSV.
func (s *InspectionService) WriteReport(ctx context.Context, w io.Writer, filter entity.ResultFilter) error {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(reportRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func reportRow(r entity.AnalysisRecord) []string {
	d := r.Details
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Filename,
		r.Timestamp.Format("2006-01-02 15:04:05"),
		string(r.Status),
		string(d.HomeStatus),
		string(d.StatusStatus),
		string(d.ScreenStatus),
		string(d.IDBackStatus),
		deref(d.Language),
		r.ReasonText(),
		strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		deref(d.ProductModel),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
