package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/webdevzw/reviews-apiserver/internal/storage"
	"github.com/webdevzw/reviews-apiserver/types"
)

// Formatter turns a list of reviews into a tabular document. The CSV
// implementation below is the only one shipped; richer formats plug in
// behind the same interface.
type Formatter interface {
	Format(w io.Writer, reviews []types.Review) error
	ContentType() string
	Extension() string
}

// CSVFormatter renders the admin export column set.
type CSVFormatter struct{}

var exportHeader = []string{"Date", "Service", "Rating", "Client Name", "Company", "Email", "Phone", "Review"}

func (CSVFormatter) Format(w io.Writer, reviews []types.Review) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, review := range reviews {
		record := []string{
			review.CreatedAt.Format("2006-01-02"),
			review.Service.Display(),
			fmt.Sprintf("%d Stars", review.Rating),
			review.ClientName,
			orNA(review.CompanyName),
			review.ClientEmail,
			orNA(review.PhoneNumber),
			review.Content,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (CSVFormatter) ContentType() string { return "text/csv" }

func (CSVFormatter) Extension() string { return ".csv" }

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

// ExportService renders review exports and, when an archive is
// configured, keeps a copy in object storage.
type ExportService struct {
	formatter Formatter
	archive   storage.Archive
	logger    *slog.Logger
	now       func() time.Time
}

func NewExportService(formatter Formatter, archive storage.Archive, logger *slog.Logger) *ExportService {
	return &ExportService{
		formatter: formatter,
		archive:   archive,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the service's time source.
func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	s.now = now
	return s
}

// ContentType reports the formatter's MIME type.
func (s *ExportService) ContentType() string {
	return s.formatter.ContentType()
}

// Export renders the formatted document and returns it with a suggested
// filename. Archiving is best-effort: an upload failure is logged and the
// admin still gets their download.
func (s *ExportService) Export(ctx context.Context, reviews []types.Review) ([]byte, string, error) {
	filename := fmt.Sprintf("reviews_export_%s%s", s.now().Format("20060102_150405"), s.formatter.Extension())

	var buf bytes.Buffer
	if err := s.formatter.Format(&buf, reviews); err != nil {
		return nil, "", err
	}

	if s.archive != nil {
		key := "exports/" + filename
		if err := s.archive.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), s.formatter.ContentType()); err != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "export archive upload failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return buf.Bytes(), filename, nil
}
