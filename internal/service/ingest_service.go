package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"phonebills/internal/domain"
	"phonebills/internal/parser"
	"phonebills/internal/port"
)

// IngestInput carries one document's extracted text into ingestion.
type IngestInput struct {
	Text           string
	StoredFile     *string // file name in the store, recorded on the invoice
	PeriodOverride string  // "YYYY-MM", wins over the parsed period
}

// IngestResult reports one successfully ingested document.
type IngestResult struct {
	InvoiceID           int64   `json:"invoice_id"`
	Period              string  `json:"period"`
	TotalWithVAT        float64 `json:"total_with_vat"`
	TotalWithoutVAT     float64 `json:"total_without_vat"`
	ItemCount           int     `json:"item_count"`
	AllocationPerformed bool    `json:"allocation_performed"`
	ParseSuccess        bool    `json:"parse_success"`
}

// ImportFileResult is the per-file outcome of a batch import.
type ImportFileResult struct {
	File   string              `json:"file"`
	Status domain.ImportStatus `json:"status"`
	Period string              `json:"period,omitempty"`
	Total  float64             `json:"total,omitempty"`
	Items  int                 `json:"items,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// ImportReport aggregates a whole batch import.
type ImportReport struct {
	Results      []ImportFileResult `json:"imported"`
	TotalNew     int                `json:"total_new"`
	TotalSkipped int                `json:"total_skipped"`
	TotalErrors  int                `json:"total_errors"`
}

// IngestService turns vendor invoice documents into invoices, items and
// payments, atomically per document.
type IngestService interface {
	// IngestDocument ingests already-extracted text. Fails with
	// domain.ErrNoPeriodDetected before any persistence when neither the
	// document nor the override yields a period, and with
	// domain.ErrDuplicatePeriod when the period is already imported.
	IngestDocument(ctx context.Context, input IngestInput) (*IngestResult, error)

	// IngestUpload stores the uploaded PDF, extracts its text and ingests it.
	IngestUpload(ctx context.Context, originalName string, data []byte, periodOverride string) (*IngestResult, error)

	// IngestBatch processes every PDF in the configured import directory,
	// strictly sequentially. One document's failure never aborts the rest.
	IngestBatch(ctx context.Context) (*ImportReport, error)
}

type ingestService struct {
	tx        port.TxRunner
	fallback  port.LineItemParser // nil disables the AI fallback
	extractor port.TextExtractor
	store     port.FileStore
	importDir string
	log       zerolog.Logger
}

// NewIngestService creates a new IngestService implementation. fallback may
// be nil when no AI capability is configured.
func NewIngestService(
	tx port.TxRunner,
	fallback port.LineItemParser,
	extractor port.TextExtractor,
	store port.FileStore,
	importDir string,
	log zerolog.Logger,
) IngestService {
	return &ingestService{
		tx:        tx,
		fallback:  fallback,
		extractor: extractor,
		store:     store,
		importDir: importDir,
		log:       log,
	}
}

// parseWithFallback runs the marker-based parser and, when it finds nothing
// and an AI capability is configured, the fallback. Fallback failures of any
// kind are logged and absorbed; the original outcome stands.
func (s *ingestService) parseWithFallback(ctx context.Context, text string) port.ParseResult {
	result := parser.ParseInvoiceText(text)
	if len(result.Items) > 0 || s.fallback == nil {
		return result
	}

	items, err := s.fallback.ParseItems(ctx, result.RawText)
	if err != nil {
		s.log.Warn().Err(err).Msg("ai fallback parse failed")
		return result
	}
	if len(items) == 0 {
		s.log.Warn().Msg("ai fallback returned no items")
		return result
	}

	s.log.Info().Int("items", len(items)).Msg("ai fallback recovered line items")
	result.Items = items
	result.Success = true
	return result
}

func (s *ingestService) IngestDocument(ctx context.Context, input IngestInput) (*IngestResult, error) {
	parsed := s.parseWithFallback(ctx, input.Text)
	for _, warning := range parser.CheckTotals(parsed) {
		s.log.Warn().Str("period", parsed.Period).Msg(warning)
	}

	period := input.PeriodOverride
	if period == "" {
		period = parsed.Period
	}
	if period == "" {
		return nil, domain.ErrNoPeriodDetected
	}

	var out IngestResult
	err := s.tx.RunIngest(ctx, func(invoices port.InvoiceRepository, services port.ServiceRepository, payments port.PaymentRepository) error {
		invoice := &domain.Invoice{
			Period:          period,
			FilePath:        input.StoredFile,
			TotalWithVAT:    parsed.TotalWithVAT,
			TotalWithoutVAT: parsed.TotalWithoutVAT,
			VATRate:         parsed.VATRate,
		}
		if err := invoices.Create(ctx, invoice); err != nil {
			return err
		}

		for _, item := range parsed.Items {
			serviceID, err := reconcileService(ctx, services, item.Identifier, item.Label)
			if err != nil {
				return err
			}
			if _, err := invoices.InsertItem(ctx, &domain.InvoiceItem{
				InvoiceID:        invoice.ID,
				ServiceID:        serviceID,
				Description:      item.Label,
				AmountWithVAT:    item.AmountWithVAT,
				AmountWithoutVAT: item.AmountWithoutVAT,
				AmountVATExempt:  item.AmountVATExempt,
			}); err != nil {
				return err
			}
		}

		allocated, err := allocatePayments(ctx, payments, invoice.ID)
		if err != nil {
			return err
		}

		out = IngestResult{
			InvoiceID:           invoice.ID,
			Period:              period,
			TotalWithVAT:        invoice.TotalWithVAT,
			TotalWithoutVAT:     invoice.TotalWithoutVAT,
			ItemCount:           len(parsed.Items),
			AllocationPerformed: allocated > 0,
			ParseSuccess:        parsed.Success,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("invoice_id", out.InvoiceID).
		Str("period", out.Period).
		Int("items", out.ItemCount).
		Msg("invoice ingested")
	return &out, nil
}

func (s *ingestService) IngestUpload(ctx context.Context, originalName string, data []byte, periodOverride string) (*IngestResult, error) {
	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	name := fmt.Sprintf("invoice-%d%s", time.Now().UnixMilli(), filepath.Ext(originalName))
	if err := s.store.Save(ctx, name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	result, err := s.IngestDocument(ctx, IngestInput{
		Text:           text,
		StoredFile:     &name,
		PeriodOverride: periodOverride,
	})
	if err != nil {
		// The invoice row never landed; don't leave the file behind.
		if removeErr := s.store.Remove(ctx, name); removeErr != nil {
			s.log.Warn().Err(removeErr).Str("file", name).Msg("removing stored upload after failed ingest")
		}
		return nil, err
	}
	return result, nil
}

// unsafeFileChars is replaced when deriving stored names from import files.
var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func (s *ingestService) IngestBatch(ctx context.Context) (*ImportReport, error) {
	if s.importDir == "" {
		return nil, domain.ErrImportDirMissing
	}
	entries, err := os.ReadDir(s.importDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrImportDirMissing
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	report := &ImportReport{Results: make([]ImportFileResult, 0, len(files))}
	for _, file := range files {
		report.add(s.importOne(ctx, file))
	}
	return report, nil
}

// importOne ingests a single file from the import directory. Sequential by
// design: later documents in the batch must see services created by earlier
// ones instead of racing to create duplicates.
func (s *ingestService) importOne(ctx context.Context, file string) ImportFileResult {
	data, err := os.ReadFile(filepath.Join(s.importDir, file))
	if err != nil {
		return ImportFileResult{File: file, Status: domain.ImportStatusError, Error: err.Error()}
	}

	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		return ImportFileResult{File: file, Status: domain.ImportStatusError, Error: fmt.Sprintf("extracting text: %v", err)}
	}

	destName := fmt.Sprintf("invoice-%d-%s", time.Now().UnixMilli(), unsafeFileChars.ReplaceAllString(file, "_"))
	if err := s.store.Save(ctx, destName, bytes.NewReader(data)); err != nil {
		return ImportFileResult{File: file, Status: domain.ImportStatusError, Error: fmt.Sprintf("storing file: %v", err)}
	}

	result, err := s.IngestDocument(ctx, IngestInput{Text: text, StoredFile: &destName})
	if err != nil {
		if removeErr := s.store.Remove(ctx, destName); removeErr != nil {
			s.log.Warn().Err(removeErr).Str("file", destName).Msg("removing stored file after failed import")
		}
		switch {
		case errors.Is(err, domain.ErrDuplicatePeriod):
			return ImportFileResult{File: file, Status: domain.ImportStatusSkipped, Error: "period already imported"}
		case errors.Is(err, domain.ErrNoPeriodDetected):
			return ImportFileResult{File: file, Status: domain.ImportStatusSkipped, Error: "period not detected"}
		default:
			return ImportFileResult{File: file, Status: domain.ImportStatusError, Error: err.Error()}
		}
	}

	return ImportFileResult{
		File:   file,
		Status: domain.ImportStatusImported,
		Period: result.Period,
		Total:  result.TotalWithVAT,
		Items:  result.ItemCount,
	}
}

func (r *ImportReport) add(result ImportFileResult) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case domain.ImportStatusImported:
		r.TotalNew++
	case domain.ImportStatusSkipped:
		r.TotalSkipped++
	default:
		r.TotalErrors++
	}
}
