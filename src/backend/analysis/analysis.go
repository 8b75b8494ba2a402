// Package analysis produces the plain-language report for an uploaded legal
// document. The report itself is a fixed sample; the service validates the
// upload and simulates the processing time.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hannes/kanoon/src/backend/legal"
	"go.uber.org/zap"
)

// MaxFileSize is the largest accepted upload
const MaxFileSize = 10 << 20

const SampleReport = "This legal document is a residential lease agreement. Key terms include:\n\n" +
	"1. Lease Term: 12 months starting January 1, 2025\n" +
	"2. Monthly Rent: $1,500 due on the 1st of each month\n" +
	"3. Security Deposit: $2,000 refundable upon move-out inspection\n" +
	"4. Late Fee: $50 if rent is paid after the 5th of the month\n" +
	"5. Early Termination: Requires 60 days notice and 2 months rent penalty\n\n" +
	"Potential concerns:\n" +
	"- The maintenance clause places excessive burden on tenant\n" +
	"- The entry notice period of 12 hours is shorter than most state requirements\n" +
	"- The automatic renewal clause may violate consumer protection laws in your state"

const Disclaimer = "This analysis is provided for informational purposes only and does not constitute legal advice. " +
	"Please consult with a qualified attorney for specific legal guidance."

// Steps shown while a document is being analyzed
var Steps = []string{
	"Scanning document structure",
	"Identifying legal terminology",
	"Analyzing contractual obligations",
	"Generating plain language summary",
}

var (
	ErrNoDocument      = errors.New("no document selected")
	ErrUnsupportedType = errors.New("unsupported document type: supports PDF, DOCX, and TXT files")
	ErrTooLarge        = errors.New("document exceeds the 10MB limit")
)

var allowedExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// Document is an uploaded file
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Metadata describes the uploaded file the way the upload panel shows it
type Metadata struct {
	Name   string  `json:"name"`
	SizeKB float64 `json:"size_kb"`
	Type   string  `json:"type"`
}

type Report struct {
	Document   Metadata            `json:"document"`
	Summary    string              `json:"summary"`
	Disclaimer string              `json:"disclaimer"`
	Parsed     *legal.DocumentInfo `json:"parsed,omitempty"`
}

// Analyzer runs the simulated analysis
type Analyzer struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewAnalyzer(delay time.Duration, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{delay: delay, logger: logger.Named("analysis")}
}

// Validate reports whether doc can be analyzed. A nil document means
// nothing was selected.
func Validate(doc *Document) error {
	if doc == nil || doc.Name == "" {
		return ErrNoDocument
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(doc.Name))] {
		return fmt.Errorf("%w (got %q)", ErrUnsupportedType, filepath.Ext(doc.Name))
	}
	if len(doc.Data) > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// Analyze waits for the simulated processing time and returns the sample
// report. Plain-text documents are also run through the document parser.
func (a *Analyzer) Analyze(ctx context.Context, doc *Document) (Report, error) {
	if err := Validate(doc); err != nil {
		return Report{}, err
	}

	a.logger.Info("analyzing document", zap.String("name", doc.Name), zap.Int("size", len(doc.Data)))

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Report{}, ctx.Err()
		case <-timer.C:
		}
	}

	report := Report{
		Document:   describe(doc),
		Summary:    SampleReport,
		Disclaimer: Disclaimer,
	}

	if strings.EqualFold(filepath.Ext(doc.Name), ".txt") && utf8.Valid(doc.Data) {
		parsed := legal.ParseDocument(string(doc.Data))
		report.Parsed = &parsed
	}

	return report, nil
}

func describe(doc *Document) Metadata {
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "Unknown type"
	}
	return Metadata{
		Name:   doc.Name,
		SizeKB: math.Round(float64(len(doc.Data))/1024*100) / 100,
		Type:   contentType,
	}
}
