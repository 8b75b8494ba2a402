package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{name: "no document", doc: nil, wantErr: ErrNoDocument},
		{name: "empty name", doc: &Document{}, wantErr: ErrNoDocument},
		{name: "pdf", doc: &Document{Name: "lease.PDF"}},
		{name: "docx", doc: &Document{Name: "contract.docx"}},
		{name: "txt", doc: &Document{Name: "notes.txt"}},
		{name: "image", doc: &Document{Name: "scan.png"}, wantErr: ErrUnsupportedType},
		{name: "no extension", doc: &Document{Name: "README"}, wantErr: ErrUnsupportedType},
		{name: "too large", doc: &Document{Name: "big.pdf", Data: make([]byte, MaxFileSize+1)}, wantErr: ErrTooLarge},
		{name: "exactly max", doc: &Document{Name: "max.pdf", Data: make([]byte, MaxFileSize)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAnalyzeWithoutDocument(t *testing.T) {
	_, err := NewAnalyzer(0, nil).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestAnalyzeReturnsSampleReport(t *testing.T) {
	doc := &Document{Name: "lease.pdf", ContentType: "application/pdf", Data: make([]byte, 2048)}

	report, err := NewAnalyzer(0, nil).Analyze(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, SampleReport, report.Summary)
	assert.Equal(t, Disclaimer, report.Disclaimer)
	assert.Equal(t, Metadata{Name: "lease.pdf", SizeKB: 2, Type: "application/pdf"}, report.Document)
	assert.Nil(t, report.Parsed)
}

func TestAnalyzeParsesTextFiles(t *testing.T) {
	doc := &Document{Name: "affidavit.txt", Data: []byte("The defendant signed on 01/02/2024.")}

	report, err := NewAnalyzer(0, nil).Analyze(context.Background(), doc)
	require.NoError(t, err)

	require.NotNil(t, report.Parsed)
	assert.Equal(t, []string{"01/02/2024"}, report.Parsed.Dates)
	assert.Equal(t, []string{"defendant"}, report.Parsed.LegalTerms)
	assert.Equal(t, 5, report.Parsed.WordCount)
	assert.Equal(t, "Unknown type", report.Document.Type)
}

func TestAnalyzeWaitsForDelay(t *testing.T) {
	start := time.Now()
	_, err := NewAnalyzer(30*time.Millisecond, nil).Analyze(context.Background(), &Document{Name: "a.txt"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAnalyzeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(time.Hour, nil).Analyze(ctx, &Document{Name: "a.pdf"})
	assert.True(t, errors.Is(err, context.Canceled))
}
