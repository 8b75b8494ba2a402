// Package redact replaces personal data in outbound prompts with placeholders
// and restores the original values in generated replies.
package redact

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hannes/kanoon/src/backend/config"
	"go.uber.org/zap"
)

// MaskedResult represents the result of masking PII in text
type MaskedResult struct {
	MaskedText       string
	MaskedToOriginal map[string]string
	Entities         []Entity
}

// MaskingService handles PII detection and masking
type MaskingService struct {
	detector Detector
	logCfg   config.LoggingConfig
	logger   *zap.Logger
}

// NewMaskingService creates a new masking service
func NewMaskingService(detector Detector, logCfg config.LoggingConfig, logger *zap.Logger) *MaskingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaskingService{
		detector: detector,
		logCfg:   logCfg,
		logger:   logger.Named("redact"),
	}
}

// NewDefaultMaskingService uses the regex detector with the Indian identifier patterns
func NewDefaultMaskingService(logCfg config.LoggingConfig, logger *zap.Logger) *MaskingService {
	return NewMaskingService(NewRegexDetector(IndianPIIPatterns), logCfg, logger)
}

func emptyResult(text string) MaskedResult {
	return MaskedResult{
		MaskedText:       text,
		MaskedToOriginal: make(map[string]string),
		Entities:         []Entity{},
	}
}

// MaskText detects PII in text and returns masked text with mappings.
// Repeated values share one placeholder. Detection errors leave the text unchanged.
func (s *MaskingService) MaskText(ctx context.Context, text string) MaskedResult {
	entities, err := s.detector.Detect(ctx, text)
	if err != nil {
		s.logger.Warn("failed to detect PII", zap.String("detector", s.detector.GetName()), zap.Error(err))
		return emptyResult(text)
	}

	if len(entities) == 0 {
		return emptyResult(text)
	}

	if s.logCfg.GetLogRedactions() {
		s.logger.Info("PII detected", zap.Int("entities", len(entities)))
	}

	maskedToOriginal := make(map[string]string)
	originalToMasked := make(map[string]string)
	counters := make(map[string]int)

	// Assign placeholders in reading order so numbering follows the text
	for _, entity := range entities {
		if _, seen := originalToMasked[entity.Text]; seen {
			continue
		}
		counters[entity.Label]++
		placeholder := fmt.Sprintf("[%s_%d]", entity.Label, counters[entity.Label])
		originalToMasked[entity.Text] = placeholder
		maskedToOriginal[placeholder] = entity.Text
	}

	// Replace from the end so earlier offsets stay valid
	ordered := make([]Entity, len(entities))
	copy(ordered, entities)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartPos > ordered[j].StartPos
	})

	maskedText := text
	for _, entity := range ordered {
		maskedText = maskedText[:entity.StartPos] + originalToMasked[entity.Text] + maskedText[entity.EndPos:]
	}

	if s.logCfg.GetLogVerbose() {
		s.logger.Debug("masked text", zap.String("original", text), zap.String("masked", maskedText))
	}

	return MaskedResult{
		MaskedText:       maskedText,
		MaskedToOriginal: maskedToOriginal,
		Entities:         entities,
	}
}

// RestorePII restores masked PII text back to original text using the stored mapping
func (s *MaskingService) RestorePII(text string, maskedToOriginal map[string]string) string {
	if len(maskedToOriginal) == 0 {
		return text
	}

	placeholders := make([]string, 0, len(maskedToOriginal))
	for placeholder := range maskedToOriginal {
		placeholders = append(placeholders, placeholder)
	}
	sort.Strings(placeholders)

	restored := text
	for _, placeholder := range placeholders {
		restored = strings.ReplaceAll(restored, placeholder, maskedToOriginal[placeholder])
	}

	if s.logCfg.GetLogVerbose() && restored != text {
		s.logger.Debug("restored text", zap.String("masked", text), zap.String("restored", restored))
	}
	return restored
}
