// Package legal drafts notices, roadmaps and explanations with the
// text-generation provider and falls back to fixed Indian-law templates.
package legal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hannes/kanoon/src/backend/processor"
	"go.uber.org/zap"
)

const (
	NoticeErrorText = "Error generating legal notice. Please try again with more specific details."

	AnswerFallback = "I apologize, but I couldn't generate a proper legal response based on Indian law. " +
		"Please try rephrasing your question with more specific details about your legal situation in India."
	AnswerErrorText = "I apologize for the technical difficulty. Our legal assistant is currently unable to process your request. " +
		"Please try again in a few moments."

	minNoticeLength = 100
	minRoadmapSteps = 3
	minAnswerLength = 10
)

var ErrInvalidRequest = errors.New("invalid request")

// Generator produces text for a prompt. Operation names the cache bucket.
type Generator interface {
	GenerateRaw(ctx context.Context, operation, prompt string) (string, error)
}

type NoticeRequest struct {
	RecipientName    string `json:"recipient_name"`
	RecipientAddress string `json:"recipient_address"`
	Subject          string `json:"subject"`
	CaseDetails      string `json:"case_details"`
	SenderName       string `json:"your_name"`
	Jurisdiction     string `json:"jurisdiction"`
	NoticeType       string `json:"notice_type"`
}

func (r *NoticeRequest) normalize() error {
	var missing []string
	for name, value := range map[string]string{
		"recipient_name":    r.RecipientName,
		"recipient_address": r.RecipientAddress,
		"subject":           r.Subject,
		"case_details":      r.CaseDetails,
		"your_name":         r.SenderName,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(r.Jurisdiction) == "" {
		r.Jurisdiction = "India"
	}
	if strings.TrimSpace(r.NoticeType) == "" {
		r.NoticeType = "Legal Notice"
	}
	return nil
}

type RoadmapRequest struct {
	IssueType    string `json:"issue_type"`
	Jurisdiction string `json:"jurisdiction"`
	Timeline     string `json:"timeline"`
}

type Roadmap struct {
	Steps        []string `json:"steps"`
	Jurisdiction string   `json:"jurisdiction"`
	IssueType    string   `json:"issue_type"`
}

// Service runs the legal document prompts
type Service struct {
	gen    Generator
	logger *zap.Logger
}

func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger.Named("legal")}
}

// GenerateNotice drafts a formal legal notice. A short or malformed draft is
// replaced by the fixed template; provider failures return NoticeErrorText.
func (s *Service) GenerateNotice(ctx context.Context, req NoticeRequest) (string, error) {
	if err := req.normalize(); err != nil {
		return "", err
	}

	prompt := noticePrompt(req)
	generated, err := s.gen.GenerateRaw(ctx, "notice", prompt)
	if err != nil {
		s.logger.Error("error generating notice", zap.Error(err))
		return NoticeErrorText, nil
	}

	notice := processor.ExtractAfterMarker(generated, processor.MarkerNoticeText, prompt)
	if len(notice) < minNoticeLength || !strings.Contains(strings.ToUpper(notice), "NOTICE") {
		s.logger.Debug("using template notice", zap.Int("generated_length", len(notice)))
		return templateNotice(req), nil
	}
	return notice, nil
}

// GenerateRoadmap returns numbered steps for handling an issue. Fewer than
// three generated steps are replaced by the fixed Indian-context roadmap;
// provider failures return no steps.
func (s *Service) GenerateRoadmap(ctx context.Context, req RoadmapRequest) (Roadmap, error) {
	if strings.TrimSpace(req.IssueType) == "" {
		return Roadmap{}, fmt.Errorf("%w: missing issue_type", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Jurisdiction) == "" {
		req.Jurisdiction = "India"
	}
	if strings.TrimSpace(req.Timeline) == "" {
		req.Timeline = "Standard"
	}

	result := Roadmap{Steps: []string{}, Jurisdiction: req.Jurisdiction, IssueType: req.IssueType}

	prompt := roadmapPrompt(req)
	generated, err := s.gen.GenerateRaw(ctx, "roadmap", prompt)
	if err != nil {
		s.logger.Error("error generating roadmap", zap.Error(err))
		return result, nil
	}

	text := processor.ExtractAfterMarker(generated, processor.MarkerRoadmapSteps, prompt)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result.Steps = append(result.Steps, line)
		}
	}

	if len(result.Steps) < minRoadmapSteps {
		result.Steps = fallbackSteps(req)
	}
	return result, nil
}

// Ask answers a legal question as an Indian legal professional would
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: missing question", ErrInvalidRequest)
	}

	prompt := askPrompt(question)
	generated, err := s.gen.GenerateRaw(ctx, "ask", prompt)
	if err != nil {
		s.logger.Error("error answering question", zap.Error(err))
		return AnswerErrorText, nil
	}

	answer := processor.CollapseNewlines(processor.ExtractAfterMarker(generated, processor.MarkerLegalResponse, prompt))
	if len(answer) < minAnswerLength {
		return AnswerFallback, nil
	}
	return answer, nil
}

// Explain describes a legal concept in simple terms
func (s *Service) Explain(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("%w: missing topic", ErrInvalidRequest)
	}
	return s.simple(ctx, "explain", "Explain the following legal concept in simple terms:\n"+topic)
}

// SummarizeNotice summarizes the content of a received legal notice
func (s *Service) SummarizeNotice(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: missing content", ErrInvalidRequest)
	}
	return s.simple(ctx, "summarize-notice", "Summarize the following legal notice:\n"+content)
}

func (s *Service) simple(ctx context.Context, operation, prompt string) (string, error) {
	generated, err := s.gen.GenerateRaw(ctx, operation, prompt)
	if err != nil {
		s.logger.Error("generation failed", zap.String("operation", operation), zap.Error(err))
		return AnswerErrorText, nil
	}
	text := strings.TrimSpace(strings.Replace(generated, prompt, "", 1))
	if len(text) < minAnswerLength {
		return AnswerFallback, nil
	}
	return text, nil
}
