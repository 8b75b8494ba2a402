package accounts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// KYC review states
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var (
	ErrInvalidKYC      = errors.New("invalid KYC submission")
	ErrKYCNotFound     = errors.New("KYC verification not found")
	ErrAlreadyReviewed = errors.New("KYC verification already reviewed")
)

// KYCSubmit is the identity verification input. Dates use YYYY-MM-DD.
type KYCSubmit struct {
	UserID         string `json:"user_id"`
	FullName       string `json:"full_name"`
	DOB            string `json:"dob"`
	Email          string `json:"email"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	IssueDate      string `json:"issue_date"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
}

type KYCVerification struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	FullName        string     `json:"full_name"`
	DOB             time.Time  `json:"dob"`
	Email           string     `json:"email"`
	DocumentType    string     `json:"document_type"`
	DocumentNumber  string     `json:"document_number"`
	IssueDate       time.Time  `json:"issue_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	VerifiedBy      string     `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// IsExpired reports whether the document expired before now's date.
// Documents without an expiry date never expire.
func (k KYCVerification) IsExpired(now time.Time) bool {
	if k.ExpiryDate == nil {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return k.ExpiryDate.Before(today)
}

// KYCRegistry holds verifications in memory
type KYCRegistry struct {
	mu      sync.RWMutex
	records map[string]*KYCVerification
	now     func() time.Time
}

func NewKYCRegistry() *KYCRegistry {
	return &KYCRegistry{
		records: make(map[string]*KYCVerification),
		now:     time.Now,
	}
}

func (in KYCSubmit) parse() (KYCVerification, error) {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if strings.TrimSpace(in.UserID) == "" {
		errs = append(errs, "UserID: cannot be empty")
	}
	add(checkLength("FullName", strings.TrimSpace(in.FullName), 3, 100))
	add(checkLength("DocumentNumber", strings.TrimSpace(in.DocumentNumber), 6, 20))
	if strings.TrimSpace(in.DocumentType) == "" {
		errs = append(errs, "DocumentType: cannot be empty")
	}
	email, err := parseEmail(in.Email)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Email: invalid address (current value: %s)", in.Email))
	}

	parseDate := func(field, v string) time.Time {
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: must be a YYYY-MM-DD date (current value: %s)", field, v))
		}
		return t
	}
	dob := parseDate("DOB", in.DOB)
	issued := parseDate("IssueDate", in.IssueDate)
	var expiry *time.Time
	if strings.TrimSpace(in.ExpiryDate) != "" {
		t := parseDate("ExpiryDate", in.ExpiryDate)
		expiry = &t
	}

	if len(errs) > 0 {
		return KYCVerification{}, fmt.Errorf("%w: %s", ErrInvalidKYC, strings.Join(errs, "; "))
	}
	return KYCVerification{
		UserID:         strings.TrimSpace(in.UserID),
		FullName:       strings.TrimSpace(in.FullName),
		DOB:            dob,
		Email:          email,
		DocumentType:   strings.TrimSpace(in.DocumentType),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		IssueDate:      issued,
		ExpiryDate:     expiry,
	}, nil
}

// Submit validates and records a pending verification
func (r *KYCRegistry) Submit(in KYCSubmit) (KYCVerification, error) {
	k, err := in.parse()
	if err != nil {
		return KYCVerification{}, err
	}
	k.ID = "kyc-" + uuid.NewString()
	k.Status = StatusPending
	k.SubmittedAt = r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[k.ID] = &k
	return k, nil
}

func (r *KYCRegistry) Get(id string) (KYCVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.records[id]
	if !ok {
		return KYCVerification{}, ErrKYCNotFound
	}
	return *k, nil
}

// List returns every verification, oldest submission first
func (r *KYCRegistry) List() []KYCVerification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]KYCVerification, 0, len(r.records))
	for _, k := range r.records {
		result = append(result, *k)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result
}

// Approve marks a pending verification approved by verifier
func (r *KYCRegistry) Approve(id, verifier string) (KYCVerification, error) {
	return r.review(id, verifier, StatusApproved, "")
}

// Reject marks a pending verification rejected with reason
func (r *KYCRegistry) Reject(id, reason, verifier string) (KYCVerification, error) {
	if strings.TrimSpace(reason) == "" {
		return KYCVerification{}, fmt.Errorf("%w: rejection reason cannot be empty", ErrInvalidKYC)
	}
	return r.review(id, verifier, StatusRejected, strings.TrimSpace(reason))
}

func (r *KYCRegistry) review(id, verifier, status, reason string) (KYCVerification, error) {
	if strings.TrimSpace(verifier) == "" {
		return KYCVerification{}, fmt.Errorf("%w: verifier cannot be empty", ErrInvalidKYC)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.records[id]
	if !ok {
		return KYCVerification{}, ErrKYCNotFound
	}
	if k.Status != StatusPending {
		return KYCVerification{}, fmt.Errorf("%w: status is %s", ErrAlreadyReviewed, k.Status)
	}

	now := r.now().UTC()
	k.Status = status
	k.VerifiedBy = strings.TrimSpace(verifier)
	k.VerifiedAt = &now
	k.RejectionReason = reason
	return *k, nil
}
