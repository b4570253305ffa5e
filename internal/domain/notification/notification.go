package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Type identifies what a notification is about
type Type string

const (
	TypeCapitalUnlocked     Type = "CAPITAL_UNLOCKED"
	TypeWithdrawalRequested Type = "WITHDRAWAL_REQUESTED"
	TypeWithdrawalReviewed  Type = "WITHDRAWAL_REVIEWED"
	TypeDividendDeclared    Type = "DIVIDEND_DECLARED"
	TypeDocumentShared      Type = "DOCUMENT_SHARED"
	TypeTaxOverdue          Type = "TAX_OVERDUE"
	TypeTaxDueSoon          Type = "TAX_DUE_SOON"
	TypeInvoiceOverdue      Type = "INVOICE_OVERDUE"
	TypeSystem              Type = "SYSTEM"
)

// Priority ranks notifications for display
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// IsValid checks if the priority is a known value
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}

// Notification is a message addressed to a single user within a company
type Notification struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	UserID     uuid.UUID
	Type       Type
	Title      string
	Message    string
	EntityType string
	EntityID   *uuid.UUID
	Priority   Priority
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// Draft is the content of a notification before it is addressed
type Draft struct {
	Type       Type
	Title      string
	Message    string
	EntityType string
	EntityID   *uuid.UUID
	Priority   Priority
}

// New addresses a draft to a recipient
func New(companyID, userID uuid.UUID, d Draft) (*Notification, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, shared.InvalidInput("Notification title is required")
	}
	if userID == uuid.Nil {
		return nil, shared.InvalidInput("Recipient is required")
	}
	priority := d.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.InvalidInput("Priority must be LOW, NORMAL or HIGH")
	}
	return &Notification{
		ID:         uuid.New(),
		CompanyID:  companyID,
		UserID:     userID,
		Type:       d.Type,
		Title:      title,
		Message:    strings.TrimSpace(d.Message),
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Priority:   priority,
		CreatedAt:  time.Now(),
	}, nil
}

// Fanout addresses a draft to every recipient, skipping duplicates
func Fanout(companyID uuid.UUID, recipients []uuid.UUID, d Draft) ([]*Notification, error) {
	out := make([]*Notification, 0, len(recipients))
	seen := make(map[uuid.UUID]bool, len(recipients))
	for _, r := range recipients {
		if seen[r] {
			continue
		}
		seen[r] = true
		n, err := New(companyID, r, d)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// IsRead reports whether the recipient has read the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead records the read time once
func (n *Notification) MarkRead(at time.Time) {
	if n.ReadAt == nil {
		n.ReadAt = &at
	}
}
