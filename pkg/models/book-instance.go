package models

import "github.com/uptrace/bun"

// InstanceStatus is the circulation state of a single copy.
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "available"
	StatusOnLoan      InstanceStatus = "on_loan"
	StatusMaintenance InstanceStatus = "maintenance"
	StatusReserved    InstanceStatus = "reserved"
)

// Valid reports whether s is one of the known statuses.
func (s InstanceStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusOnLoan, StatusMaintenance, StatusReserved:
		return true
	}
	return false
}

type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         string         `bun:",pk" json:"id"`
	BookID     int            `json:"book"`
	Book       *Book          `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	Imprint    string         `json:"imprint"`
	DueBack    *Date          `json:"due_back"`
	BorrowerID *int           `json:"borrower"`
	Borrower   *User          `bun:"rel:belongs-to,join:borrower_id=id" json:"-"`
	Status     InstanceStatus `json:"status"`
}

// IsOverdue is true when the copy is out on loan and its due date has passed.
// It is derived on every call and never stored.
func (bi *BookInstance) IsOverdue(today Date) bool {
	return bi.Status == StatusOnLoan && bi.DueBack != nil && bi.DueBack.Before(today)
}
