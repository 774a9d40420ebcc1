package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a report recipient. The row is owned by the provisioning
// process; this package only reads it.
type Customer struct {
	ID               uuid.UUID
	Name             string
	CompanyName      string
	Email            string
	AccountingSystem string
	Credentials      map[string]string
	Active           bool
}

// Period is a closed Monday–Sunday reporting window.
type Period struct {
	Start time.Time
	End   time.Time
}

// Label renders the window for subjects and prompts, e.g. "18 aug - 24 aug 2025".
func (p Period) Label() string {
	return formatShortDate(p.Start) + " - " + formatShortDate(p.End) + " " + p.End.Format("2006")
}

var dutchMonths = [...]string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}

func formatShortDate(t time.Time) string {
	return t.Format("02") + " " + dutchMonths[int(t.Month())-1]
}

// CustomerRevenue is one entry in the top-customer ranking.
type CustomerRevenue struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OverdueInvoice is one entry in the overdue-invoice ranking.
type OverdueInvoice struct {
	Customer    string          `json:"customer"`
	Amount      decimal.Decimal `json:"amount"`
	DaysOverdue int             `json:"days_overdue"`
}

// Metrics is the normalised, connector-agnostic weekly shape. It is a value:
// built once per run and never mutated afterwards.
type Metrics struct {
	Revenue            decimal.Decimal   `json:"revenue"`
	Costs              decimal.Decimal   `json:"costs"`
	Profit             decimal.Decimal   `json:"profit"`
	InvoicesSent       int               `json:"invoices_sent"`
	InvoicesPaid       int               `json:"invoices_paid"`
	OutstandingTotal   decimal.Decimal   `json:"outstanding_total"`
	OutstandingOverdue decimal.Decimal   `json:"outstanding_overdue"`
	TopCustomers       []CustomerRevenue `json:"top_customers"`
	OverdueInvoices    []OverdueInvoice  `json:"overdue_invoices"`
}

// Snapshot is an immutable record of computed metrics for one customer and
// one period. Snapshots are append-only; re-running a period adds a second
// row and the most recent one wins as "previous" on the next run.
type Snapshot struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Period     Period
	Metrics    Metrics
	CreatedAt  time.Time
}

// Record is the audit-trail entry written once per orchestration run that
// reached the narration stage.
type Record struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	SnapshotID uuid.UUID
	Narrative  string
	Sent       bool
	CreatedAt  time.Time
}

// Outcome summarises one customer's run.
type Outcome struct {
	CustomerID uuid.UUID
	Company    string
	Success    bool
	Sent       bool
	Reason     string
}

// Failure identifies a customer whose run failed and why.
type Failure struct {
	CustomerID uuid.UUID
	Reason     string
}

// Summary is the batch tally. Sent counts the subset of succeeded runs whose
// email was actually delivered; Outcomes holds one entry per attempted customer
// in batch order.
type Summary struct {
	Attempted int
	Succeeded int
	Sent      int
	Outcomes  []Outcome
	Failures  []Failure
}
