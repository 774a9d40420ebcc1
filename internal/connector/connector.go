package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Contact identifies the counterparty on an invoice as reported by the
// external accounting system.
type Contact struct {
	CompanyName string
	FirstName   string
}

// Invoice is a sales invoice issued within a reporting period.
type Invoice struct {
	ID       string
	Contact  Contact
	Total    decimal.Decimal
	IssuedAt time.Time
}

// Payment is a settlement event registered within a reporting period. PaidAt
// is nil for mutations that are not (yet) tied to an actual payment.
type Payment struct {
	ID     string
	Amount decimal.Decimal
	PaidAt *time.Time
}

// OpenInvoice is an invoice that has not been fully paid, regardless of the
// period it was issued in.
type OpenInvoice struct {
	ID      string
	Contact Contact
	Unpaid  decimal.Decimal
	DueAt   *time.Time
}

// Connector retrieves financial records from one external accounting system.
// Implementations normalise the remote wire format into the record types
// above; everything downstream is system-agnostic.
type Connector interface {
	// FetchPeriodInvoices returns invoices issued in [start, end] inclusive.
	FetchPeriodInvoices(ctx context.Context, start, end time.Time) ([]Invoice, error)
	// FetchPeriodPayments returns settlement events in the same window.
	FetchPeriodPayments(ctx context.Context, start, end time.Time) ([]Payment, error)
	// FetchOpenInvoices returns all currently unpaid invoices.
	FetchOpenInvoices(ctx context.Context) ([]OpenInvoice, error)
	// CheckCredentials verifies the credential bundle with a lightweight
	// read-only call. It never returns an error; any failure reads as false.
	CheckCredentials(ctx context.Context) bool
}

// RemoteFetchError wraps a failure from the accounting system during data
// retrieval. It is fatal for the customer's current run but not for the batch.
type RemoteFetchError struct {
	Endpoint string
	Err      error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("connector: fetch %s: %v", e.Endpoint, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}
