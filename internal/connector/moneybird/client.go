package moneybird

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/finpulse/finpulse/internal/connector"
	"github.com/finpulse/finpulse/internal/money"
)

// System is the accounting-system identifier for Moneybird.
const System = "moneybird"

var validate = validator.New()

// Credentials holds the per-administration API credentials from a customer's
// credential bundle.
type Credentials struct {
	AdministrationID string `validate:"required"`
	Token            string `validate:"required"`
}

// CredentialsFromBundle extracts Moneybird credentials from an opaque bundle.
func CredentialsFromBundle(bundle map[string]string) (Credentials, error) {
	creds := Credentials{
		AdministrationID: bundle["admin_id"],
		Token:            bundle["token"],
	}
	if err := validate.Struct(creds); err != nil {
		return Credentials{}, fmt.Errorf("moneybird: incomplete credentials: %w", err)
	}
	return creds, nil
}

// Client talks to the Moneybird v2 API for a single administration.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
}

// NewClient constructs a Moneybird connector.
func NewClient(baseURL string, creds Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Factory adapts NewClient to the connector registry.
func Factory(baseURL string, timeout time.Duration) connector.Factory {
	return func(bundle map[string]string) (connector.Connector, error) {
		creds, err := CredentialsFromBundle(bundle)
		if err != nil {
			return nil, err
		}
		return NewClient(baseURL, creds, timeout), nil
	}
}

type wireContact struct {
	CompanyName string `json:"company_name"`
	FirstName   string `json:"firstname"`
}

type wireInvoice struct {
	ID                string      `json:"id"`
	Contact           wireContact `json:"contact"`
	TotalPriceInclTax string      `json:"total_price_incl_tax"`
	TotalUnpaid       string      `json:"total_unpaid"`
	InvoiceDate       string      `json:"invoice_date"`
	DueDate           string      `json:"due_date"`
}

type wireMutation struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
}

// FetchPeriodInvoices returns sales invoices issued in [start, end].
func (c *Client) FetchPeriodInvoices(ctx context.Context, start, end time.Time) ([]connector.Invoice, error) {
	var wire []wireInvoice
	query := url.Values{
		"filter":   {periodFilter(start, end)},
		"per_page": {"100"},
	}
	if err := c.get(ctx, "sales_invoices", query, &wire); err != nil {
		return nil, &connector.RemoteFetchError{Endpoint: "sales_invoices", Err: err}
	}

	invoices := make([]connector.Invoice, 0, len(wire))
	for _, inv := range wire {
		issued, _ := time.Parse("2006-01-02", inv.InvoiceDate)
		invoices = append(invoices, connector.Invoice{
			ID:       inv.ID,
			Contact:  connector.Contact{CompanyName: inv.Contact.CompanyName, FirstName: inv.Contact.FirstName},
			Total:    money.Parse(inv.TotalPriceInclTax),
			IssuedAt: issued,
		})
	}
	return invoices, nil
}

// FetchPeriodPayments returns financial mutations registered in [start, end].
func (c *Client) FetchPeriodPayments(ctx context.Context, start, end time.Time) ([]connector.Payment, error) {
	var wire []wireMutation
	query := url.Values{
		"filter":   {periodFilter(start, end)},
		"per_page": {"100"},
	}
	if err := c.get(ctx, "financial_mutations", query, &wire); err != nil {
		return nil, &connector.RemoteFetchError{Endpoint: "financial_mutations", Err: err}
	}

	payments := make([]connector.Payment, 0, len(wire))
	for _, mut := range wire {
		payment := connector.Payment{
			ID:     mut.ID,
			Amount: money.Parse(mut.Amount),
		}
		if mut.PaymentDate != "" {
			if paidAt, err := time.Parse("2006-01-02", mut.PaymentDate); err == nil {
				payment.PaidAt = &paidAt
			}
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

// FetchOpenInvoices returns all invoices in the open state.
func (c *Client) FetchOpenInvoices(ctx context.Context) ([]connector.OpenInvoice, error) {
	var wire []wireInvoice
	query := url.Values{
		"filter":   {"state:open"},
		"per_page": {"100"},
	}
	if err := c.get(ctx, "sales_invoices", query, &wire); err != nil {
		return nil, &connector.RemoteFetchError{Endpoint: "sales_invoices", Err: err}
	}

	open := make([]connector.OpenInvoice, 0, len(wire))
	for _, inv := range wire {
		item := connector.OpenInvoice{
			ID:      inv.ID,
			Contact: connector.Contact{CompanyName: inv.Contact.CompanyName, FirstName: inv.Contact.FirstName},
			Unpaid:  money.Parse(inv.TotalUnpaid),
		}
		if inv.DueDate != "" {
			if due, err := time.Parse("2006-01-02", inv.DueDate); err == nil {
				item.DueAt = &due
			}
		}
		open = append(open, item)
	}
	return open, nil
}

// CheckCredentials verifies the token against the contacts endpoint.
func (c *Client) CheckCredentials(ctx context.Context) bool {
	query := url.Values{"per_page": {"1"}}
	var wire []json.RawMessage
	return c.get(ctx, "contacts", query, &wire) == nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	target := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.creds.AdministrationID, endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("moneybird returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func periodFilter(start, end time.Time) string {
	return fmt.Sprintf("period:%s..%s", start.Format("20060102"), end.Format("20060102"))
}
