package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finpulse/finpulse/internal/connector"
)

// rankingSize caps the top-customer and overdue-invoice rankings.
const rankingSize = 5

// unknownCustomer labels invoices whose contact carries no usable name.
const unknownCustomer = "Onbekend"

// Aggregate computes weekly metrics from normalised connector records. Pure:
// now is the only clock input, so identical inputs yield identical metrics.
//
// Costs stay at zero until an expense data source is integrated; profit is
// therefore equal to revenue for the current connector set.
func Aggregate(invoices []connector.Invoice, payments []connector.Payment, open []connector.OpenInvoice, now time.Time) Metrics {
	m := Metrics{
		Costs:              decimal.Zero,
		Revenue:            decimal.Zero,
		OutstandingTotal:   decimal.Zero,
		OutstandingOverdue: decimal.Zero,
		InvoicesSent:       len(invoices),
	}

	for _, inv := range invoices {
		m.Revenue = m.Revenue.Add(inv.Total)
	}
	m.Profit = m.Revenue.Sub(m.Costs)

	for _, p := range payments {
		if p.PaidAt != nil {
			m.InvoicesPaid++
		}
	}

	var overdue []OverdueInvoice
	for _, inv := range open {
		m.OutstandingTotal = m.OutstandingTotal.Add(inv.Unpaid)
		if inv.DueAt == nil {
			continue
		}
		days := int(now.Sub(*inv.DueAt).Hours() / 24)
		if days <= 0 {
			continue
		}
		m.OutstandingOverdue = m.OutstandingOverdue.Add(inv.Unpaid)
		overdue = append(overdue, OverdueInvoice{
			Customer:    contactName(inv.Contact),
			Amount:      inv.Unpaid,
			DaysOverdue: days,
		})
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		if c := overdue[i].Amount.Cmp(overdue[j].Amount); c != 0 {
			return c > 0
		}
		return overdue[i].Customer < overdue[j].Customer
	})
	if len(overdue) > rankingSize {
		overdue = overdue[:rankingSize]
	}
	m.OverdueInvoices = overdue

	m.TopCustomers = rankCustomers(invoices)
	return m
}

// rankCustomers groups period invoices by contact name and returns the top
// earners in descending revenue order.
func rankCustomers(invoices []connector.Invoice) []CustomerRevenue {
	byName := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		name := contactName(inv.Contact)
		byName[name] = byName[name].Add(inv.Total)
	}

	ranking := make([]CustomerRevenue, 0, len(byName))
	for name, revenue := range byName {
		ranking = append(ranking, CustomerRevenue{Name: name, Revenue: revenue})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if c := ranking[i].Revenue.Cmp(ranking[j].Revenue); c != 0 {
			return c > 0
		}
		return ranking[i].Name < ranking[j].Name
	})
	if len(ranking) > rankingSize {
		ranking = ranking[:rankingSize]
	}
	return ranking
}

func contactName(c connector.Contact) string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	if c.FirstName != "" {
		return c.FirstName
	}
	return unknownCustomer
}
