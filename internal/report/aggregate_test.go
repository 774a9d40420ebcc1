package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finpulse/finpulse/internal/connector"
)

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func daysAgo(now time.Time, days int) *time.Time {
	d := now.AddDate(0, 0, -days)
	return &d
}

func TestAggregateRevenueAndProfit(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	invoices := []connector.Invoice{
		{ID: "1", Contact: connector.Contact{CompanyName: "Bakkerij Jansen"}, Total: dec("1200.50")},
		{ID: "2", Contact: connector.Contact{CompanyName: "Bakkerij Jansen"}, Total: dec("799.50")},
		{ID: "3", Contact: connector.Contact{CompanyName: "Garage Pietersen"}, Total: dec("300.00")},
	}

	m := Aggregate(invoices, nil, nil, now)

	requireDec(t, "2300.00", m.Revenue)
	requireDec(t, "0", m.Costs)
	requireDec(t, "2300.00", m.Profit)
	require.Equal(t, 3, m.InvoicesSent)
	require.Equal(t, 0, m.InvoicesPaid)
}

func TestAggregateCountsOnlyActualPayments(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	paid := now.AddDate(0, 0, -2)
	payments := []connector.Payment{
		{ID: "p1", Amount: dec("100.00"), PaidAt: &paid},
		{ID: "p2", Amount: dec("50.00"), PaidAt: nil},
		{ID: "p3", Amount: dec("75.00"), PaidAt: &paid},
	}

	m := Aggregate(nil, payments, nil, now)

	require.Equal(t, 2, m.InvoicesPaid)
}

func TestAggregateOverdueInvoices(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)
	open := []connector.OpenInvoice{
		{ID: "o1", Contact: connector.Contact{CompanyName: "Bouwbedrijf Klaassen"}, Unpaid: dec("500.00"), DueAt: daysAgo(now, 10)},
		{ID: "o2", Contact: connector.Contact{CompanyName: "Garage Pietersen"}, Unpaid: dec("250.00"), DueAt: &tomorrow},
		{ID: "o3", Contact: connector.Contact{CompanyName: "Restaurant het Dorp"}, Unpaid: dec("100.00"), DueAt: nil},
	}

	m := Aggregate(nil, nil, open, now)

	requireDec(t, "850.00", m.OutstandingTotal)
	requireDec(t, "500.00", m.OutstandingOverdue)
	require.Len(t, m.OverdueInvoices, 1)
	require.Equal(t, "Bouwbedrijf Klaassen", m.OverdueInvoices[0].Customer)
	requireDec(t, "500.00", m.OverdueInvoices[0].Amount)
	require.Equal(t, 10, m.OverdueInvoices[0].DaysOverdue)
}

func TestAggregateDueTodayIsNotOverdue(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	due := now
	open := []connector.OpenInvoice{
		{ID: "o1", Contact: connector.Contact{CompanyName: "Bakkerij Jansen"}, Unpaid: dec("400.00"), DueAt: &due},
	}

	m := Aggregate(nil, nil, open, now)

	requireDec(t, "400.00", m.OutstandingTotal)
	requireDec(t, "0", m.OutstandingOverdue)
	require.Empty(t, m.OverdueInvoices)
}

func TestAggregateOverdueSumCoversMoreThanTopFive(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	var open []connector.OpenInvoice
	for i := 1; i <= 7; i++ {
		open = append(open, connector.OpenInvoice{
			ID:      fmt.Sprintf("o%d", i),
			Contact: connector.Contact{CompanyName: fmt.Sprintf("Klant %d", i)},
			Unpaid:  dec(fmt.Sprintf("%d.00", i*100)),
			DueAt:   daysAgo(now, i),
		})
	}

	m := Aggregate(nil, nil, open, now)

	// The ranking is capped at five but the overdue sum covers all seven.
	require.Len(t, m.OverdueInvoices, 5)
	requireDec(t, "2800.00", m.OutstandingOverdue)
	requireDec(t, "700.00", m.OverdueInvoices[0].Amount)
	requireDec(t, "300.00", m.OverdueInvoices[4].Amount)
	require.True(t, m.OutstandingOverdue.LessThanOrEqual(m.OutstandingTotal))
}

func TestAggregateTopCustomersRanking(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	var invoices []connector.Invoice
	for i := 1; i <= 6; i++ {
		invoices = append(invoices, connector.Invoice{
			ID:      fmt.Sprintf("i%d", i),
			Contact: connector.Contact{CompanyName: fmt.Sprintf("Klant %d", i)},
			Total:   dec(fmt.Sprintf("%d.00", i*1000)),
		})
	}
	// Same contact twice; revenue groups per customer.
	invoices = append(invoices, connector.Invoice{
		ID:      "i7",
		Contact: connector.Contact{CompanyName: "Klant 6"},
		Total:   dec("500.00"),
	})

	m := Aggregate(invoices, nil, nil, now)

	require.Len(t, m.TopCustomers, 5)
	require.Equal(t, "Klant 6", m.TopCustomers[0].Name)
	requireDec(t, "6500.00", m.TopCustomers[0].Revenue)
	require.Equal(t, "Klant 2", m.TopCustomers[4].Name)
}

func TestAggregateRankingTieBreaksOnName(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	invoices := []connector.Invoice{
		{ID: "1", Contact: connector.Contact{CompanyName: "Zomer B.V."}, Total: dec("100.00")},
		{ID: "2", Contact: connector.Contact{CompanyName: "Appel B.V."}, Total: dec("100.00")},
	}

	m := Aggregate(invoices, nil, nil, now)

	require.Equal(t, "Appel B.V.", m.TopCustomers[0].Name)
	require.Equal(t, "Zomer B.V.", m.TopCustomers[1].Name)
}

func TestAggregateContactNameFallback(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	invoices := []connector.Invoice{
		{ID: "1", Contact: connector.Contact{CompanyName: "Bakkerij Jansen", FirstName: "Jan"}, Total: dec("10.00")},
		{ID: "2", Contact: connector.Contact{FirstName: "Piet"}, Total: dec("20.00")},
		{ID: "3", Contact: connector.Contact{}, Total: dec("30.00")},
	}

	m := Aggregate(invoices, nil, nil, now)

	require.Equal(t, "Onbekend", m.TopCustomers[0].Name)
	require.Equal(t, "Piet", m.TopCustomers[1].Name)
	require.Equal(t, "Bakkerij Jansen", m.TopCustomers[2].Name)
}

func TestAggregateIsDeterministic(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	invoices := []connector.Invoice{
		{ID: "1", Contact: connector.Contact{CompanyName: "Bakkerij Jansen"}, Total: dec("100.00")},
		{ID: "2", Contact: connector.Contact{CompanyName: "Garage Pietersen"}, Total: dec("100.00")},
		{ID: "3", Contact: connector.Contact{CompanyName: "Restaurant het Dorp"}, Total: dec("50.00")},
	}
	open := []connector.OpenInvoice{
		{ID: "o1", Contact: connector.Contact{CompanyName: "Bouwbedrijf Klaassen"}, Unpaid: dec("300.00"), DueAt: daysAgo(now, 5)},
		{ID: "o2", Contact: connector.Contact{CompanyName: "Garage Pietersen"}, Unpaid: dec("300.00"), DueAt: daysAgo(now, 3)},
	}

	first := Aggregate(invoices, nil, open, now)
	second := Aggregate(invoices, nil, open, now)

	require.Equal(t, first, second)
}

func TestAggregateEmptyInput(t *testing.T) {
	now := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)

	m := Aggregate(nil, nil, nil, now)

	requireDec(t, "0", m.Revenue)
	requireDec(t, "0", m.Profit)
	requireDec(t, "0", m.OutstandingTotal)
	require.Equal(t, 0, m.InvoicesSent)
	require.Equal(t, 0, m.InvoicesPaid)
	require.Empty(t, m.TopCustomers)
	require.Empty(t, m.OverdueInvoices)
}
