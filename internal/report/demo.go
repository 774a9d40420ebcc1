package report

import "github.com/shopspring/decimal"

// DemoCompanyName is used by the smoke-test run.
const DemoCompanyName = "Keukenleverancier Drenthe B.V."

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DemoMetrics returns fixed demonstration data for an end-to-end pass without
// touching the customer directory or the snapshot store.
func DemoMetrics() Metrics {
	return Metrics{
		Revenue:            dec("24750.00"),
		Costs:              dec("18200.00"),
		Profit:             dec("6550.00"),
		InvoicesSent:       12,
		InvoicesPaid:       8,
		OutstandingTotal:   dec("15420.00"),
		OutstandingOverdue: dec("4200.00"),
		TopCustomers: []CustomerRevenue{
			{Name: "Familie de Vries", Revenue: dec("8500.00")},
			{Name: "Bakkerij Jansen", Revenue: dec("4200.00")},
			{Name: "Restaurant het Dorp", Revenue: dec("3800.00")},
		},
		OverdueInvoices: []OverdueInvoice{
			{Customer: "Bouwbedrijf Klaassen", Amount: dec("2800.00"), DaysOverdue: 21},
			{Customer: "Garage Pietersen", Amount: dec("1400.00"), DaysOverdue: 7},
		},
	}
}

// DemoPreviousMetrics returns the prior-week fixture paired with DemoMetrics.
func DemoPreviousMetrics() Metrics {
	return Metrics{
		Revenue:          dec("21300.00"),
		Costs:            dec("16800.00"),
		Profit:           dec("4500.00"),
		InvoicesSent:     9,
		InvoicesPaid:     11,
		OutstandingTotal: dec("12800.00"),
	}
}
