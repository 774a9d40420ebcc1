package narrative

import (
	"fmt"
	"strings"

	"github.com/finpulse/finpulse/internal/money"
	"github.com/finpulse/finpulse/internal/report"
)

// promptCustomers caps the customer ranking included in the prompt.
const promptCustomers = 3

// promptOverdue caps the overdue list included in the prompt.
const promptOverdue = 5

const systemPrompt = `Je bent een financieel analist voor MKB-bedrijven in Nederland.
Je schrijft wekelijkse rapportages die:
- Direct en to-the-point zijn
- Concrete cijfers benoemen
- Vergelijkingen maken met vorige periodes
- Actionable inzichten geven
- Risico's signaleren waar nodig

Schrijf in het Nederlands, zakelijk maar toegankelijk.
Gebruik geen emoji's.
Structureer met korte paragrafen, geen bullet points in de hoofdtekst.
Eindig altijd met 1-2 concrete aanbevelingen.

Houd de analyse beknopt: maximaal 250 woorden.`

// BuildPrompt renders the user prompt for one report. When req.Previous is
// set the prompt carries the prior-week block and asks for week-over-week
// deltas; without it the narration covers a single period.
func BuildPrompt(req report.NarrativeRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Schrijf een weekrapportage voor %s.\n", req.CompanyName)
	fmt.Fprintf(&b, "Periode: %s\n\n", req.Period.Label())

	cur := req.Current
	b.WriteString("DEZE WEEK:\n")
	fmt.Fprintf(&b, "- Omzet: %s\n", money.FormatEUR(cur.Revenue))
	fmt.Fprintf(&b, "- Kosten: %s\n", money.FormatEUR(cur.Costs))
	fmt.Fprintf(&b, "- Winst: %s\n", money.FormatEUR(cur.Profit))
	fmt.Fprintf(&b, "- Facturen verzonden: %d\n", cur.InvoicesSent)
	fmt.Fprintf(&b, "- Facturen betaald: %d\n", cur.InvoicesPaid)
	fmt.Fprintf(&b, "- Openstaand totaal: %s\n", money.FormatEUR(cur.OutstandingTotal))
	fmt.Fprintf(&b, "- Waarvan verlopen: %s\n", money.FormatEUR(cur.OutstandingOverdue))

	if len(cur.TopCustomers) > 0 {
		b.WriteString("\nTop klanten deze week:\n")
		for i, c := range cur.TopCustomers {
			if i == promptCustomers {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, money.FormatEUR(c.Revenue))
		}
	}

	if len(cur.OverdueInvoices) > 0 {
		b.WriteString("\nVerlopen facturen:\n")
		for i, inv := range cur.OverdueInvoices {
			if i == promptOverdue {
				break
			}
			fmt.Fprintf(&b, "- %s: %s (%d dagen)\n", inv.Customer, money.FormatEUR(inv.Amount), inv.DaysOverdue)
		}
	}

	if prev := req.Previous; prev != nil {
		b.WriteString("\nVORIGE WEEK:\n")
		fmt.Fprintf(&b, "- Omzet: %s\n", money.FormatEUR(prev.Revenue))
		fmt.Fprintf(&b, "- Kosten: %s\n", money.FormatEUR(prev.Costs))
		fmt.Fprintf(&b, "- Winst: %s\n", money.FormatEUR(prev.Profit))
		fmt.Fprintf(&b, "- Openstaand: %s\n", money.FormatEUR(prev.OutstandingTotal))
		b.WriteString("\nBereken en benoem de week-over-week veranderingen.")
	}

	return b.String()
}
