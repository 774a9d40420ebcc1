package view

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/finpulse/finpulse/internal/money"
	"github.com/finpulse/finpulse/internal/report"
	"github.com/finpulse/finpulse/web"
)

// Engine renders the weekly report email body.
type Engine struct {
	templates *template.Template
}

// emailData is the view model for the report template.
type emailData struct {
	CompanyName        string
	WeekPeriod         string
	Revenue            string
	Costs              string
	Profit             string
	InvoicesSent       int
	InvoicesPaid       int
	Outstanding        string
	OutstandingOverdue string
	AnalysisParagraphs []string
	Year               int
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	tpl, err := template.ParseFS(web.Templates, "templates/email/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render produces the HTML body for one report. Pure: its output depends only
// on the arguments.
func (e *Engine) Render(m report.Metrics, narrative, companyName string, period report.Period) (string, error) {
	data := emailData{
		CompanyName:        companyName,
		WeekPeriod:         period.Label(),
		Revenue:            money.FormatEUR(m.Revenue),
		Costs:              money.FormatEUR(m.Costs),
		Profit:             money.FormatEUR(m.Profit),
		InvoicesSent:       m.InvoicesSent,
		InvoicesPaid:       m.InvoicesPaid,
		Outstanding:        money.FormatEUR(m.OutstandingTotal),
		OutstandingOverdue: money.FormatEUR(m.OutstandingOverdue),
		AnalysisParagraphs: paragraphs(narrative),
		Year:               period.End.Year(),
	}

	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, "report.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// paragraphs splits narrative text on blank lines for the template body.
func paragraphs(narrative string) []string {
	var out []string
	for _, block := range strings.Split(narrative, "\n\n") {
		block = strings.TrimSpace(strings.ReplaceAll(block, "\r\n", "\n"))
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
