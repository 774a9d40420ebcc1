package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/finpulse/finpulse/internal/connector"
)

// Directory lists the customers a batch covers. Owned by the provisioning
// system; read-only here.
type Directory interface {
	ListActive(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
}

// Store persists snapshots and report records.
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) (uuid.UUID, error)
	MostRecentSnapshot(ctx context.Context, customerID uuid.UUID) (*Snapshot, error)
	SaveReport(ctx context.Context, record *Record) (uuid.UUID, error)
}

// Connectors resolves a connector for a customer's accounting system.
type Connectors interface {
	For(system string, credentials map[string]string) (connector.Connector, error)
}

// NarrativeRequest carries the facts the narrative service needs. Previous is
// nil when no prior snapshot exists; the narration then runs in single-period
// mode without comparison language.
type NarrativeRequest struct {
	CompanyName string
	Period      Period
	Current     Metrics
	Previous    *Metrics
}

// Narrator produces the natural-language summary.
type Narrator interface {
	Summarize(ctx context.Context, req NarrativeRequest) (string, error)
}

// Renderer produces the email body. Pure; no I/O.
type Renderer interface {
	Render(m Metrics, narrative, companyName string, period Period) (string, error)
}

// Sender delivers the rendered report. Failure is a boolean, never an error;
// an unsent report is recorded, not retried.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) bool
}

// Deps collects the collaborators driving one report run.
type Deps struct {
	Directory  Directory
	Store      Store
	Connectors Connectors
	Narrator   Narrator
	Renderer   Renderer
	Sender     Sender
	Logger     *slog.Logger
	Now        func() time.Time
}

// Service orchestrates report generation per customer and runs batches.
type Service struct {
	directory  Directory
	store      Store
	connectors Connectors
	narrator   Narrator
	renderer   Renderer
	sender     Sender
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds a Service instance.
func NewService(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		directory:  deps.Directory,
		store:      deps.Store,
		connectors: deps.Connectors,
		narrator:   deps.Narrator,
		renderer:   deps.Renderer,
		sender:     deps.Sender,
		logger:     logger,
		now:        now,
	}
}

// RunCustomer drives one customer through the full stage sequence: resolve
// period, fetch, aggregate, load prior snapshot, persist snapshot, narrate,
// deliver, log. A fetch failure ends the run before anything is persisted; a
// narration failure leaves the snapshot in place without a report record; a
// delivery failure still produces a report record with Sent=false.
func (s *Service) RunCustomer(ctx context.Context, customer Customer) Outcome {
	outcome := Outcome{CustomerID: customer.ID, Company: customer.CompanyName}
	now := s.now()
	period := LastCompleteWeek(now)

	log := s.logger.With(
		slog.String("customer_id", customer.ID.String()),
		slog.String("company", customer.CompanyName),
		slog.String("week_start", period.Start.Format("2006-01-02")),
		slog.String("week_end", period.End.Format("2006-01-02")),
	)
	log.Info("generating report")

	conn, err := s.connectors.For(customer.AccountingSystem, customer.Credentials)
	if err != nil {
		log.Warn("connector unavailable", slog.String("system", customer.AccountingSystem), slog.Any("error", err))
		outcome.Reason = err.Error()
		return outcome
	}

	invoices, payments, open, err := fetchRecords(ctx, conn, period)
	if err != nil {
		log.Warn("fetch failed", slog.Any("error", err))
		outcome.Reason = err.Error()
		return outcome
	}

	metrics := Aggregate(invoices, payments, open, now)

	var previous *Metrics
	prior, err := s.store.MostRecentSnapshot(ctx, customer.ID)
	switch {
	case err == nil:
		previous = &prior.Metrics
	case errors.Is(err, ErrNotFound):
		// first run for this customer, single-period narration
	default:
		log.Error("load prior snapshot", slog.Any("error", err))
		outcome.Reason = fmt.Sprintf("load prior snapshot: %v", err)
		return outcome
	}

	snapshot := &Snapshot{CustomerID: customer.ID, Period: period, Metrics: metrics}
	if _, err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		log.Error("persist snapshot", slog.Any("error", err))
		outcome.Reason = fmt.Sprintf("persist snapshot: %v", err)
		return outcome
	}

	narrative, err := s.narrator.Summarize(ctx, NarrativeRequest{
		CompanyName: customer.CompanyName,
		Period:      period,
		Current:     metrics,
		Previous:    previous,
	})
	if err != nil {
		log.Warn("narration failed", slog.Any("error", err))
		outcome.Reason = fmt.Sprintf("narration: %v", err)
		return outcome
	}

	sent := false
	body, err := s.renderer.Render(metrics, narrative, customer.CompanyName, period)
	if err != nil {
		log.Error("render body", slog.Any("error", err))
	} else {
		subject := fmt.Sprintf("Weekrapport %s | %s", customer.CompanyName, period.Label())
		sent = s.sender.Send(ctx, customer.Email, subject, body)
		if !sent {
			log.Warn("delivery failed", slog.String("to", customer.Email))
		}
	}

	record := &Record{
		CustomerID: customer.ID,
		SnapshotID: snapshot.ID,
		Narrative:  narrative,
		Sent:       sent,
	}
	if _, err := s.store.SaveReport(ctx, record); err != nil {
		log.Error("persist report record", slog.Any("error", err))
		outcome.Reason = fmt.Sprintf("persist report record: %v", err)
		return outcome
	}

	outcome.Success = true
	outcome.Sent = sent
	if sent {
		log.Info("report sent", slog.String("to", customer.Email))
	} else {
		log.Warn("report generated but not delivered")
	}
	return outcome
}

// fetchRecords pulls the three endpoints concurrently; the first failure
// cancels the others and fails the whole stage.
func fetchRecords(ctx context.Context, conn connector.Connector, period Period) ([]connector.Invoice, []connector.Payment, []connector.OpenInvoice, error) {
	var (
		invoices []connector.Invoice
		payments []connector.Payment
		open     []connector.OpenInvoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = conn.FetchPeriodInvoices(gctx, period.Start, period.End)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = conn.FetchPeriodPayments(gctx, period.Start, period.End)
		return err
	})
	g.Go(func() error {
		var err error
		open, err = conn.FetchOpenInvoices(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return invoices, payments, open, nil
}

// RunAll iterates all active customers sequentially, isolating per-customer
// failures. The batch itself never aborts early; the returned error only
// reflects a failure to list the customers at all.
func (s *Service) RunAll(ctx context.Context) (Summary, error) {
	customers, err := s.directory.ListActive(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("report: list active customers: %w", err)
	}

	summary := Summary{Attempted: len(customers)}
	s.logger.Info("starting batch", slog.Int("customers", len(customers)))

	for _, customer := range customers {
		outcome := s.runIsolated(ctx, customer)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Success {
			summary.Succeeded++
			if outcome.Sent {
				summary.Sent++
			}
		} else {
			summary.Failures = append(summary.Failures, Failure{
				CustomerID: outcome.CustomerID,
				Reason:     outcome.Reason,
			})
		}
	}

	s.logger.Info("batch finished",
		slog.Int("attempted", summary.Attempted),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", len(summary.Failures)),
	)
	return summary, nil
}

// runIsolated shields the batch from anything a single customer's run throws,
// including programming errors surfacing as panics.
func (s *Service) runIsolated(ctx context.Context, customer Customer) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("customer run panicked",
				slog.String("customer_id", customer.ID.String()),
				slog.Any("panic", r),
			)
			outcome = Outcome{
				CustomerID: customer.ID,
				Company:    customer.CompanyName,
				Reason:     fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return s.RunCustomer(ctx, customer)
}
