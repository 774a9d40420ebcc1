package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finpulse/finpulse/internal/app"
	"github.com/finpulse/finpulse/internal/connector"
	"github.com/finpulse/finpulse/internal/connector/moneybird"
	"github.com/finpulse/finpulse/internal/mail"
	"github.com/finpulse/finpulse/internal/narrative"
	"github.com/finpulse/finpulse/internal/platform/db"
	"github.com/finpulse/finpulse/internal/report"
	"github.com/finpulse/finpulse/internal/view"
)

func main() {
	runReports := flag.Bool("run-reports", false, "generate and send reports for all active customers")
	demo := flag.Bool("demo", false, "run a single pass against fixed demonstration data")
	flag.Parse()

	if *runReports == *demo {
		fmt.Println("FinPulse weekrapportage")
		fmt.Println("Usage:")
		fmt.Println("  finpulse -demo         Run a smoke test with demo data")
		fmt.Println("  finpulse -run-reports  Generate reports for all active customers")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if *demo {
		if err := runDemo(ctx, cfg, logger); err != nil {
			logger.Error("demo run", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := runBatch(ctx, cfg, logger); err != nil {
		logger.Error("batch run", slog.Any("error", err))
		os.Exit(1)
	}
}

// runBatch generates reports for every active customer and prints the tally.
func runBatch(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	registry := connector.NewRegistry()
	registry.Register(moneybird.System, moneybird.Factory(cfg.MoneybirdBaseURL, cfg.ConnectorTimeout))

	engine, err := view.NewEngine()
	if err != nil {
		return err
	}

	repo := report.NewRepository(pool)
	service := report.NewService(report.Deps{
		Directory:  repo,
		Store:      repo,
		Connectors: registry,
		Narrator:   narrative.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel),
		Renderer:   engine,
		Sender:     mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.FromEmail, logger),
		Logger:     logger,
	})

	summary, err := service.RunAll(ctx)
	if err != nil {
		return err
	}

	for _, outcome := range summary.Outcomes {
		switch {
		case outcome.Success && outcome.Sent:
			fmt.Printf("ok   %s: report sent\n", outcome.Company)
		case outcome.Success:
			fmt.Printf("ok   %s: report generated, delivery failed\n", outcome.Company)
		default:
			fmt.Printf("fail %s: %s\n", outcome.Company, outcome.Reason)
		}
	}
	fmt.Printf("done: %d/%d reports generated, %d delivered\n", summary.Succeeded, summary.Attempted, summary.Sent)
	return nil
}

// runDemo produces a narrative from fixed demonstration data without touching
// the customer directory or the snapshot store. When TEST_EMAIL is set the
// rendered report is also delivered there.
func runDemo(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	narrator := narrative.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel)
	engine, err := view.NewEngine()
	if err != nil {
		return err
	}

	period := report.LastCompleteWeek(time.Now())
	current := report.DemoMetrics()
	previous := report.DemoPreviousMetrics()

	analysis, err := narrator.Summarize(ctx, report.NarrativeRequest{
		CompanyName: report.DemoCompanyName,
		Period:      period,
		Current:     current,
		Previous:    &previous,
	})
	if err != nil {
		return err
	}

	fmt.Println("Generated analysis:")
	fmt.Println("----------------------------------------")
	fmt.Println(analysis)
	fmt.Println("----------------------------------------")

	if cfg.TestEmail == "" {
		fmt.Println("Set TEST_EMAIL to receive the rendered report by email.")
		return nil
	}

	body, err := engine.Render(current, analysis, report.DemoCompanyName, period)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Weekrapport %s | %s", report.DemoCompanyName, period.Label())
	mailer := mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.FromEmail, logger)
	if mailer.Send(ctx, cfg.TestEmail, subject, body) {
		fmt.Printf("test report sent to %s\n", cfg.TestEmail)
	} else {
		fmt.Println("test report delivery failed")
	}
	return nil
}
