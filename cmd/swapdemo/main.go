// ====================================
// File: cmd/swapdemo/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solbc"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/bot"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/config"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/export"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/funding"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/pool"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/provision"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/spltoken"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/swap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/ui/style"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/utils/logger"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/utils/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Setup context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{Debug: cfg.DebugLogging, Pretty: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	runID := uuid.NewString()
	runLog := log.WithCorrelation("swap_demo", runID)
	runLog.Info("Starting token swap bootstrap",
		zap.String("endpoint", cfg.Endpoint()),
		zap.String("program", cfg.ProgramID().String()))

	client := solbc.NewClient(cfg.Endpoint(), runLog,
		solbc.WithCommitment(cfg.CommitmentType()),
		solbc.WithRateLimit(cfg.RPCRateLimit),
		solbc.WithConfirmTimeout(cfg.ConfirmTimeout),
	)
	collector := metrics.NewCollector()
	sender := transaction.NewSender(client, cfg.ComputeBudget(), cfg.CommitmentType(), runLog,
		transaction.WithRecorder(collector))
	factory := spltoken.NewFactory(client, sender, runLog)

	waiter := funding.NewWaiter(client, funding.Config{
		Attempts:   cfg.Funding.Attempts,
		Interval:   cfg.Funding.Interval,
		Commitment: cfg.CommitmentType(),
	}, runLog)
	provisioner := provision.NewProvisioner(factory, provision.Config{
		ProgramID:      cfg.ProgramID(),
		InitialSupplyA: cfg.InitialSupplyA,
		InitialSupplyB: cfg.InitialSupplyB,
	}, runLog)
	bootstrapper := pool.NewBootstrapper(client, factory, sender, runLog)
	executor := swap.NewExecutor(factory, client, sender, runLog)

	runner := bot.NewRunner(waiter, provisioner, bootstrapper, executor, bot.Options{
		RunID:           runID,
		Endpoint:        cfg.Endpoint(),
		FundingLamports: cfg.Funding.Lamports,
		Pool:            pool.DefaultConfig(cfg.ProgramID(), cfg.OwnerFeeRecipient()),
		AmountIn:        cfg.Swap.AmountIn,
		MinAmountOut:    cfg.Swap.MinAmountOut,
		SettleDelay:     cfg.SettleDelay,
		InitialSupplyA:  cfg.InitialSupplyA,
		InitialSupplyB:  cfg.InitialSupplyB,
	}, runLog)

	report, err := runner.Run(ctx)
	logSubmissions(runLog, collector)
	if err != nil {
		runLog.Error("Run failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, style.RenderFailure(err))
		return 1
	}

	fmt.Println(style.RenderReport(report))

	if cfg.ReportDir != "" {
		if _, err := export.NewReportExporter(cfg.ReportDir, runLog).ExportReport(report); err != nil {
			runLog.Warn("Failed to export report", zap.Error(err))
		}
	}
	return 0
}

func logSubmissions(log *zap.Logger, collector *metrics.Collector) {
	summary, err := collector.Summary()
	if err != nil {
		log.Warn("Failed to gather transaction metrics", zap.Error(err))
		return
	}
	fields := make([]zap.Field, 0, len(summary))
	for _, status := range metrics.Statuses(summary) {
		fields = append(fields, zap.Uint64(status, summary[status]))
	}
	log.Info("Transactions submitted", fields...)
}
