package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/bot"
)

// RunRecord - сериализуемая запись прогона. Ключи кошельков сюда не попадают.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	Endpoint    string    `json:"endpoint"`
	StartedAt   time.Time `json:"started_at"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	Owner       string    `json:"owner"`
	Payer       string    `json:"payer"`
	SwapAccount string    `json:"swap_account"`

	Pool *PoolRecord `json:"pool,omitempty"`
	Swap *SwapRecord `json:"swap,omitempty"`
}

type PoolRecord struct {
	ProgramID       string            `json:"program_id"`
	Authority       string            `json:"authority"`
	BumpSeed        uint8             `json:"bump_seed"`
	MintA           string            `json:"mint_a"`
	MintB           string            `json:"mint_b"`
	ReserveA        string            `json:"reserve_a"`
	ReserveB        string            `json:"reserve_b"`
	PoolMint        string            `json:"pool_mint"`
	FeeAccount      string            `json:"fee_account"`
	ShareAccount    string            `json:"pool_share_account"`
	Curve           string            `json:"curve"`
	Fees            map[string]string `json:"fees"`
	OwnerFeeAddress string            `json:"owner_fee_address,omitempty"`
}

type SwapRecord struct {
	Signature         string `json:"signature"`
	AmountIn          uint64 `json:"amount_in"`
	MinAmountOut      uint64 `json:"min_amount_out"`
	AmountOut         uint64 `json:"amount_out"`
	ExpectedAmountOut uint64 `json:"expected_amount_out,omitempty"`
	UserSource        string `json:"user_source"`
	UserDestination   string `json:"user_destination"`
	HostFeeAccount    string `json:"host_fee_account"`
}

// ReportExporter пишет итог прогона в JSON-файл
type ReportExporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(outputDir string, logger *zap.Logger) *ReportExporter {
	return &ReportExporter{
		outputDir: outputDir,
		logger:    logger.Named("export"),
	}
}

// NewRunRecord собирает запись из отчета
func NewRunRecord(report *bot.Report) RunRecord {
	rec := RunRecord{
		RunID:       report.RunID,
		Endpoint:    report.Endpoint,
		StartedAt:   report.Started.UTC(),
		ElapsedMs:   report.Elapsed.Milliseconds(),
		Owner:       report.Owner.String(),
		Payer:       report.Payer.String(),
		SwapAccount: report.SwapAccount.String(),
	}

	if h := report.Pool; h != nil {
		rec.Pool = &PoolRecord{
			ProgramID:    h.ProgramID.String(),
			Authority:    h.Authority.String(),
			BumpSeed:     h.BumpSeed,
			MintA:        h.MintA.String(),
			MintB:        h.MintB.String(),
			ReserveA:     h.ReserveA.String(),
			ReserveB:     h.ReserveB.String(),
			PoolMint:     h.PoolMint.String(),
			FeeAccount:   h.FeeAccount.String(),
			ShareAccount: h.PoolShareAccount.String(),
			Curve:        h.Curve.String(),
			Fees: map[string]string{
				"trade":          h.Fees.Trade.String(),
				"owner_trade":    h.Fees.OwnerTrade.String(),
				"owner_withdraw": h.Fees.OwnerWithdraw.String(),
				"host":           h.Fees.Host.String(),
			},
		}
		if h.OwnerFeeAddress != nil {
			rec.Pool.OwnerFeeAddress = h.OwnerFeeAddress.String()
		}
	}

	if r := report.Swap; r != nil {
		rec.Swap = &SwapRecord{
			Signature:         r.Signature.String(),
			AmountIn:          r.AmountIn,
			MinAmountOut:      r.MinAmountOut,
			AmountOut:         r.AmountOut,
			ExpectedAmountOut: report.Expect,
			UserSource:        r.UserSource.String(),
			UserDestination:   r.UserDestination.String(),
			HostFeeAccount:    r.HostFeeAccount.String(),
		}
	}
	return rec
}

// ExportReport пишет run-<id>.json в каталог экспорта и возвращает путь к файлу
func (e *ReportExporter) ExportReport(report *bot.Report) (string, error) {
	// Ensure output directory exists
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(NewRunRecord(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	outputPath := filepath.Join(e.outputDir, fmt.Sprintf("run-%s.json", report.RunID))
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	e.logger.Info("Report exported", zap.String("path", outputPath))
	return outputPath, nil
}
