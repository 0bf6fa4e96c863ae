package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/bot"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/pool"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/swap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

func testReport() *bot.Report {
	cfg := pool.DefaultConfig(solana.NewWallet().PublicKey(), nil)
	owner := wallet.MustGenerate()
	return &bot.Report{
		RunID:   "run-7",
		Owner:   owner.PublicKey,
		Started: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Elapsed: 1500 * time.Millisecond,
		Pool: &pool.Handle{
			ProgramID: cfg.ProgramID,
			PoolMint:  solana.NewWallet().PublicKey(),
			Fees:      cfg.Fees,
			Curve:     cfg.Curve,
			Owner:     owner,
		},
		Swap: &swap.Receipt{
			AmountIn:     100_000,
			MinAmountOut: swap.ExpectedAmountOutWithoutOwnerFee,
			AmountOut:    swap.ExpectedAmountOutWithoutOwnerFee,
		},
		Expect: swap.ExpectedAmountOutWithoutOwnerFee,
	}
}

func TestExportReportWritesJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := testReport()

	path, err := NewReportExporter(dir, zap.NewNop()).ExportReport(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-run-7.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec RunRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "run-7", rec.RunID)
	assert.Equal(t, int64(1500), rec.ElapsedMs)
	assert.Equal(t, report.Owner.String(), rec.Owner)
	require.NotNil(t, rec.Pool)
	assert.Equal(t, "1/6", rec.Pool.Fees["owner_withdraw"])
	assert.Equal(t, "constant_price(1)", rec.Pool.Curve)
	assert.Empty(t, rec.Pool.OwnerFeeAddress)
	require.NotNil(t, rec.Swap)
	assert.Equal(t, swap.ExpectedAmountOutWithoutOwnerFee, rec.Swap.AmountOut)
}

func TestExportReportOmitsPrivateKeys(t *testing.T) {
	report := testReport()
	path, err := NewReportExporter(t.TempDir(), zap.NewNop()).ExportReport(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), report.Pool.Owner.PrivateKey.String())
}

func TestNewRunRecordWithoutPool(t *testing.T) {
	rec := NewRunRecord(&bot.Report{RunID: "partial"})
	assert.Nil(t, rec.Pool)
	assert.Nil(t, rec.Swap)
}
