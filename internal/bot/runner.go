// internal/bot/runner.go
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/pool"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/provision"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/swap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

type FundingWaiter interface {
	AwaitFunding(ctx context.Context, address solana.PublicKey, lamports uint64) error
}

type AccountProvisioner interface {
	ProvisionAccounts(ctx context.Context, owner *wallet.Wallet, swapAccount solana.PublicKey) (*provision.Accounts, error)
}

type PoolBootstrapper interface {
	BootstrapPool(ctx context.Context, cfg pool.Config, accounts *provision.Accounts, owner, payer, swapAccount *wallet.Wallet) (*pool.Handle, error)
}

type SwapExecutor interface {
	ExecuteSwap(ctx context.Context, handle *pool.Handle, user *wallet.Wallet, amountIn, minAmountOut uint64) (*swap.Receipt, error)
}

// Options - параметры одного прогона
type Options struct {
	RunID           string
	Endpoint        string
	FundingLamports uint64
	Pool            pool.Config
	AmountIn        uint64
	MinAmountOut    uint64 // 0 - ожидаемый выход, только для сценария по умолчанию
	SettleDelay     time.Duration

	// ликвидность резервов; 0 - значение провижинера по умолчанию
	InitialSupplyA uint64
	InitialSupplyB uint64
}

// defaultScenario сообщает, известен ли ожидаемый выход обмена заранее:
// он посчитан для amount_in 100_000 против резервов 1_000_000/1_000_000.
func (o Options) defaultScenario() bool {
	return o.AmountIn == swap.DefaultAmountIn &&
		defaultSupply(o.InitialSupplyA) && defaultSupply(o.InitialSupplyB)
}

func defaultSupply(supply uint64) bool {
	return supply == 0 || supply == provision.DefaultInitialSupply
}

func (o Options) validate() error {
	if o.MinAmountOut > o.AmountIn {
		return fmt.Errorf("minimum out %d exceeds amount in %d", o.MinAmountOut, o.AmountIn)
	}
	if o.MinAmountOut == 0 && !o.defaultScenario() {
		return fmt.Errorf("minimum out must be set explicitly for amount in %d", o.AmountIn)
	}
	return nil
}

// Report - итог успешного прогона
type Report struct {
	RunID    string
	Endpoint string

	Owner       solana.PublicKey
	Payer       solana.PublicKey
	SwapAccount solana.PublicKey

	Pool    *pool.Handle
	Swap    *swap.Receipt
	Expect  uint64 // 0, если ожидаемый выход заранее неизвестен
	Started time.Time
	Elapsed time.Duration
}

// Runner проводит прогон от начала до конца: фандинг, аккаунты, пул, своп.
type Runner struct {
	funding     FundingWaiter
	provisioner AccountProvisioner
	pools       PoolBootstrapper
	swaps       SwapExecutor
	opts        Options
	logger      *zap.Logger

	sleep    func(ctx context.Context, d time.Duration) error
	identity func() (*wallet.Wallet, error)
}

// NewRunner NewRunner: принимает компоненты, параметры и логгер
func NewRunner(
	funding FundingWaiter,
	provisioner AccountProvisioner,
	pools PoolBootstrapper,
	swaps SwapExecutor,
	opts Options,
	logger *zap.Logger,
) *Runner {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Runner{
		funding:     funding,
		provisioner: provisioner,
		pools:       pools,
		swaps:       swaps,
		opts:        opts,
		logger:      logger.Named("runner"),
		sleep:       sleepContext,
		identity:    wallet.Generate,
	}
}

// Run выполняет все этапы по порядку. Первая ошибка прерывает прогон и
// возвращается без изменений, чтобы вызывающий мог разобрать её через errors.As.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.opts.validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	report := &Report{RunID: r.opts.RunID, Endpoint: r.opts.Endpoint, Started: started}

	owner, err := r.identity()
	if err != nil {
		return nil, fmt.Errorf("generate owner: %w", err)
	}
	payer, err := r.identity()
	if err != nil {
		return nil, fmt.Errorf("generate payer: %w", err)
	}
	report.Owner, report.Payer = owner.PublicKey, payer.PublicKey
	r.logger.Info("🔑 Identities generated",
		zap.String("owner", owner.String()),
		zap.String("payer", payer.String()))

	for _, w := range []*wallet.Wallet{owner, payer} {
		if err := r.funding.AwaitFunding(ctx, w.PublicKey, r.opts.FundingLamports); err != nil {
			return nil, err
		}
	}

	swapAccount, err := r.identity()
	if err != nil {
		return nil, fmt.Errorf("generate swap account: %w", err)
	}
	report.SwapAccount = swapAccount.PublicKey

	accounts, err := r.provisioner.ProvisionAccounts(ctx, owner, swapAccount.PublicKey)
	if err != nil {
		return nil, err
	}

	handle, err := r.pools.BootstrapPool(ctx, r.opts.Pool, accounts, owner, payer, swapAccount)
	if err != nil {
		return nil, err
	}
	report.Pool = handle

	if err := r.sleep(ctx, r.opts.SettleDelay); err != nil {
		return nil, err
	}

	if r.opts.defaultScenario() {
		report.Expect = swap.ExpectedAmountOut(handle.OwnerFeeAddress)
	}
	minOut := r.opts.MinAmountOut
	if minOut == 0 {
		minOut = report.Expect
	}

	receipt, err := r.swaps.ExecuteSwap(ctx, handle, owner, r.opts.AmountIn, minOut)
	if err != nil {
		return nil, err
	}
	report.Swap = receipt

	if err := r.sleep(ctx, r.opts.SettleDelay); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(started)
	r.logger.Info("✅ Run completed",
		zap.String("pool", handle.SwapAccount.String()),
		zap.Uint64("amount_out", receipt.AmountOut),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
