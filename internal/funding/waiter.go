// =============================
// File: internal/funding/waiter.go
// =============================
package funding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/domain"
)

// Значения по умолчанию для опроса баланса
const (
	DefaultAttempts = 30
	DefaultInterval = 500 * time.Millisecond
)

var errNotCredited = errors.New("credit not observed yet")

// BalanceOracle - источник баланса и airdrop'ов
type BalanceOracle interface {
	GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error)
	RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) (solana.Signature, error)
}

// Config задаёт бюджет опроса
type Config struct {
	Attempts   int
	Interval   time.Duration
	Commitment rpc.CommitmentType
}

// DefaultConfig возвращает 30 попыток с интервалом 500ms
func DefaultConfig() Config {
	return Config{
		Attempts:   DefaultAttempts,
		Interval:   DefaultInterval,
		Commitment: rpc.CommitmentConfirmed,
	}
}

// pollBudgetSlack покрывает задержку чтения баланса сверх интервалов опроса
const pollBudgetSlack = time.Minute

// pollBudget - верхняя граница времени опроса. Опрос ограничивает число попыток;
// граница лишь не даёт зависшим чтениям тянуть его бесконечно.
func (c Config) pollBudget() time.Duration {
	return time.Duration(c.Attempts)*c.Interval + pollBudgetSlack
}

// Waiter запрашивает airdrop и ждёт, пока он отразится на балансе
type Waiter struct {
	oracle BalanceOracle
	config Config
	logger *zap.Logger
}

// NewWaiter создаёт Waiter. Нулевые поля config заменяются значениями по умолчанию.
func NewWaiter(oracle BalanceOracle, config Config, logger *zap.Logger) *Waiter {
	defaults := DefaultConfig()
	if config.Attempts <= 0 {
		config.Attempts = defaults.Attempts
	}
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Commitment == "" {
		config.Commitment = defaults.Commitment
	}
	return &Waiter{
		oracle: oracle,
		config: config,
		logger: logger.Named("funding"),
	}
}

// AwaitFunding запрашивает lamports на address и опрашивает баланс, пока прирост
// относительно баланса до запроса не станет ровно lamports.
func (w *Waiter) AwaitFunding(ctx context.Context, address solana.PublicKey, lamports uint64) error {
	logger := w.logger.With(
		zap.Stringer("address", address),
		zap.Uint64("lamports", lamports))

	before, err := w.oracle.GetBalance(ctx, address, w.config.Commitment)
	if err != nil {
		return fmt.Errorf("failed to read balance before airdrop: %w", err)
	}

	sig, err := w.oracle.RequestAirdrop(ctx, address, lamports)
	if err != nil {
		return fmt.Errorf("failed to request airdrop: %w", err)
	}
	logger.Debug("Airdrop requested",
		zap.Uint64("balance_before", before),
		zap.String("signature", sig.String()))

	var (
		attempts int
		observed uint64
	)
	operation := func() (uint64, error) {
		attempts++
		balance, err := w.oracle.GetBalance(ctx, address, w.config.Commitment)
		if err != nil {
			return 0, err
		}
		observed = 0
		if balance > before {
			observed = balance - before
		}
		if observed != lamports {
			return 0, errNotCredited
		}
		return balance, nil
	}

	notify := func(err error, next time.Duration) {
		logger.Debug("Funding not confirmed yet",
			zap.Int("attempt", attempts),
			zap.Uint64("observed", observed),
			zap.Duration("next", next),
			zap.Error(err))
	}

	balance, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(w.config.Interval)),
		backoff.WithMaxTries(uint(w.config.Attempts)),
		backoff.WithMaxElapsedTime(w.config.pollBudget()),
		backoff.WithNotify(notify))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Error("Funding not confirmed",
			zap.Int("attempts", attempts),
			zap.Uint64("observed", observed))
		timeoutErr := &domain.FundingTimeoutError{
			Address:   address,
			Requested: lamports,
			Observed:  observed,
			Attempts:  attempts,
		}
		if !errors.Is(err, errNotCredited) {
			timeoutErr.Err = err
		}
		return timeoutErr
	}

	logger.Info("Funding confirmed",
		zap.Int("attempts", attempts),
		zap.Uint64("balance", balance))
	return nil
}
