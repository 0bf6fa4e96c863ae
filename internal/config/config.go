// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
)

type FundingConfig struct {
	Lamports uint64        `mapstructure:"lamports"`
	Attempts int           `mapstructure:"attempts"`
	Interval time.Duration `mapstructure:"interval"`
}

type SwapConfig struct {
	AmountIn     uint64 `mapstructure:"amount_in"`
	MinAmountOut uint64 `mapstructure:"min_amount_out"` // 0 - ожидаемое значение
}

type Config struct {
	Network          string        `mapstructure:"network"`
	RPCURL           string        `mapstructure:"rpc_url"`
	Commitment       string        `mapstructure:"commitment"`
	RPCRateLimit     float64       `mapstructure:"rpc_rate_limit"`
	SwapProgramID    string        `mapstructure:"swap_program_id"`
	OwnerFeeAddress  string        `mapstructure:"owner_fee_address"`
	Funding          FundingConfig `mapstructure:"funding"`
	InitialSupplyA   uint64        `mapstructure:"initial_supply_a"`
	InitialSupplyB   uint64        `mapstructure:"initial_supply_b"`
	Swap             SwapConfig    `mapstructure:"swap"`
	SettleDelay      time.Duration `mapstructure:"settle_delay"`
	ComputeUnitLimit uint32        `mapstructure:"compute_unit_limit"`
	ComputeUnitPrice uint64        `mapstructure:"compute_unit_price"`
	ConfirmTimeout   time.Duration `mapstructure:"confirm_timeout"`
	DebugLogging     bool          `mapstructure:"debug_logging"`
	ReportDir        string        `mapstructure:"report_dir"` // пусто - отчет не сохраняется

	programID       solana.PublicKey
	ownerFeeAddress *solana.PublicKey
}

const (
	NetworkDevnet   = "devnet"
	NetworkLocalnet = "localnet"

	EnvPrefix     = "SWAPDEMO"
	EnvConfigPath = "SWAPDEMO_CONFIG"
	DefaultPath   = "configs/config.yaml"

	DefaultOwnerFeeAddress = "HfoTxFR1Tm6kGmWgYWD6J7YHVy1UwqSULUGVLXkJqaKN"
	DefaultFundingLamports = 10 * solana.LAMPORTS_PER_SOL
	DefaultFundingAttempts = 30
	DefaultFundingInterval = 500 * time.Millisecond
	DefaultInitialSupply   = 1_000_000
	DefaultAmountIn        = 100_000
	DefaultSettleDelay     = time.Second
	DefaultConfirmTimeout  = 30 * time.Second
	DefaultRPCRateLimit    = 10
)

// Path возвращает путь к конфигу из окружения или путь по умолчанию
func Path() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	return DefaultPath
}

// LoadConfig читает конфиг. Отсутствующий файл означает значения по умолчанию;
// переменные SWAPDEMO_* переопределяют и файл, и значения по умолчанию.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"network":             NetworkDevnet,
		"rpc_url":             "",
		"commitment":          string(rpc.CommitmentConfirmed),
		"rpc_rate_limit":      DefaultRPCRateLimit,
		"swap_program_id":     tokenswap.DefaultProgramAddress,
		"owner_fee_address":   DefaultOwnerFeeAddress,
		"funding.lamports":    DefaultFundingLamports,
		"funding.attempts":    DefaultFundingAttempts,
		"funding.interval":    DefaultFundingInterval,
		"initial_supply_a":    DefaultInitialSupply,
		"initial_supply_b":    DefaultInitialSupply,
		"swap.amount_in":      DefaultAmountIn,
		"swap.min_amount_out": 0,
		"settle_delay":        DefaultSettleDelay,
		"compute_unit_limit":  0,
		"compute_unit_price":  0,
		"confirm_timeout":     DefaultConfirmTimeout,
		"debug_logging":       false,
		"report_dir":          "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, validateConfig(&cfg)
}

// Endpoint возвращает RPC endpoint: rpc_url или адрес выбранной сети
func (c *Config) Endpoint() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	if c.Network == NetworkLocalnet {
		return rpc.LocalNet.RPC
	}
	return rpc.DevNet.RPC
}

func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

func (c *Config) ProgramID() solana.PublicKey {
	return c.programID
}

// OwnerFeeRecipient возвращает nil, если получатель комиссий владельца не задан
func (c *Config) OwnerFeeRecipient() *solana.PublicKey {
	return c.ownerFeeAddress
}

func (c *Config) ComputeBudget() computebudget.Config {
	return computebudget.Config{Units: c.ComputeUnitLimit, UnitPrice: c.ComputeUnitPrice}
}

func validateConfig(cfg *Config) error {
	switch cfg.Network {
	case NetworkDevnet, NetworkLocalnet:
	default:
		return fmt.Errorf("unknown network %q (expected %s or %s)", cfg.Network, NetworkDevnet, NetworkLocalnet)
	}
	if cfg.RPCURL != "" {
		if err := validateURLWithCache(cfg.RPCURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	switch cfg.CommitmentType() {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}

	programID, err := solana.PublicKeyFromBase58(cfg.SwapProgramID)
	if err != nil {
		return fmt.Errorf("invalid swap_program_id: %w", err)
	}
	cfg.programID = programID

	cfg.ownerFeeAddress = nil
	if cfg.OwnerFeeAddress != "" {
		address, err := solana.PublicKeyFromBase58(cfg.OwnerFeeAddress)
		if err != nil {
			return fmt.Errorf("invalid owner_fee_address: %w", err)
		}
		cfg.ownerFeeAddress = &address
	}

	return validateNumericParams(cfg)
}

func (c *Config) defaultSwapScenario() bool {
	return c.Swap.AmountIn == DefaultAmountIn &&
		c.InitialSupplyA == DefaultInitialSupply &&
		c.InitialSupplyB == DefaultInitialSupply
}

func validateNumericParams(cfg *Config) error {
	if cfg.RPCRateLimit < 0 {
		return errors.New("invalid rpc_rate_limit")
	}
	if cfg.Funding.Lamports == 0 {
		return errors.New("invalid funding.lamports")
	}
	if cfg.Funding.Attempts <= 0 {
		return errors.New("invalid funding.attempts")
	}
	if cfg.Funding.Interval <= 0 {
		return errors.New("invalid funding.interval")
	}
	if cfg.InitialSupplyA == 0 || cfg.InitialSupplyB == 0 {
		return errors.New("invalid initial supply")
	}
	if cfg.Swap.AmountIn == 0 {
		return errors.New("invalid swap.amount_in")
	}
	// constant-price(1) не выдаёт больше, чем получил
	if cfg.Swap.MinAmountOut > cfg.Swap.AmountIn {
		return fmt.Errorf("swap.min_amount_out %d exceeds swap.amount_in %d", cfg.Swap.MinAmountOut, cfg.Swap.AmountIn)
	}
	// ожидаемый выход известен только для сценария по умолчанию
	if cfg.Swap.MinAmountOut == 0 && !cfg.defaultSwapScenario() {
		return errors.New("swap.min_amount_out is required when swap.amount_in or initial supplies differ from defaults")
	}
	if cfg.SettleDelay < 0 {
		return errors.New("invalid settle_delay")
	}
	if cfg.ConfirmTimeout <= 0 {
		return errors.New("invalid confirm_timeout")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
