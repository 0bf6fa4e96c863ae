package style

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cosmath "cosmossdk.io/math"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/bot"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/domain"
)

// RenderReport рисует итог успешного прогона
func RenderReport(report *bot.Report) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Token swap bootstrap"))
	b.WriteString("\n")

	lines := []string{
		row("Run", report.RunID),
		row("Endpoint", report.Endpoint),
		row("Owner", report.Owner.String()),
		row("Payer", report.Payer.String()),
		row("Elapsed", report.Elapsed.Round(time.Millisecond).String()),
	}

	if h := report.Pool; h != nil {
		lines = append(lines,
			SectionStyle.Render("Pool"),
			row("Swap account", h.SwapAccount.String()),
			row("Program", h.ProgramID.String()),
			row("Authority", fmt.Sprintf("%s (bump %d)", h.Authority, h.BumpSeed)),
			row("Mint A / reserve", fmt.Sprintf("%s / %s", h.MintA, h.ReserveA)),
			row("Mint B / reserve", fmt.Sprintf("%s / %s", h.MintB, h.ReserveB)),
			row("Pool mint", h.PoolMint.String()),
			row("Fee account", h.FeeAccount.String()),
			row("Curve", h.Curve.String()),
			row("Trade fee", feeLine(h.Fees.Trade)),
			row("Owner trade fee", feeLine(h.Fees.OwnerTrade)),
			row("Owner withdraw fee", feeLine(h.Fees.OwnerWithdraw)),
			row("Host fee", feeLine(h.Fees.Host)),
		)
		if h.OwnerFeeAddress != nil {
			lines = append(lines, row("Owner fee recipient", h.OwnerFeeAddress.String()))
		} else {
			lines = append(lines, row("Owner fee recipient", "none"))
		}
	}

	if r := report.Swap; r != nil {
		lines = append(lines,
			SectionStyle.Render("Swap A -> B"),
			row("Signature", r.Signature.String()),
			row("Amount in", fmt.Sprintf("%d", r.AmountIn)),
			row("Minimum out", fmt.Sprintf("%d", r.MinAmountOut)),
			row("Amount out", outcome(r.AmountOut, report.Expect)),
			row("Realised price", price(r.AmountOut, r.AmountIn)),
		)
	}

	b.WriteString(PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return b.String()
}

// RenderFailure рисует ошибку прогона с этапом и причиной, если их удалось определить
func RenderFailure(err error) string {
	stage, reason := classify(err)
	lines := []string{
		ErrorStyle.Render("Run failed: " + stage),
	}
	if reason != "" {
		lines = append(lines, row("Reason", reason))
	}
	lines = append(lines, row("Error", err.Error()))
	return ErrorPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func classify(err error) (string, string) {
	var (
		funding *domain.FundingTimeoutError
		prov    *domain.ProvisioningError
		create  *domain.PoolCreationError
		swapErr *domain.SwapError
	)
	switch {
	case errors.As(err, &funding):
		return "funding", fmt.Sprintf("observed %d of %d lamports", funding.Observed, funding.Requested)
	case errors.As(err, &prov):
		return "provisioning", prov.Step
	case errors.As(err, &create):
		return "pool creation", create.Reason
	case errors.As(err, &swapErr):
		return "swap", swapErr.Reason
	default:
		return "unexpected", ""
	}
}

func feeLine(fee tokenswap.Fee) string {
	return fmt.Sprintf("%s (%s%%)", fee, fee.Rate().MulInt64(100).String())
}

func outcome(actual, expected uint64) string {
	if expected == 0 {
		return ValueStyle.Render(fmt.Sprintf("%d", actual))
	}
	text := fmt.Sprintf("%d (expected %d)", actual, expected)
	if actual == expected {
		return SuccessStyle.Render(text)
	}
	return WarningStyle.Render(text)
}

func price(out, in uint64) string {
	if in == 0 {
		return "n/a"
	}
	p := cosmath.LegacyNewDecFromInt(cosmath.NewIntFromUint64(out)).
		Quo(cosmath.LegacyNewDecFromInt(cosmath.NewIntFromUint64(in)))
	return p.String() + " B per A"
}
