package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceInput is everything EvaluateBalance needs. Coin is the selected
// symbol and ChainName the selected chain's display name; both appear in
// the call-to-action label.
type BalanceInput struct {
	Required    decimal.Decimal
	Primary     decimal.Decimal
	Injected    decimal.Decimal
	HasInjected bool
	Coin        string
	ChainName   string
}

// EvaluateBalance classifies balance sufficiency and produces the
// call-to-action label. It is a pure function of its inputs.
//
// The decision table, keyed on the effective balance:
//
//	balance == 0               → "Add {coin} + {chain}"   (insufficient)
//	balance >= required        → "Pay {coin} on {chain}"  (sufficient)
//	0 < balance < required     → "Add {coin} to Pay"      (insufficient)
//
// Display precedence: an injected provider's balance is shown only when it
// covers the full required amount; an insufficient injected balance is
// ignored entirely and the primary wallet's balance is shown instead, but
// only when that primary balance is nonzero. An insufficient injected
// balance must never eclipse a partially funded primary wallet.
func EvaluateBalance(in BalanceInput) Verdict {
	injectedSufficient := in.HasInjected && in.Injected.GreaterThanOrEqual(in.Required) && in.Injected.IsPositive()

	effective := in.Primary
	if injectedSufficient {
		effective = in.Injected
	}

	v := Verdict{}
	switch {
	case effective.IsZero() || effective.IsNegative():
		v.Sufficient = false
		v.Label = fmt.Sprintf("Add %s + %s", in.Coin, in.ChainName)
	case effective.GreaterThanOrEqual(in.Required):
		v.Sufficient = true
		v.Label = fmt.Sprintf("Pay %s on %s", in.Coin, in.ChainName)
	default:
		v.Sufficient = false
		v.Label = fmt.Sprintf("Add %s to Pay", in.Coin)
	}

	switch {
	case injectedSufficient:
		v.ShowBalance = true
		v.DisplaySource = BalanceSourceInjected
		v.DisplayBalance = in.Injected
	case in.Primary.IsPositive():
		v.ShowBalance = true
		v.DisplaySource = BalanceSourcePrimary
		v.DisplayBalance = in.Primary
	}
	return v
}
