package checkout

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// FundingState is the funding detour's position.
type FundingState int

const (
	// FundingMethodSelection is the entry state: the user picks a method.
	FundingMethodSelection FundingState = iota

	// FundingAwaitingFunds waits for the user to signal the transfer.
	FundingAwaitingFunds

	// FundingFundsConfirmed is the detour's exit state.
	FundingFundsConfirmed
)

func (s FundingState) String() string {
	switch s {
	case FundingMethodSelection:
		return "method_selection"
	case FundingAwaitingFunds:
		return "awaiting_funds"
	case FundingFundsConfirmed:
		return "funds_confirmed"
	}
	return "unknown"
}

// FundingOrchestrator is the sub-state machine for the insufficient-balance
// detour: method choice, method-specific confirmation, funded signal. It is
// owned and sequenced by the screen state machine.
type FundingOrchestrator struct {
	state  FundingState
	method FundingMethod
}

func newFundingOrchestrator() *FundingOrchestrator {
	return &FundingOrchestrator{state: FundingMethodSelection}
}

// SelectMethod records the chosen method. Card and Transfer advance to
// AwaitingFunds; Exchange is an external hand-off and does not advance.
// advance reports whether the parent should move to the QR/confirmation
// screen. Selecting a method mid-AwaitingFunds is ignored as a no-op.
func (f *FundingOrchestrator) SelectMethod(method FundingMethod) (advance bool, err error) {
	if f.state != FundingMethodSelection {
		return false, nil
	}
	if !method.Valid() {
		return false, userError("unrecognized funding method", ErrInvalidFundingMethod).
			WithDetails("method", string(method))
	}

	f.method = method
	if method == FundingExchange {
		return false, nil
	}
	f.state = FundingAwaitingFunds
	return true, nil
}

// ConfirmFundsAdded is the user's "funds added" signal. Only valid from
// AwaitingFunds.
func (f *FundingOrchestrator) ConfirmFundsAdded() error {
	if f.state != FundingAwaitingFunds {
		return userError("no funding method awaiting confirmation", ErrInvalidIntent).
			WithDetails("fundingState", f.state.String())
	}
	f.state = FundingFundsConfirmed
	return nil
}

// Reset returns the detour to method selection and discards the previously
// chosen method so no partial state leaks forward.
func (f *FundingOrchestrator) Reset() {
	f.state = FundingMethodSelection
	f.method = ""
}

// reopen puts a confirmed-or-waiting detour back to AwaitingFunds, keeping
// the chosen method. Used by back-navigation from the funding success
// screen.
func (f *FundingOrchestrator) reopen() {
	if f.state == FundingFundsConfirmed {
		f.state = FundingAwaitingFunds
	}
}

// State returns the detour's position.
func (f *FundingOrchestrator) State() FundingState { return f.state }

// Method returns the chosen funding method, empty before selection.
func (f *FundingOrchestrator) Method() FundingMethod { return f.method }

// Handoff describes an external destination opened for a funding method.
// Card and Exchange hand off to an on-ramp widget; Transfer stays in-app
// and shows the receiving address instead.
type Handoff struct {
	Method FundingMethod
	URL    string
}

// exchangeWidgetURL builds the on-ramp widget URL carrying the selected
// coin, the amount still required, the network, and the receiving address.
func exchangeWidgetURL(base, coinSymbol string, amount decimal.Decimal, chainID, address string) string {
	q := url.Values{}
	q.Set("defaultCrypto", coinSymbol)
	q.Set("defaultAmount", amount.StringFixed(2))
	q.Set("networks", chainID)
	q.Set("wallets", coinSymbol+":"+address)
	q.Set("isAddressEditable", "false")
	return base + "?" + q.Encode()
}
