package checkout

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestFundingOrchestrator_CardAdvances(t *testing.T) {
	f := newFundingOrchestrator()

	advance, err := f.SelectMethod(FundingCard)
	if err != nil {
		t.Fatalf("SelectMethod(card) error = %v", err)
	}
	if !advance {
		t.Error("SelectMethod(card) advance = false, want true")
	}
	if f.State() != FundingAwaitingFunds {
		t.Errorf("State() = %s, want awaiting_funds", f.State())
	}
	if f.Method() != FundingCard {
		t.Errorf("Method() = %s, want card", f.Method())
	}

	if err := f.ConfirmFundsAdded(); err != nil {
		t.Fatalf("ConfirmFundsAdded() error = %v", err)
	}
	if f.State() != FundingFundsConfirmed {
		t.Errorf("State() = %s, want funds_confirmed", f.State())
	}
}

func TestFundingOrchestrator_ExchangeDoesNotAdvance(t *testing.T) {
	f := newFundingOrchestrator()

	advance, err := f.SelectMethod(FundingExchange)
	if err != nil {
		t.Fatalf("SelectMethod(exchange) error = %v", err)
	}
	if advance {
		t.Error("SelectMethod(exchange) advance = true, want false")
	}
	if f.State() != FundingMethodSelection {
		t.Errorf("State() = %s, want method_selection", f.State())
	}
	if f.Method() != FundingExchange {
		t.Errorf("Method() = %s, want exchange", f.Method())
	}

	// Still in method selection, so picking again is allowed.
	advance, err = f.SelectMethod(FundingTransfer)
	if err != nil || !advance {
		t.Fatalf("SelectMethod(transfer) after exchange = (%v, %v), want (true, nil)", advance, err)
	}
}

func TestFundingOrchestrator_SelectMidDetourIsNoOp(t *testing.T) {
	f := newFundingOrchestrator()
	if _, err := f.SelectMethod(FundingTransfer); err != nil {
		t.Fatalf("SelectMethod(transfer) error = %v", err)
	}

	advance, err := f.SelectMethod(FundingCard)
	if err != nil {
		t.Fatalf("SelectMethod(card) mid-detour error = %v", err)
	}
	if advance {
		t.Error("SelectMethod mid-detour advance = true, want false")
	}
	if f.Method() != FundingTransfer {
		t.Errorf("Method() = %s, method changed by no-op select", f.Method())
	}
}

func TestFundingOrchestrator_InvalidMethod(t *testing.T) {
	f := newFundingOrchestrator()

	_, err := f.SelectMethod(FundingMethod("paypal"))
	if !errors.Is(err, ErrInvalidFundingMethod) {
		t.Errorf("SelectMethod(paypal) error = %v, want ErrInvalidFundingMethod", err)
	}
	if f.State() != FundingMethodSelection {
		t.Errorf("State() = %s after rejected method", f.State())
	}
}

func TestFundingOrchestrator_ConfirmWithoutMethod(t *testing.T) {
	f := newFundingOrchestrator()
	if err := f.ConfirmFundsAdded(); !errors.Is(err, ErrInvalidIntent) {
		t.Errorf("ConfirmFundsAdded() error = %v, want ErrInvalidIntent", err)
	}
}

func TestFundingOrchestrator_ResetDiscardsMethod(t *testing.T) {
	f := newFundingOrchestrator()
	f.SelectMethod(FundingCard)
	f.ConfirmFundsAdded()

	f.Reset()
	if f.State() != FundingMethodSelection {
		t.Errorf("State() = %s after Reset, want method_selection", f.State())
	}
	if f.Method() != "" {
		t.Errorf("Method() = %s after Reset, want empty", f.Method())
	}
}

func TestFundingOrchestrator_Reopen(t *testing.T) {
	f := newFundingOrchestrator()
	f.SelectMethod(FundingTransfer)
	f.ConfirmFundsAdded()

	f.reopen()
	if f.State() != FundingAwaitingFunds {
		t.Errorf("State() = %s after reopen, want awaiting_funds", f.State())
	}
	if f.Method() != FundingTransfer {
		t.Errorf("Method() = %s after reopen, want transfer (kept)", f.Method())
	}

	// Reopening an already-waiting detour changes nothing.
	f.reopen()
	if f.State() != FundingAwaitingFunds {
		t.Errorf("State() = %s after second reopen", f.State())
	}
}

func TestExchangeWidgetURL(t *testing.T) {
	got := exchangeWidgetURL("https://widget.onramper.com", "USDC", dec("108.70"), "polygon",
		"0x1111111111111111111111111111111111111111")

	if !strings.HasPrefix(got, "https://widget.onramper.com?") {
		t.Fatalf("URL = %q, wrong base", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", got, err)
	}
	q := u.Query()
	if q.Get("defaultCrypto") != "USDC" {
		t.Errorf("defaultCrypto = %q", q.Get("defaultCrypto"))
	}
	if q.Get("defaultAmount") != "108.70" {
		t.Errorf("defaultAmount = %q", q.Get("defaultAmount"))
	}
	if q.Get("networks") != "polygon" {
		t.Errorf("networks = %q", q.Get("networks"))
	}
	if q.Get("wallets") != "USDC:0x1111111111111111111111111111111111111111" {
		t.Errorf("wallets = %q", q.Get("wallets"))
	}
	if q.Get("isAddressEditable") != "false" {
		t.Errorf("isAddressEditable = %q", q.Get("isAddressEditable"))
	}
}
