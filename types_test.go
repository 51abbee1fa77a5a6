package checkout

import "testing"

func TestScreenNumber(t *testing.T) {
	tests := []struct {
		screen Screen
		want   float64
	}{
		{ScreenPaymentDetails, 1},
		{ScreenLogin, 2},
		{ScreenCryptoSelection, 3},
		{ScreenFundingOptions, 4},
		{ScreenQRFunding, 4.5},
		{ScreenFundingSuccess, 5},
		{ScreenPaymentConfirmation, 6},
		{ScreenProcessing, 7},
		{ScreenCompleted, 8},
	}
	for _, tt := range tests {
		if got := tt.screen.Number(); got != tt.want {
			t.Errorf("%s.Number() = %v, want %v", tt.screen, got, tt.want)
		}
	}
}

func TestScreenString(t *testing.T) {
	if got := ScreenQRFunding.String(); got != "qr_funding" {
		t.Errorf("String() = %q, want qr_funding", got)
	}
	if got := Screen(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestSessionStatusRank(t *testing.T) {
	if !(StatusPending.rank() < StatusProcessing.rank() && StatusProcessing.rank() < StatusCompleted.rank()) {
		t.Error("forward statuses are not strictly ordered")
	}
	if StatusExpired.rank() >= StatusPending.rank() {
		t.Error("expired must sit outside the forward order")
	}
}

func TestProviderValid(t *testing.T) {
	for _, p := range []Provider{ProviderGoogle, ProviderGithub, ProviderMetaMask, ProviderWalletConnect, ProviderCoinbase} {
		if !p.Valid() {
			t.Errorf("%s.Valid() = false", p)
		}
	}
	for _, p := range []Provider{ProviderNone, Provider("twitter")} {
		if p.Valid() {
			t.Errorf("%q.Valid() = true", p)
		}
	}
}

func TestFundingMethodValid(t *testing.T) {
	for _, m := range []FundingMethod{FundingCard, FundingTransfer, FundingExchange} {
		if !m.Valid() {
			t.Errorf("%s.Valid() = false", m)
		}
	}
	if FundingMethod("paypal").Valid() {
		t.Error("paypal.Valid() = true")
	}
}

func TestWalletStateConnected(t *testing.T) {
	if (WalletState{}).Connected() {
		t.Error("zero WalletState reports connected")
	}
	w := WalletState{Address: testAddress, Provider: ProviderGoogle}
	if !w.Connected() {
		t.Error("populated WalletState reports disconnected")
	}
}
