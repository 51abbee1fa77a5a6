// Package checkout implements the orchestration core of a stablecoin
// checkout: a screen state machine coupled to a coin/chain compatibility
// matrix and a balance-sufficiency decision engine. The package decides
// which screen to show next, what the primary action button must say, and
// whether a funding detour is required. Rendering, wallet-provider SDKs,
// QR generation, and backend settlement are external collaborators consumed
// through narrow interfaces.
package checkout

import "github.com/shopspring/decimal"

// Provider identifies a wallet/auth provider offered on the login screen.
type Provider string

const (
	ProviderNone          Provider = ""
	ProviderGoogle        Provider = "google"
	ProviderGithub        Provider = "github"
	ProviderMetaMask      Provider = "metamask"
	ProviderWalletConnect Provider = "walletconnect"
	ProviderCoinbase      Provider = "coinbase"
)

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderGithub, ProviderMetaMask, ProviderWalletConnect, ProviderCoinbase:
		return true
	}
	return false
}

// Screen is the state machine's position in the checkout flow.
type Screen int

const (
	// ScreenPaymentDetails is the entry screen showing the amount and a
	// single "log in to pay" action.
	ScreenPaymentDetails Screen = iota + 1

	// ScreenLogin presents the wallet/social providers.
	ScreenLogin

	// ScreenCryptoSelection lets the user pick a coin and a compatible chain.
	ScreenCryptoSelection

	// ScreenFundingOptions is shown only after an insufficient verdict.
	ScreenFundingOptions

	// ScreenQRFunding shows the receiving address/QR for the chosen funding
	// method. It subdivides step 4 and reports 4.5 in Number.
	ScreenQRFunding

	// ScreenFundingSuccess acknowledges a completed funding detour.
	ScreenFundingSuccess

	// ScreenPaymentConfirmation reviews amount, coin, chain and wallet.
	ScreenPaymentConfirmation

	// ScreenProcessing waits for the external payment status signal.
	ScreenProcessing

	// ScreenCompleted is terminal.
	ScreenCompleted
)

// Number returns the screen position used for progress display. QRFunding
// subdivides step 4 without renumbering later steps, so it reports 4.5.
func (s Screen) Number() float64 {
	switch {
	case s <= ScreenFundingOptions:
		return float64(s)
	case s == ScreenQRFunding:
		return 4.5
	default:
		return float64(s - 1)
	}
}

func (s Screen) String() string {
	switch s {
	case ScreenPaymentDetails:
		return "payment_details"
	case ScreenLogin:
		return "login"
	case ScreenCryptoSelection:
		return "crypto_selection"
	case ScreenFundingOptions:
		return "funding_options"
	case ScreenQRFunding:
		return "qr_funding"
	case ScreenFundingSuccess:
		return "funding_success"
	case ScreenPaymentConfirmation:
		return "payment_confirmation"
	case ScreenProcessing:
		return "processing"
	case ScreenCompleted:
		return "completed"
	}
	return "unknown"
}

// SessionStatus is the lifecycle state of a PaymentSession.
type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusExpired    SessionStatus = "expired"
)

// rank orders statuses for the monotonicity check. Expired is reachable
// only from Pending and sits outside the forward order.
func (s SessionStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// BaseCurrency is the fiat denomination of a payment session.
type BaseCurrency string

const (
	CurrencyUSD BaseCurrency = "USD"
	CurrencyEUR BaseCurrency = "EUR"
)

// FundingMethod is the user's choice on the funding options screen.
type FundingMethod string

const (
	FundingCard     FundingMethod = "card"
	FundingTransfer FundingMethod = "transfer"
	FundingExchange FundingMethod = "exchange"
)

// Valid reports whether m is a supported funding method.
func (m FundingMethod) Valid() bool {
	switch m {
	case FundingCard, FundingTransfer, FundingExchange:
		return true
	}
	return false
}

// BalanceSource names which wallet a displayed balance came from.
type BalanceSource string

const (
	// BalanceSourceNone means no balance is displayed at all.
	BalanceSourceNone BalanceSource = ""

	// BalanceSourcePrimary is the session's own managed wallet.
	BalanceSourcePrimary BalanceSource = "primaryWallet"

	// BalanceSourceInjected is a browser-extension wallet.
	BalanceSourceInjected BalanceSource = "injectedProvider"
)

// Verdict is the outcome of a balance evaluation: whether the selected
// coin/chain pair can cover the required amount, the label the primary
// action button must show, and which balance (if any) to display.
type Verdict struct {
	// Sufficient reports whether the effective balance covers the required
	// amount in full.
	Sufficient bool

	// Label is the call-to-action text for the primary button.
	Label string

	// DisplaySource names the wallet whose balance should be displayed.
	// BalanceSourceNone when no balance is shown.
	DisplaySource BalanceSource

	// DisplayBalance is the balance to display. Zero when ShowBalance is
	// false.
	DisplayBalance decimal.Decimal

	// ShowBalance reports whether any balance row is rendered.
	ShowBalance bool
}

// PaymentOutcome is the terminal signal from the backend/webhook
// collaborator while the machine is on the processing screen.
type PaymentOutcome string

const (
	OutcomeCompleted PaymentOutcome = "completed"
	OutcomeFailed    PaymentOutcome = "failed"
)
