package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pymstr/checkout-go/logger"
	"github.com/pymstr/checkout-go/metrics"
	"github.com/pymstr/checkout-go/retry"
)

// defaultExchangeWidgetBase is the on-ramp widget opened for the card and
// exchange funding methods.
const defaultExchangeWidgetBase = "https://widget.onramper.com"

const defaultRecheckTimeout = 10 * time.Second

// confirmEntry records how the confirmation screen was entered, so back
// navigation can return to the correct logical predecessor.
type confirmEntry int

const (
	// entryDirect: confirmation entered straight from crypto selection
	// after a sufficient verdict. Back goes to selection.
	entryDirect confirmEntry = iota

	// entryFunding: confirmation entered through the funding detour. Back
	// goes to the funding success screen.
	entryFunding
)

// Machine is the top-level checkout controller. It owns the current screen,
// applies transition guards, and sequences the compatibility matrix, the
// balance evaluator, the funding orchestrator and the payment session.
//
// User intents and asynchronous collaborator results are serialized through
// one mutex, so every mutation happens on one logical thread. The two
// suspending operations (Connect and ConfirmPayment) release the mutex
// around collaborator I/O and re-validate the machine's position before
// applying their result; results issued against a selection the user has
// since changed are discarded.
type Machine struct {
	mu sync.Mutex

	session   *PaymentSession
	matrix    *CompatibilityMatrix
	connector WalletConnector

	screen  Screen
	wallet  WalletState
	coin    string
	chain   string
	verdict *Verdict

	funding       *FundingOrchestrator
	confirmedFrom confirmEntry

	connectPending bool
	recheckPending bool

	// selectionSeq tags every in-flight balance read with the selection it
	// was issued against. Results carrying a stale tag are dropped.
	selectionSeq uint64

	recheckTimeout time.Duration
	recheckRetry   retry.Config
	exchangeBase   string
	returnTo       func(sessionID string)
	now            func() time.Time

	log logger.Logger
	rec metrics.Recorder

	subs    map[int]chan Snapshot
	nextSub int
}

// NewMachine creates a checkout machine positioned on the payment details
// screen.
func NewMachine(session *PaymentSession, matrix *CompatibilityMatrix, connector WalletConnector, opts ...Option) (*Machine, error) {
	if session == nil {
		return nil, configurationError("payment session is required", ErrInvalidSession)
	}
	if matrix == nil {
		return nil, configurationError("compatibility matrix is required", nil)
	}
	if connector == nil {
		return nil, configurationError("wallet connector is required", nil)
	}

	m := &Machine{
		session:        session,
		matrix:         matrix,
		connector:      connector,
		screen:         ScreenPaymentDetails,
		funding:        newFundingOrchestrator(),
		recheckTimeout: defaultRecheckTimeout,
		recheckRetry:   retry.DefaultConfig,
		exchangeBase:   defaultExchangeWidgetBase,
		now:            time.Now,
		log:            logger.NoopLogger{},
		rec:            metrics.NoopRecorder{},
		subs:           make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// StartLogin moves from payment details to the login screen.
func (m *Machine) StartLogin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen == ScreenCompleted {
		return nil
	}
	if m.screen != ScreenPaymentDetails {
		return m.invalidIntentLocked("start_login")
	}
	m.setScreenLocked(ScreenLogin)
	return nil
}

// Connect asks the wallet collaborator to authenticate the given provider.
// It suspends the machine until the collaborator answers; a second Connect
// while one is outstanding is a no-op. A failed connect keeps the machine
// on the login screen. If the user navigates away before the collaborator
// answers, the late result is dropped and never re-enters login.
func (m *Machine) Connect(ctx context.Context, provider Provider) error {
	m.mu.Lock()
	if m.screen == ScreenCompleted {
		m.mu.Unlock()
		return nil
	}
	if m.screen != ScreenLogin {
		m.mu.Unlock()
		return m.invalidIntent("connect")
	}
	if m.connectPending {
		m.mu.Unlock()
		return nil
	}
	if !provider.Valid() {
		m.mu.Unlock()
		return userError("unrecognized wallet provider", ErrConnectFailed).
			WithDetails("provider", string(provider))
	}
	m.connectPending = true
	m.mu.Unlock()

	start := m.now()
	address, err := m.connector.Connect(ctx, provider)
	m.rec.ObserveLatency("connect", m.now().Sub(start), map[string]string{"coin": "", "chain": ""})

	m.mu.Lock()
	m.connectPending = false
	if m.screen != ScreenLogin {
		m.mu.Unlock()
		m.log.Debug("dropping connect result after leaving login", map[string]any{
			"session":  m.session.ID,
			"provider": string(provider),
		})
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		m.log.Warn("wallet connect failed", map[string]any{
			"session":  m.session.ID,
			"provider": string(provider),
			"error":    err.Error(),
		})
		return userError("wallet connect failed", errors.Join(ErrConnectFailed, err)).
			WithDetails("provider", string(provider))
	}
	if !validWalletAddress(address) {
		m.mu.Unlock()
		return userError("collaborator returned an invalid address", ErrConnectFailed).
			WithDetails("provider", string(provider))
	}

	m.wallet = WalletState{Address: address, Provider: provider}
	coin, chain := m.matrix.FirstPair()
	m.coin, m.chain = coin, chain
	m.selectionSeq++
	m.setScreenLocked(ScreenCryptoSelection)
	m.mu.Unlock()

	return m.refreshVerdict(ctx)
}

// SelectCoin records a coin choice on the selection screen. When the
// currently selected chain is not enabled for the new coin, the chain is
// automatically reselected to the first chain enabled for it. The repair
// is idempotent and never leaves an invalid pair.
func (m *Machine) SelectCoin(ctx context.Context, coinSymbol string) error {
	m.mu.Lock()
	if m.screen == ScreenCompleted {
		m.mu.Unlock()
		return nil
	}
	if m.screen != ScreenCryptoSelection {
		m.mu.Unlock()
		return m.invalidIntent("select_coin")
	}

	coin, err := CoinBySymbol(coinSymbol)
	if err == nil {
		_, err = m.matrix.ChainsFor(coin.Symbol)
	}
	if err != nil {
		m.mu.Unlock()
		m.log.Error("coin lookup failed", map[string]any{"session": m.session.ID, "coin": coinSymbol})
		return err
	}

	m.coin = coin.Symbol
	if err := m.repairSelectionLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.selectionSeq++
	m.verdict = nil
	m.notifyLocked()
	m.mu.Unlock()

	return m.refreshVerdict(ctx)
}

// SelectChain records a chain choice on the selection screen. A chain that
// is not enabled for the selected coin auto-resets to the first chain in
// the coin's enabled set, keeping the pair valid.
func (m *Machine) SelectChain(ctx context.Context, chainID string) error {
	m.mu.Lock()
	if m.screen == ScreenCompleted {
		m.mu.Unlock()
		return nil
	}
	if m.screen != ScreenCryptoSelection {
		m.mu.Unlock()
		return m.invalidIntent("select_chain")
	}

	chain, err := ChainByID(chainID)
	if err == nil {
		_, err = m.matrix.CoinsFor(chain.ID)
	}
	if err != nil {
		m.mu.Unlock()
		m.log.Error("chain lookup failed", map[string]any{"session": m.session.ID, "chain": chainID})
		return err
	}

	m.chain = chain.ID
	if err := m.repairSelectionLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.selectionSeq++
	m.verdict = nil
	m.notifyLocked()
	m.mu.Unlock()

	return m.refreshVerdict(ctx)
}

// repairSelectionLocked enforces the compatibility invariant: when the
// current pair is invalid, the chain is reselected to the first chain
// enabled for the coin. Running it twice yields the same selection as once.
func (m *Machine) repairSelectionLocked() error {
	ok, err := m.matrix.Enabled(m.coin, m.chain)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	first, err := m.matrix.FirstChainFor(m.coin)
	if err != nil {
		return err
	}
	m.log.Debug("auto-repaired chain selection", map[string]any{
		"session": m.session.ID,
		"coin":    m.coin,
		"chain":   first,
	})
	m.chain = first
	return nil
}

// ContinueFromSelection leaves the selection screen. It is blocked until
// both a coin and a compatible chain are selected. The balance verdict
// decides the destination: sufficient goes straight to confirmation,
// insufficient enters the funding detour.
func (m *Machine) ContinueFromSelection(ctx context.Context) error {
	m.mu.Lock()
	if m.screen == ScreenCompleted {
		m.mu.Unlock()
		return nil
	}
	if m.screen != ScreenCryptoSelection {
		m.mu.Unlock()
		return m.invalidIntent("continue")
	}
	if m.coin == "" || m.chain == "" {
		m.mu.Unlock()
		return userError("select a coin and chain first", ErrSelectionIncomplete)
	}
	seq := m.selectionSeq
	coin, chain := m.coin, m.chain
	m.mu.Unlock()

	v, err := m.evaluateSelection(ctx, coin, chain)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != ScreenCryptoSelection || m.selectionSeq != seq {
		m.log.Debug("discarding stale continue evaluation", map[string]any{"session": m.session.ID})
		return nil
	}
	m.verdict = &v
	if v.Sufficient {
		m.confirmedFrom = entryDirect
		m.setScreenLocked(ScreenPaymentConfirmation)
	} else {
		m.funding.Reset()
		m.setScreenLocked(ScreenFundingOptions)
	}
	return nil
}

// SelectFundingMethod records the user's funding choice. Card and Transfer
// advance to the QR/confirmation screen; Exchange is a terminal external
// hand-off and does not advance. Card and Exchange return the external
// destination to open.
func (m *Machine) SelectFundingMethod(method FundingMethod) (*Handoff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen == ScreenCompleted {
		return nil, nil
	}
	if m.screen != ScreenFundingOptions {
		return nil, m.invalidIntentLocked("select_funding_method")
	}

	advance, err := m.funding.SelectMethod(method)
	if err != nil {
		return nil, err
	}

	var handoff *Handoff
	if method == FundingCard || method == FundingExchange {
		required, rerr := RequiredCoinAmount(m.session.RequiredAmount, m.coin)
		if rerr != nil {
			return nil, rerr
		}
		handoff = &Handoff{
			Method: method,
			URL:    exchangeWidgetURL(m.exchangeBase, m.coin, required, m.chain, m.wallet.Address),
		}
	}

	if advance {
		m.setScreenLocked(ScreenQRFunding)
	} else {
		m.notifyLocked()
	}
	return handoff, nil
}

// ConfirmFundsAdded is the user's "funds added" signal on the QR screen.
func (m *Machine) ConfirmFundsAdded() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen == ScreenCompleted {
		return nil
	}
	if m.screen != ScreenQRFunding {
		return m.invalidIntentLocked("confirm_funds_added")
	}
	if err := m.funding.ConfirmFundsAdded(); err != nil {
		return err
	}
	m.setScreenLocked(ScreenFundingSuccess)
	return nil
}

// ContinueFromFunding acknowledges the funding success screen and enters
// confirmation through the funding path.
func (m *Machine) ContinueFromFunding() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen == ScreenCompleted {
		return nil
	}
	if m.screen != ScreenFundingSuccess {
		return m.invalidIntentLocked("continue_from_funding")
	}
	m.confirmedFrom = entryFunding
	m.setScreenLocked(ScreenPaymentConfirmation)
	return nil
}

// ConfirmPayment starts the asynchronous funds re-check from the
// confirmation screen. A second ConfirmPayment while one is outstanding is
// a no-op. A sufficient verdict enters processing; an insufficient verdict
// or a transient collaborator failure routes back to funding options
// rather than surfacing an error. Results arriving after the user changed
// the selection or left the screen are discarded.
func (m *Machine) ConfirmPayment(ctx context.Context) error {
	m.mu.Lock()
	if m.screen == ScreenCompleted {
		m.mu.Unlock()
		return nil
	}
	if m.screen != ScreenPaymentConfirmation {
		m.mu.Unlock()
		return m.invalidIntent("confirm_payment")
	}
	if m.recheckPending {
		m.mu.Unlock()
		return nil
	}
	m.recheckPending = true
	seq := m.selectionSeq
	coin, chain := m.coin, m.chain
	m.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, m.recheckTimeout)
	defer cancel()

	start := m.now()
	v, err := m.evaluateSelectionRetrying(cctx, coin, chain)
	m.rec.ObserveLatency("funds_recheck", m.now().Sub(start), map[string]string{"coin": coin, "chain": chain})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recheckPending = false

	if m.screen != ScreenPaymentConfirmation || m.selectionSeq != seq {
		m.log.Debug("discarding stale funds re-check", map[string]any{
			"session": m.session.ID,
			"coin":    coin,
			"chain":   chain,
		})
		return nil
	}

	if err != nil {
		if IsConfiguration(err) {
			return err
		}
		// Transient failure: treated as insufficient, never as a raw error.
		m.log.Warn("funds re-check failed, routing to funding options", map[string]any{
			"session": m.session.ID,
			"error":   err.Error(),
		})
		m.rec.IncCounter("funds_recheck_failed", map[string]string{"screen": m.screen.String()})
		m.funding.Reset()
		m.setScreenLocked(ScreenFundingOptions)
		return nil
	}

	m.verdict = &v
	if !v.Sufficient {
		m.funding.Reset()
		m.setScreenLocked(ScreenFundingOptions)
		return nil
	}

	if err := m.session.markProcessing(); err != nil {
		return err
	}
	m.setScreenLocked(ScreenProcessing)
	return nil
}

// ApplyPaymentStatus delivers the external payment status signal while the
// machine is processing. Completed finalizes the session; a failure
// returns to confirmation for another attempt. Signals arriving on any
// other screen are dropped.
func (m *Machine) ApplyPaymentStatus(outcome PaymentOutcome, txHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenProcessing {
		return nil
	}

	switch outcome {
	case OutcomeCompleted:
		if err := m.session.complete(txHash); err != nil {
			m.log.Error("malformed settlement signal", map[string]any{
				"session": m.session.ID,
				"txHash":  txHash,
			})
			return err
		}
		m.setScreenLocked(ScreenCompleted)
		return nil
	case OutcomeFailed:
		m.log.Warn("settlement failed, returning to confirmation", map[string]any{
			"session": m.session.ID,
		})
		m.setScreenLocked(ScreenPaymentConfirmation)
		return nil
	}
	return userError("unrecognized payment outcome", nil).
		WithDetails("outcome", string(outcome))
}

// Back returns to the immediately preceding logical screen. From
// confirmation, the destination depends on how the screen was entered:
// straight from selection goes back to selection, through the funding
// detour goes back to funding success. Processing and the terminal screen
// ignore back.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.screen {
	case ScreenPaymentDetails, ScreenProcessing, ScreenCompleted:
		return nil
	case ScreenLogin:
		m.setScreenLocked(ScreenPaymentDetails)
	case ScreenCryptoSelection:
		m.setScreenLocked(ScreenLogin)
	case ScreenFundingOptions:
		m.funding.Reset()
		m.setScreenLocked(ScreenCryptoSelection)
	case ScreenQRFunding:
		m.funding.Reset()
		m.setScreenLocked(ScreenFundingOptions)
	case ScreenFundingSuccess:
		m.funding.reopen()
		m.setScreenLocked(ScreenQRFunding)
	case ScreenPaymentConfirmation:
		if m.confirmedFrom == entryFunding {
			m.setScreenLocked(ScreenFundingSuccess)
		} else {
			m.setScreenLocked(ScreenCryptoSelection)
		}
	}
	return nil
}

// Logout clears the wallet state and returns to the entry screen.
func (m *Machine) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen == ScreenCompleted {
		return nil
	}
	m.wallet = WalletState{}
	m.coin, m.chain = "", ""
	m.verdict = nil
	m.funding.Reset()
	m.confirmedFrom = entryDirect
	m.selectionSeq++
	m.setScreenLocked(ScreenPaymentDetails)
	return nil
}

// Expire marks the session expired. Only pending sessions expire.
func (m *Machine) Expire() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen == ScreenCompleted {
		return nil
	}
	if err := m.session.expire(); err != nil {
		return err
	}
	m.log.Info("session expired", map[string]any{"session": m.session.ID})
	m.notifyLocked()
	return nil
}

// ReturnToMerchant is the only action on the completed screen. It delegates
// to the external navigation collaborator when one is configured.
func (m *Machine) ReturnToMerchant() error {
	m.mu.Lock()
	if m.screen != ScreenCompleted {
		m.mu.Unlock()
		return m.invalidIntent("return_to_merchant")
	}
	nav := m.returnTo
	id := m.session.ID
	m.mu.Unlock()

	if nav != nil {
		nav(id)
	}
	return nil
}

// evaluateSelection reads the primary (and, when present, injected) wallet
// balance for the pair and runs the decision table.
func (m *Machine) evaluateSelection(ctx context.Context, coin, chain string) (Verdict, error) {
	required, err := RequiredCoinAmount(m.session.RequiredAmount, coin)
	if err != nil {
		return Verdict{}, err
	}

	in := BalanceInput{
		Required:  required,
		Coin:      coin,
		ChainName: ChainDisplayName(chain),
	}

	primary, err := m.connector.BalanceOf(ctx, coin, chain)
	if err != nil {
		m.log.Warn("primary balance read failed, treating as zero", map[string]any{
			"session": m.session.ID,
			"coin":    coin,
			"chain":   chain,
			"error":   err.Error(),
		})
		primary = decimal.Zero
	}
	in.Primary = primary

	if ip, ok := m.connector.(InjectedBalanceProvider); ok {
		injected, present, ierr := ip.InjectedBalanceOf(ctx, coin, chain)
		if ierr == nil && present {
			in.HasInjected = true
			in.Injected = injected
		}
	}

	return EvaluateBalance(in), nil
}

// evaluateSelectionRetrying is the re-check variant: the primary balance
// read is retried on transient failure and an exhausted retry surfaces as
// an error for the caller to absorb.
func (m *Machine) evaluateSelectionRetrying(ctx context.Context, coin, chain string) (Verdict, error) {
	required, err := RequiredCoinAmount(m.session.RequiredAmount, coin)
	if err != nil {
		return Verdict{}, err
	}

	primary, err := retry.Do(ctx, m.recheckRetry, transientError, func() (decimal.Decimal, error) {
		return m.connector.BalanceOf(ctx, coin, chain)
	})
	if err != nil {
		return Verdict{}, err
	}

	in := BalanceInput{
		Required:  required,
		Primary:   primary,
		Coin:      coin,
		ChainName: ChainDisplayName(chain),
	}
	if ip, ok := m.connector.(InjectedBalanceProvider); ok {
		injected, present, ierr := ip.InjectedBalanceOf(ctx, coin, chain)
		if ierr == nil && present {
			in.HasInjected = true
			in.Injected = injected
		}
	}

	return EvaluateBalance(in), nil
}

// refreshVerdict recomputes the call-to-action for the current selection.
// Results tagged with a superseded selection are discarded.
func (m *Machine) refreshVerdict(ctx context.Context) error {
	m.mu.Lock()
	if m.screen != ScreenCryptoSelection {
		m.mu.Unlock()
		return nil
	}
	seq := m.selectionSeq
	coin, chain := m.coin, m.chain
	m.mu.Unlock()

	v, err := m.evaluateSelection(ctx, coin, chain)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != ScreenCryptoSelection || m.selectionSeq != seq {
		m.log.Debug("discarding stale balance result", map[string]any{
			"session": m.session.ID,
			"coin":    coin,
			"chain":   chain,
		})
		return nil
	}
	m.verdict = &v
	m.notifyLocked()
	return nil
}

func transientError(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (m *Machine) setScreenLocked(next Screen) {
	from := m.screen
	m.screen = next
	m.log.Info("screen transition", map[string]any{
		"session": m.session.ID,
		"from":    from.String(),
		"to":      next.String(),
	})
	m.rec.IncCounter("screen_transition", map[string]string{"screen": next.String()})
	m.notifyLocked()
}

func (m *Machine) invalidIntent(intent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidIntentLocked(intent)
}

func (m *Machine) invalidIntentLocked(intent string) error {
	return userError("intent not valid on current screen", ErrInvalidIntent).
		WithDetails("intent", intent).
		WithDetails("screen", m.screen.String())
}

// Snapshot is a read-only view of the machine for the rendering layer and
// transports. The renderer only ever reads snapshots; it never sets flags.
type Snapshot struct {
	SessionID    string        `json:"sessionId"`
	Description  string        `json:"description,omitempty"`
	Price        string        `json:"price"`
	BaseCurrency BaseCurrency  `json:"baseCurrency"`
	Status       SessionStatus `json:"status"`
	TxHash       string        `json:"txHash,omitempty"`

	Screen       string   `json:"screen"`
	ScreenNumber float64  `json:"screenNumber"`
	Progress     Progress `json:"progress"`

	WalletAddress string   `json:"walletAddress,omitempty"`
	Provider      Provider `json:"provider,omitempty"`

	Coin               string `json:"coin,omitempty"`
	Chain              string `json:"chain,omitempty"`
	ChainName          string `json:"chainName,omitempty"`
	RequiredCoinAmount string `json:"requiredCoinAmount,omitempty"`

	Verdict *Verdict `json:"verdict,omitempty"`

	FundingState  string        `json:"fundingState"`
	FundingMethod FundingMethod `json:"fundingMethod,omitempty"`
}

// Snapshot returns the current view of the machine.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:    m.session.ID,
		Description:  m.session.Description,
		Price:        m.session.RequiredAmount.StringFixed(2),
		BaseCurrency: m.session.BaseCurrency,
		Status:       m.session.Status,
		TxHash:       m.session.SettlementTxHash,

		Screen:       m.screen.String(),
		ScreenNumber: m.screen.Number(),
		Progress:     ProgressFor(m.screen),

		WalletAddress: m.wallet.Address,
		Provider:      m.wallet.Provider,

		Coin:      m.coin,
		Chain:     m.chain,
		ChainName: ChainDisplayName(m.chain),

		FundingState:  m.funding.State().String(),
		FundingMethod: m.funding.Method(),
	}
	if m.coin != "" {
		if required, err := RequiredCoinAmount(m.session.RequiredAmount, m.coin); err == nil {
			snap.RequiredCoinAmount = required.StringFixed(2)
		}
	}
	if m.chain == "" {
		snap.ChainName = ""
	}
	if m.verdict != nil {
		v := *m.verdict
		snap.Verdict = &v
	}
	return snap
}

// Subscribe registers a snapshot feed that receives the machine's view
// after every transition. Slow consumers drop intermediate snapshots
// rather than blocking the machine. The returned cancel func closes the
// channel.
func (m *Machine) Subscribe(buffer int) (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if buffer < 1 {
		buffer = 1
	}
	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, buffer)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (m *Machine) notifyLocked() {
	if len(m.subs) == 0 {
		return
	}
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
