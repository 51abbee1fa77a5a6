// Package http exposes a checkout machine over HTTP: a snapshot endpoint,
// a named-intent endpoint, and a WebSocket stream of snapshots. The
// transport never mutates machine state directly; it only submits named
// intents and reads snapshots. Router-specific adapters (chi here, gin in
// the gin subpackage) share the handler logic in this file.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	checkout "github.com/pymstr/checkout-go"
)

// SessionRegistry resolves a session id to its machine.
type SessionRegistry interface {
	Lookup(id string) (*checkout.Machine, bool)
}

// MemoryRegistry is an in-process SessionRegistry.
type MemoryRegistry struct {
	mu       sync.RWMutex
	machines map[string]*checkout.Machine
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{machines: make(map[string]*checkout.Machine)}
}

// Add registers a machine under its session id.
func (r *MemoryRegistry) Add(id string, m *checkout.Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[id] = m
}

// Lookup implements SessionRegistry.
func (r *MemoryRegistry) Lookup(id string) (*checkout.Machine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.machines[id]
	return m, ok
}

// IntentRequest is the JSON body of the intent endpoint. Type names the
// intent; the remaining fields carry intent-specific parameters.
type IntentRequest struct {
	Type     string `json:"type"`
	Provider string `json:"provider,omitempty"`
	Coin     string `json:"coin,omitempty"`
	Chain    string `json:"chain,omitempty"`
	Method   string `json:"method,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	TxHash   string `json:"txHash,omitempty"`
}

// IntentResult is the JSON response of the intent endpoint: the snapshot
// after the intent was applied, plus the external hand-off for funding
// methods that open one.
type IntentResult struct {
	Snapshot checkout.Snapshot `json:"snapshot"`
	Handoff  *checkout.Handoff `json:"handoff,omitempty"`
}

var errUnknownIntent = errors.New("unknown intent type")

// Dispatch applies a named intent to a machine.
func Dispatch(ctx context.Context, m *checkout.Machine, req IntentRequest) (*IntentResult, error) {
	var (
		handoff *checkout.Handoff
		err     error
	)

	switch req.Type {
	case "start_login":
		err = m.StartLogin()
	case "connect":
		err = m.Connect(ctx, checkout.Provider(req.Provider))
	case "select_coin":
		err = m.SelectCoin(ctx, req.Coin)
	case "select_chain":
		err = m.SelectChain(ctx, req.Chain)
	case "continue":
		err = m.ContinueFromSelection(ctx)
	case "select_funding_method":
		handoff, err = m.SelectFundingMethod(checkout.FundingMethod(req.Method))
	case "confirm_funds_added":
		err = m.ConfirmFundsAdded()
	case "continue_from_funding":
		err = m.ContinueFromFunding()
	case "confirm_payment":
		err = m.ConfirmPayment(ctx)
	case "payment_status":
		err = m.ApplyPaymentStatus(checkout.PaymentOutcome(req.Outcome), req.TxHash)
	case "back":
		err = m.Back()
	case "logout":
		err = m.Logout()
	case "expire":
		err = m.Expire()
	case "return_to_merchant":
		err = m.ReturnToMerchant()
	default:
		return nil, errUnknownIntent
	}

	if err != nil {
		return nil, err
	}
	return &IntentResult{Snapshot: m.Snapshot(), Handoff: handoff}, nil
}

// HandleSnapshot writes the machine's current snapshot.
func HandleSnapshot(w http.ResponseWriter, m *checkout.Machine) {
	writeJSON(w, http.StatusOK, m.Snapshot())
}

// HandleIntent decodes an IntentRequest from the body, applies it, and
// writes the result.
func HandleIntent(w http.ResponseWriter, r *http.Request, m *checkout.Machine) {
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed intent body"})
		return
	}

	result, err := Dispatch(r.Context(), m, req)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// WriteError maps a checkout error onto an HTTP status: configuration
// defects are server errors, unknown intents are bad requests, everything
// else (user-recoverable guards) is a conflict with the current screen.
func WriteError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var ce *checkout.CheckoutError
	if errors.As(err, &ce) {
		body.Code = string(ce.Code)
	}

	switch {
	case checkout.IsConfiguration(err):
		writeJSON(w, http.StatusInternalServerError, body)
	case errors.Is(err, errUnknownIntent):
		writeJSON(w, http.StatusBadRequest, body)
	default:
		writeJSON(w, http.StatusConflict, body)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
