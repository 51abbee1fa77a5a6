package checkout

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// PaymentSession describes one checkout attempt: what is being paid, to
// whom, and its lifecycle status. It is created by the external collaborator
// that generates the payment link and mutated only by the state machine.
type PaymentSession struct {
	// ID is the payment link/intent identifier.
	ID string `validate:"required"`

	// Description is the merchant-supplied line item.
	Description string

	// RequiredAmount is the fiat amount to collect, in BaseCurrency.
	RequiredAmount decimal.Decimal `validate:"-"`

	// BaseCurrency is the fiat denomination of RequiredAmount.
	BaseCurrency BaseCurrency `validate:"required,oneof=USD EUR"`

	// Status is the lifecycle state. Transitions are monotonic
	// (Pending → Processing → Completed) except Pending → Expired.
	Status SessionStatus

	// SettlementTxHash is set when the backend reports settlement.
	SettlementTxHash string
}

// NewPaymentSession validates the collaborator-supplied fields and returns
// a Pending session. A malformed session is a configuration defect and
// aborts the flow.
func NewPaymentSession(id, description string, amount decimal.Decimal, currency BaseCurrency) (*PaymentSession, error) {
	s := &PaymentSession{
		ID:             id,
		Description:    description,
		RequiredAmount: amount,
		BaseCurrency:   currency,
		Status:         StatusPending,
	}
	if err := validate.Struct(s); err != nil {
		return nil, configurationError("malformed payment session", ErrInvalidSession).
			WithDetails("cause", err.Error())
	}
	if !amount.IsPositive() {
		return nil, configurationError("payment amount must be positive", ErrInvalidSession).
			WithDetails("amount", amount.String())
	}
	return s, nil
}

// markProcessing moves the session into Processing. Re-entering Processing
// (after a failed settlement attempt) is allowed.
func (s *PaymentSession) markProcessing() error {
	switch s.Status {
	case StatusPending, StatusProcessing:
		s.Status = StatusProcessing
		return nil
	}
	return userError("session cannot start processing", ErrInvalidStatusTransition).
		WithDetails("status", string(s.Status))
}

// complete finalizes the session. The settlement hash, when present, must
// be a 32-byte hex string. Once completed the session never changes again.
func (s *PaymentSession) complete(txHash string) error {
	if s.Status != StatusProcessing {
		return userError("session is not processing", ErrInvalidStatusTransition).
			WithDetails("status", string(s.Status))
	}
	if txHash != "" {
		if err := validateTxHash(txHash); err != nil {
			return err
		}
		s.SettlementTxHash = txHash
	}
	s.Status = StatusCompleted
	return nil
}

// expire marks the session expired. Only Pending sessions expire; every
// other status is further along and keeps its place in the forward order.
func (s *PaymentSession) expire() error {
	if s.Status != StatusPending {
		return userError("only pending sessions expire", ErrInvalidStatusTransition).
			WithDetails("status", string(s.Status))
	}
	s.Status = StatusExpired
	return nil
}

func validateTxHash(txHash string) error {
	if !strings.HasPrefix(txHash, "0x") {
		return configurationError("settlement hash missing 0x prefix", ErrInvalidTxHash).
			WithDetails("txHash", txHash)
	}
	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != 32 {
		return configurationError("settlement hash is not 32 bytes of hex", ErrInvalidTxHash).
			WithDetails("txHash", txHash)
	}
	return nil
}
