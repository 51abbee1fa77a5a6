package checkout

import (
	"errors"
	"testing"
)

const testTxHash = "0x9fc76417374aa880d4449a1f7f31ec597f00b1f6f3dd2d66f4c9c6c445836d8b"

func testSession(t *testing.T, amount string) *PaymentSession {
	t.Helper()
	s, err := NewPaymentSession("pay_123", "Premium subscription", dec(amount), CurrencyUSD)
	if err != nil {
		t.Fatalf("NewPaymentSession() error = %v", err)
	}
	return s
}

func TestNewPaymentSession_Validation(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		amount   string
		currency BaseCurrency
	}{
		{"missing id", "", "100", CurrencyUSD},
		{"unsupported currency", "pay_1", "100", BaseCurrency("GBP")},
		{"zero amount", "pay_1", "0", CurrencyUSD},
		{"negative amount", "pay_1", "-5", CurrencyEUR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPaymentSession(tt.id, "", dec(tt.amount), tt.currency)
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("error = %v, want ErrInvalidSession", err)
			}
			if !IsConfiguration(err) {
				t.Errorf("error %v is not a configuration error", err)
			}
		})
	}

	s, err := NewPaymentSession("pay_1", "desc", dec("0.01"), CurrencyEUR)
	if err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
	if s.Status != StatusPending {
		t.Errorf("Status = %s, want pending", s.Status)
	}
}

func TestPaymentSession_Lifecycle(t *testing.T) {
	s := testSession(t, "100")

	if err := s.markProcessing(); err != nil {
		t.Fatalf("markProcessing() error = %v", err)
	}
	// Re-entering processing after a failed settlement attempt is allowed.
	if err := s.markProcessing(); err != nil {
		t.Fatalf("markProcessing() re-entry error = %v", err)
	}

	if err := s.complete(testTxHash); err != nil {
		t.Fatalf("complete() error = %v", err)
	}
	if s.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", s.Status)
	}
	if s.SettlementTxHash != testTxHash {
		t.Errorf("SettlementTxHash = %q", s.SettlementTxHash)
	}
}

func TestPaymentSession_StatusNeverMovesBackwards(t *testing.T) {
	s := testSession(t, "100")
	s.markProcessing()
	s.complete(testTxHash)

	if err := s.markProcessing(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("markProcessing() on completed = %v, want ErrInvalidStatusTransition", err)
	}
	if err := s.complete(testTxHash); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("complete() on completed = %v, want ErrInvalidStatusTransition", err)
	}
	if err := s.expire(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("expire() on completed = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestPaymentSession_CompleteRequiresProcessing(t *testing.T) {
	s := testSession(t, "100")
	if err := s.complete(testTxHash); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("complete() on pending = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestPaymentSession_ExpireOnlyPending(t *testing.T) {
	s := testSession(t, "100")
	if err := s.expire(); err != nil {
		t.Fatalf("expire() error = %v", err)
	}
	if s.Status != StatusExpired {
		t.Errorf("Status = %s, want expired", s.Status)
	}

	s2 := testSession(t, "100")
	s2.markProcessing()
	if err := s2.expire(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("expire() on processing = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestPaymentSession_TxHashValidation(t *testing.T) {
	tests := []struct {
		name   string
		txHash string
		ok     bool
	}{
		{"valid 32-byte hash", testTxHash, true},
		{"empty hash allowed", "", true},
		{"missing prefix", testTxHash[2:], false},
		{"too short", "0x1234", false},
		{"not hex", "0x" + "zz" + testTxHash[4:], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, "100")
			s.markProcessing()
			err := s.complete(tt.txHash)
			if tt.ok && err != nil {
				t.Errorf("complete(%q) error = %v", tt.txHash, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTxHash) {
				t.Errorf("complete(%q) error = %v, want ErrInvalidTxHash", tt.txHash, err)
			}
		})
	}
}
