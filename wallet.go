package checkout

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// WalletConnector is the boundary to the external wallet/auth collaborator.
// Connect resolves a provider choice into an on-chain address; BalanceOf
// reads the primary wallet's balance for a coin on a chain. Both may block
// on network I/O and must honor the context.
type WalletConnector interface {
	Connect(ctx context.Context, provider Provider) (address string, err error)
	BalanceOf(ctx context.Context, coinSymbol, chainID string) (decimal.Decimal, error)
}

// InjectedBalanceProvider is implemented by connectors that can also read a
// browser-extension wallet. present is false when no extension wallet is
// available on the page.
type InjectedBalanceProvider interface {
	InjectedBalanceOf(ctx context.Context, coinSymbol, chainID string) (balance decimal.Decimal, present bool, err error)
}

// WalletState is the authenticated actor's on-chain identity. Address is
// empty exactly when Provider is ProviderNone.
type WalletState struct {
	Address  string
	Provider Provider
}

// Connected reports whether a wallet is attached to the session.
func (w WalletState) Connected() bool {
	return w.Provider != ProviderNone && w.Address != ""
}

// validWalletAddress reports whether the collaborator returned a plausible
// EVM address. All supported chains are EVM networks.
func validWalletAddress(address string) bool {
	return common.IsHexAddress(address)
}
