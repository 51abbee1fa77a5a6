package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ChainOption is a supported settlement network. All supported chains are
// EVM networks.
type ChainOption struct {
	// ID is the lowercase network identifier used in configuration and
	// selection intents (e.g. "polygon").
	ID string

	// DisplayName is the human-readable network name (e.g. "Polygon").
	DisplayName string

	// ExplorerTxPrefix is the block-explorer transaction URL prefix.
	ExplorerTxPrefix string
}

// Supported chain definitions.
var (
	Ethereum = ChainOption{
		ID:               "ethereum",
		DisplayName:      "Ethereum",
		ExplorerTxPrefix: "https://etherscan.io/tx/",
	}

	Polygon = ChainOption{
		ID:               "polygon",
		DisplayName:      "Polygon",
		ExplorerTxPrefix: "https://polygonscan.com/tx/",
	}

	Arbitrum = ChainOption{
		ID:               "arbitrum",
		DisplayName:      "Arbitrum",
		ExplorerTxPrefix: "https://arbiscan.io/tx/",
	}

	Optimism = ChainOption{
		ID:               "optimism",
		DisplayName:      "Optimism",
		ExplorerTxPrefix: "https://optimistic.etherscan.io/tx/",
	}

	Base = ChainOption{
		ID:               "base",
		DisplayName:      "Base",
		ExplorerTxPrefix: "https://basescan.org/tx/",
	}
)

// SupportedChains lists every chain the checkout can settle on, in display
// order.
var SupportedChains = []ChainOption{Ethereum, Polygon, Arbitrum, Optimism, Base}

// ChainByID resolves a chain id to its definition. The lookup is
// case-insensitive on the id.
func ChainByID(id string) (ChainOption, error) {
	for _, c := range SupportedChains {
		if strings.EqualFold(c.ID, id) {
			return c, nil
		}
	}
	return ChainOption{}, configurationError("unrecognized chain", ErrUnknownChain).WithDetails("chain", id)
}

// ChainDisplayName returns the display name for a chain id, falling back to
// the id itself for unknown chains so labels never render empty.
func ChainDisplayName(id string) string {
	if c, err := ChainByID(id); err == nil {
		return c.DisplayName
	}
	return id
}

// CryptoOption is a supported stablecoin.
type CryptoOption struct {
	// Symbol is the token symbol (e.g. "USDC").
	Symbol string

	// DisplayName is the human-readable coin name (e.g. "USD Coin").
	DisplayName string

	// USDRate is the USD price of one coin unit, used to convert the
	// session's fiat amount into coin units.
	USDRate decimal.Decimal
}

// Supported coin definitions.
var (
	USDC = CryptoOption{
		Symbol:      "USDC",
		DisplayName: "USD Coin",
		USDRate:     decimal.RequireFromString("1.0"),
	}

	USDT = CryptoOption{
		Symbol:      "USDT",
		DisplayName: "Tether",
		USDRate:     decimal.RequireFromString("1.001"),
	}

	EURC = CryptoOption{
		Symbol:      "EURC",
		DisplayName: "Euro Coin",
		USDRate:     decimal.RequireFromString("0.92"),
	}
)

// SupportedCoins lists every stablecoin the checkout accepts, in display
// order.
var SupportedCoins = []CryptoOption{USDC, USDT, EURC}

// CoinBySymbol resolves a coin symbol to its definition. The lookup is
// case-insensitive on the symbol.
func CoinBySymbol(symbol string) (CryptoOption, error) {
	for _, c := range SupportedCoins {
		if strings.EqualFold(c.Symbol, symbol) {
			return c, nil
		}
	}
	return CryptoOption{}, configurationError("unrecognized coin", ErrUnknownCoin).WithDetails("coin", symbol)
}

// RequiredCoinAmount converts a fiat price into coin units for the given
// coin, rounded to 2 decimal places.
func RequiredCoinAmount(price decimal.Decimal, coinSymbol string) (decimal.Decimal, error) {
	coin, err := CoinBySymbol(coinSymbol)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Div(coin.USDRate).Round(2), nil
}

// ExplorerTxURL returns the block-explorer URL for a settlement hash on the
// given chain.
func ExplorerTxURL(chainID, txHash string) (string, error) {
	chain, err := ChainByID(chainID)
	if err != nil {
		return "", err
	}
	return chain.ExplorerTxPrefix + txHash, nil
}
