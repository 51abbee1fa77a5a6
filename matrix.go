package checkout

import "strings"

// AcceptedPayment is one row of the merchant's accepted-payments table: a
// coin and the chains it is enabled on.
type AcceptedPayment struct {
	Token  string   `validate:"required"`
	Chains []string `validate:"min=1,dive,required"`
}

// CompatibilityMatrix answers which coins are enabled per chain and vice
// versa. Both directions are derived from one authoritative table, so the
// relation is symmetric by construction: chain ∈ ChainsFor(coin) exactly
// when coin ∈ CoinsFor(chain).
type CompatibilityMatrix struct {
	accepted []AcceptedPayment

	coins  map[string]struct{}
	chains map[string]struct{}
}

// NewCompatibilityMatrix builds a matrix from the merchant's table. Every
// token and chain in the table must be a supported coin/chain; anything
// else is a configuration error.
func NewCompatibilityMatrix(accepted []AcceptedPayment) (*CompatibilityMatrix, error) {
	if len(accepted) == 0 {
		return nil, configurationError("accepted-payments table is empty", nil)
	}

	m := &CompatibilityMatrix{
		coins:  make(map[string]struct{}),
		chains: make(map[string]struct{}),
	}
	for _, row := range accepted {
		if err := validate.Struct(row); err != nil {
			return nil, configurationError("malformed accepted-payments row", nil).
				WithDetails("cause", err.Error())
		}
		coin, err := CoinBySymbol(row.Token)
		if err != nil {
			return nil, err
		}
		if _, dup := m.coins[coin.Symbol]; dup {
			return nil, configurationError("duplicate coin in accepted-payments table", nil).
				WithDetails("coin", coin.Symbol)
		}

		normalized := AcceptedPayment{Token: coin.Symbol}
		for _, chainID := range row.Chains {
			chain, err := ChainByID(chainID)
			if err != nil {
				return nil, err
			}
			normalized.Chains = append(normalized.Chains, chain.ID)
			m.chains[chain.ID] = struct{}{}
		}

		m.accepted = append(m.accepted, normalized)
		m.coins[coin.Symbol] = struct{}{}
	}
	return m, nil
}

// ChainsFor returns the chains the given coin is enabled on, in table
// order. Unknown coins fail with a configuration error.
func (m *CompatibilityMatrix) ChainsFor(coinSymbol string) ([]string, error) {
	row, err := m.row(coinSymbol)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(row.Chains))
	copy(out, row.Chains)
	return out, nil
}

// CoinsFor returns the coins enabled on the given chain, in table order.
// Unknown chains fail with a configuration error.
func (m *CompatibilityMatrix) CoinsFor(chainID string) ([]string, error) {
	id := strings.ToLower(chainID)
	if _, ok := m.chains[id]; !ok {
		return nil, configurationError("chain not in accepted-payments table", ErrUnknownChain).
			WithDetails("chain", chainID)
	}

	var out []string
	for _, row := range m.accepted {
		for _, c := range row.Chains {
			if c == id {
				out = append(out, row.Token)
				break
			}
		}
	}
	return out, nil
}

// Enabled reports whether the (coin, chain) pair is valid.
func (m *CompatibilityMatrix) Enabled(coinSymbol, chainID string) (bool, error) {
	chains, err := m.ChainsFor(coinSymbol)
	if err != nil {
		return false, err
	}
	if _, ok := m.chains[strings.ToLower(chainID)]; !ok {
		return false, configurationError("chain not in accepted-payments table", ErrUnknownChain).
			WithDetails("chain", chainID)
	}
	for _, c := range chains {
		if strings.EqualFold(c, chainID) {
			return true, nil
		}
	}
	return false, nil
}

// FirstChainFor returns the first enabled chain for the coin, used by the
// selection auto-repair.
func (m *CompatibilityMatrix) FirstChainFor(coinSymbol string) (string, error) {
	chains, err := m.ChainsFor(coinSymbol)
	if err != nil {
		return "", err
	}
	return chains[0], nil
}

// FirstCoinFor returns the first enabled coin on the chain, used by the
// selection auto-repair.
func (m *CompatibilityMatrix) FirstCoinFor(chainID string) (string, error) {
	coins, err := m.CoinsFor(chainID)
	if err != nil {
		return "", err
	}
	return coins[0], nil
}

// FirstPair returns the first enabled (coin, chain) pair in table order,
// used to seed the selection after a successful connect.
func (m *CompatibilityMatrix) FirstPair() (coin, chain string) {
	row := m.accepted[0]
	return row.Token, row.Chains[0]
}

func (m *CompatibilityMatrix) row(coinSymbol string) (AcceptedPayment, error) {
	for _, row := range m.accepted {
		if strings.EqualFold(row.Token, coinSymbol) {
			return row, nil
		}
	}
	return AcceptedPayment{}, configurationError("coin not in accepted-payments table", ErrUnknownCoin).
		WithDetails("coin", coinSymbol)
}
