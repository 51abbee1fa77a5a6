package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// The four merchant scenarios for the USDC-on-Polygon checkout, plus the
// precedence edge where an insufficient injected balance must not eclipse
// an empty primary wallet.
func TestEvaluateBalance_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		primary        string
		injected       string
		hasInjected    bool
		required       string
		wantSufficient bool
		wantLabel      string
		wantSource     BalanceSource
		wantShow       bool
		wantDisplay    string
	}{
		{
			name:           "both empty",
			primary:        "0",
			injected:       "0",
			hasInjected:    true,
			required:       "100",
			wantSufficient: false,
			wantLabel:      "Add USDC + Polygon",
			wantSource:     BalanceSourceNone,
			wantShow:       false,
		},
		{
			name:           "partial primary, no injected",
			primary:        "40",
			injected:       "0",
			hasInjected:    false,
			required:       "100",
			wantSufficient: false,
			wantLabel:      "Add USDC to Pay",
			wantSource:     BalanceSourcePrimary,
			wantShow:       true,
			wantDisplay:    "40",
		},
		{
			name:           "injected sufficient wins over partial primary",
			primary:        "40",
			injected:       "150",
			hasInjected:    true,
			required:       "100",
			wantSufficient: true,
			wantLabel:      "Pay USDC on Polygon",
			wantSource:     BalanceSourceInjected,
			wantShow:       true,
			wantDisplay:    "150",
		},
		{
			name:           "insufficient injected is ignored, primary shown",
			primary:        "75",
			injected:       "90",
			hasInjected:    true,
			required:       "100",
			wantSufficient: false,
			wantLabel:      "Add USDC to Pay",
			wantSource:     BalanceSourcePrimary,
			wantShow:       true,
			wantDisplay:    "75",
		},
		{
			name:           "insufficient injected with empty primary shows nothing",
			primary:        "0",
			injected:       "90",
			hasInjected:    true,
			required:       "100",
			wantSufficient: false,
			wantLabel:      "Add USDC + Polygon",
			wantSource:     BalanceSourceNone,
			wantShow:       false,
		},
		{
			name:           "primary exactly covers the amount",
			primary:        "100",
			injected:       "0",
			hasInjected:    false,
			required:       "100",
			wantSufficient: true,
			wantLabel:      "Pay USDC on Polygon",
			wantSource:     BalanceSourcePrimary,
			wantShow:       true,
			wantDisplay:    "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EvaluateBalance(BalanceInput{
				Required:    dec(tt.required),
				Primary:     dec(tt.primary),
				Injected:    dec(tt.injected),
				HasInjected: tt.hasInjected,
				Coin:        "USDC",
				ChainName:   "Polygon",
			})

			if v.Sufficient != tt.wantSufficient {
				t.Errorf("Sufficient = %v, want %v", v.Sufficient, tt.wantSufficient)
			}
			if v.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", v.Label, tt.wantLabel)
			}
			if v.DisplaySource != tt.wantSource {
				t.Errorf("DisplaySource = %q, want %q", v.DisplaySource, tt.wantSource)
			}
			if v.ShowBalance != tt.wantShow {
				t.Errorf("ShowBalance = %v, want %v", v.ShowBalance, tt.wantShow)
			}
			if tt.wantShow && !v.DisplayBalance.Equal(dec(tt.wantDisplay)) {
				t.Errorf("DisplayBalance = %s, want %s", v.DisplayBalance, tt.wantDisplay)
			}
		})
	}
}

func TestEvaluateBalance_ZeroBalanceNeverSufficient(t *testing.T) {
	for _, required := range []string{"0.01", "1", "100", "99999.99"} {
		v := EvaluateBalance(BalanceInput{
			Required:  dec(required),
			Primary:   decimal.Zero,
			Coin:      "USDT",
			ChainName: "Base",
		})
		if v.Sufficient {
			t.Errorf("required %s: zero balance reported sufficient", required)
		}
		if v.Label != "Add USDT + Base" {
			t.Errorf("required %s: Label = %q", required, v.Label)
		}
	}
}

func TestEvaluateBalance_PrimarySufficiencyMatchesComparison(t *testing.T) {
	required := dec("123.45")
	for _, balance := range []string{"0.01", "123.44", "123.45", "123.46", "5000"} {
		b := dec(balance)
		v := EvaluateBalance(BalanceInput{
			Required:  required,
			Primary:   b,
			Coin:      "USDC",
			ChainName: "Ethereum",
		})
		want := b.GreaterThanOrEqual(required)
		if v.Sufficient != want {
			t.Errorf("balance %s: Sufficient = %v, want %v", balance, v.Sufficient, want)
		}
	}
}

// Evaluation is pure: the same input always yields the same verdict.
func TestEvaluateBalance_Pure(t *testing.T) {
	in := BalanceInput{
		Required:    dec("100"),
		Primary:     dec("40"),
		Injected:    dec("150"),
		HasInjected: true,
		Coin:        "EURC",
		ChainName:   "Arbitrum",
	}
	first := EvaluateBalance(in)
	second := EvaluateBalance(in)
	if first.Label != second.Label || first.Sufficient != second.Sufficient ||
		first.DisplaySource != second.DisplaySource || !first.DisplayBalance.Equal(second.DisplayBalance) {
		t.Errorf("verdicts differ: %+v vs %+v", first, second)
	}
}
