package city

import "math"

// Wallet is the money collaborator. The engine only asks whether a charge is
// affordable and then applies it; balances and income live elsewhere.
type Wallet interface {
	CanAfford(amount int) bool
	Charge(amount int)
	Refund(amount int)
}

// Prices are the per-piece costs charged through the Wallet.
type Prices struct {
	Road    int
	House   int
	Special int
}

// DefaultPrices match the stock city settings.
var DefaultPrices = Prices{Road: 20, House: 100, Special: 300}

type freeWallet struct{}

func (freeWallet) CanAfford(int) bool { return true }
func (freeWallet) Charge(int)         {}
func (freeWallet) Refund(int)         {}

// Purse is a plain balance Wallet.
type Purse struct {
	Balance int
}

func (p *Purse) CanAfford(amount int) bool { return p.Balance >= amount }
func (p *Purse) Charge(amount int)         { p.Balance -= amount }
func (p *Purse) Refund(amount int)         { p.Balance += amount }

// RefundOnRemoval returns a listener paying back rate×price whenever a
// committed placement is deleted. Roads, houses and specials refund their own
// price.
func RefundOnRemoval(w Wallet, prices Prices, rate float64) Listener {
	return func(e Event) {
		if e.Kind != EventRemoved {
			return
		}
		var price int
		switch e.Type {
		case Road:
			price = prices.Road
		case Structure:
			price = prices.House
		case SpecialStructure:
			price = prices.Special
		default:
			return
		}
		w.Refund(int(math.Round(float64(price) * rate)))
	}
}
