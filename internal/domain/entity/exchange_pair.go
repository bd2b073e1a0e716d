package entity

import "fmt"

// SnapshotKind tags the kind of snapshot stored under a cache key
type SnapshotKind string

const (
	// KindExchange tags single exchange rate snapshots
	KindExchange SnapshotKind = "exchange"
	// KindHistory tags daily rate history snapshots
	KindHistory SnapshotKind = "history"
)

// ExchangePair is an ordered (base, target) currency combination.
// (USD, EUR) and (EUR, USD) are different pairs.
type ExchangePair struct {
	Base   Currency
	Target Currency
}

// NewExchangePair resolves both codes against the catalog
func NewExchangePair(base, target string) (ExchangePair, error) {
	b, err := LookupCurrency(base)
	if err != nil {
		return ExchangePair{}, err
	}
	t, err := LookupCurrency(target)
	if err != nil {
		return ExchangePair{}, err
	}
	return ExchangePair{Base: b, Target: t}, nil
}

// SameCurrency reports whether base and target are the same currency
func (p ExchangePair) SameCurrency() bool {
	return p.Base.Code == p.Target.Code
}

// CacheKey derives the store key for a snapshot kind, e.g. "exchange--USD-EUR"
func (p ExchangePair) CacheKey(kind SnapshotKind) string {
	return fmt.Sprintf("%s--%s-%s", kind, p.Base.Code, p.Target.Code)
}

func (p ExchangePair) String() string {
	return p.Base.Code + "/" + p.Target.Code
}
