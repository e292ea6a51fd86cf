package models

import (
	"slices"
	"strings"

	"africonnect/internal/platform/catalog"
	dErrors "africonnect/pkg/domain-errors"
)

// MethodWallet pays from the sender's platform wallet.
const MethodWallet = "wallet"

// PaymentMethod is one row of the processor table.
type PaymentMethod struct {
	Method     string
	Processor  string
	RateBps    int64
	FixedFee   int64
	Currencies []string
}

func (m PaymentMethod) Supports(currency string) bool {
	return slices.Contains(m.Currencies, currency)
}

// FeeSchedule is the read-only processor table.
type FeeSchedule struct {
	methods map[string]PaymentMethod
}

func NewFeeSchedule(methods []PaymentMethod) *FeeSchedule {
	fs := &FeeSchedule{methods: make(map[string]PaymentMethod, len(methods))}
	for _, m := range methods {
		fs.methods[m.Method] = m
	}
	return fs
}

func FeeScheduleFromCatalog(c *catalog.Catalog) *FeeSchedule {
	methods := make([]PaymentMethod, 0, len(c.PaymentMethods))
	for _, pm := range c.PaymentMethods {
		currencies := make([]string, 0, len(pm.Currencies))
		for _, cur := range pm.Currencies {
			currencies = append(currencies, strings.ToUpper(cur))
		}
		methods = append(methods, PaymentMethod{
			Method:     pm.Method,
			Processor:  pm.Processor,
			RateBps:    pm.RateBps,
			FixedFee:   pm.FixedFee,
			Currencies: currencies,
		})
	}
	return NewFeeSchedule(methods)
}

func (fs *FeeSchedule) Method(name string) (PaymentMethod, bool) {
	m, ok := fs.methods[name]
	return m, ok
}

// Calculate quotes the fee for amount in currency. The percentage part is
// rounded half up; fee plus net always equals amount.
func (fs *FeeSchedule) Calculate(method string, amount int64, currency string) (FeeQuote, error) {
	m, ok := fs.methods[method]
	if !ok {
		return FeeQuote{}, dErrors.New(dErrors.CodeUnsupportedMethod, "unsupported payment method: "+method)
	}
	if !m.Supports(currency) {
		return FeeQuote{}, dErrors.New(dErrors.CodeUnsupportedCurrency, "currency "+currency+" is not supported by "+method)
	}
	if amount < 0 {
		return FeeQuote{}, dErrors.New(dErrors.CodeValidation, "amount must not be negative")
	}
	fee := (amount*m.RateBps+5000)/10000 + m.FixedFee
	return FeeQuote{
		Method:    m.Method,
		Processor: m.Processor,
		Amount:    amount,
		Currency:  currency,
		Fee:       fee,
		NetAmount: amount - fee,
	}, nil
}
