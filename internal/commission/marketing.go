package commission

import (
	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

// Share is the amount owed to one beneficiary of a marketing commission.
type Share struct {
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
}

// Resolution is the commission of a marketing package.
type Resolution struct {
	Total          decimal.Decimal `json:"total"`
	PerBeneficiary decimal.Decimal `json:"per_beneficiary"`
	Beneficiaries  []string        `json:"beneficiaries"`
	Shares         []Share         `json:"shares"`
}

// ResolveCommission computes a package's commission. With an explicit split the
// total is value*percentage/100 divided evenly among the beneficiaries in order;
// without one it is value*defaultRatePct/100 owed entirely to the assigned
// salesperson. Leftover cents of an uneven division go one each to the first
// beneficiaries, so the shares always add up to the total.
func ResolveCommission(pkg model.MarketingPackage, defaultRatePct decimal.Decimal) (Resolution, error) {
	split, err := pkg.Split()
	if err != nil {
		return Resolution{}, err
	}

	if split == nil {
		if defaultRatePct.IsNegative() || defaultRatePct.GreaterThan(hundred) {
			return Resolution{}, &ValidationError{Errors: []string{"default marketing rate must be within [0, 100]"}}
		}
		total := pkg.Value.Mul(defaultRatePct).Div(hundred).Round(2)
		owner := pkg.SalespersonID.String()
		return Resolution{
			Total:          total,
			PerBeneficiary: total,
			Beneficiaries:  []string{owner},
			Shares:         []Share{{Beneficiary: owner, Amount: total}},
		}, nil
	}

	var errs []string
	if len(split.Beneficiaries) == 0 {
		errs = append(errs, ErrEmptySplit.Error())
	}
	if split.Percentage.IsNegative() || split.Percentage.GreaterThan(hundred) {
		errs = append(errs, "split percentage must be within [0, 100]")
	}
	if len(errs) > 0 {
		ve := &ValidationError{Errors: errs}
		if len(split.Beneficiaries) == 0 {
			ve.cause = ErrEmptySplit
		}
		return Resolution{}, ve
	}

	total := pkg.Value.Mul(split.Percentage).Div(hundred).Round(2)
	n := int64(len(split.Beneficiaries))
	amounts := divideCents(total, n)

	beneficiaries := make([]string, len(split.Beneficiaries))
	copy(beneficiaries, split.Beneficiaries)
	shares := make([]Share, len(beneficiaries))
	for i, b := range beneficiaries {
		shares[i] = Share{Beneficiary: b, Amount: amounts[i]}
	}

	return Resolution{
		Total:          total,
		PerBeneficiary: total.DivRound(decimal.NewFromInt(n), 2),
		Beneficiaries:  beneficiaries,
		Shares:         shares,
	}, nil
}

// divideCents splits a cent-rounded amount into n parts that sum exactly to it.
func divideCents(total decimal.Decimal, n int64) []decimal.Decimal {
	cents := total.Shift(2).IntPart()
	base, rem := cents/n, cents%n
	out := make([]decimal.Decimal, n)
	for i := int64(0); i < n; i++ {
		c := base
		if i < rem {
			c++
		}
		out[i] = decimal.New(c, -2)
	}
	return out
}
