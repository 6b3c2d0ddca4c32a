package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"commission-backend/internal/commission"
)

const (
	DirectionGrossToNet = "gross_to_net"
	DirectionNetToGross = "net_to_gross"
)

// --- DTOs ---

// TaxConfigResponse reports the retention rates in percent.
type TaxConfigResponse struct {
	IncomeTax     decimal.Decimal `json:"income_tax"`
	PIS           decimal.Decimal `json:"pis"`
	COFINS        decimal.Decimal `json:"cofins"`
	CSLL          decimal.Decimal `json:"csll"`
	ISS           decimal.Decimal `json:"iss"`
	CompositeRate decimal.Decimal `json:"composite_rate"`
}

type TaxBreakdownRequest struct {
	CommissionValue decimal.Decimal `json:"commission_value" swaggertype:"number"`
}

type TaxCalculateRequest struct {
	Amount    decimal.Decimal  `json:"amount" swaggertype:"number"`
	RatePct   *decimal.Decimal `json:"rate_pct" swaggertype:"number"` // defaults to the composite rate
	Direction string           `json:"direction"`                     // gross_to_net (default) or net_to_gross
}

type TaxCalculateResponse struct {
	Gross     decimal.Decimal `json:"gross"`
	Net       decimal.Decimal `json:"net"`
	Retained  decimal.Decimal `json:"retained"`
	RatePct   decimal.Decimal `json:"rate_pct"`
	Direction string          `json:"direction"`
}

// --- Interface ---

type TaxService interface {
	Config() TaxConfigResponse
	Breakdown(req TaxBreakdownRequest) (commission.TaxBreakdown, error)
	Calculate(req TaxCalculateRequest) (*TaxCalculateResponse, error)
}

type taxService struct {
	tax commission.TaxConfig
}

func NewTaxService(tax commission.TaxConfig) TaxService {
	return &taxService{tax: tax}
}

// --- Implementation ---

func percent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(decimal.NewFromInt(100))
}

func (s *taxService) Config() TaxConfigResponse {
	return TaxConfigResponse{
		IncomeTax:     percent(s.tax.IncomeTax),
		PIS:           percent(s.tax.PIS),
		COFINS:        percent(s.tax.COFINS),
		CSLL:          percent(s.tax.CSLL),
		ISS:           percent(s.tax.ISS),
		CompositeRate: percent(s.tax.CompositeRate()),
	}
}

func (s *taxService) Breakdown(req TaxBreakdownRequest) (commission.TaxBreakdown, error) {
	if req.CommissionValue.IsNegative() {
		return commission.TaxBreakdown{}, invalid("commission_value cannot be negative")
	}
	return s.tax.Breakdown(req.CommissionValue), nil
}

func (s *taxService) Calculate(req TaxCalculateRequest) (*TaxCalculateResponse, error) {
	if req.Amount.IsNegative() {
		return nil, invalid("amount cannot be negative")
	}
	rate := percent(s.tax.CompositeRate())
	if req.RatePct != nil {
		rate = *req.RatePct
	}
	direction := req.Direction
	if direction == "" {
		direction = DirectionGrossToNet
	}

	res := &TaxCalculateResponse{RatePct: rate, Direction: direction}
	var err error
	switch direction {
	case DirectionGrossToNet:
		res.Gross = req.Amount.Round(2)
		res.Net, err = commission.NetFromGross(req.Amount, rate)
	case DirectionNetToGross:
		res.Net = req.Amount.Round(2)
		res.Gross, err = commission.GrossFromNet(req.Amount, rate)
	default:
		return nil, invalid(fmt.Sprintf("direction must be %s or %s", DirectionGrossToNet, DirectionNetToGross))
	}
	if err != nil {
		return nil, err
	}
	res.Retained = res.Gross.Sub(res.Net)
	return res, nil
}
