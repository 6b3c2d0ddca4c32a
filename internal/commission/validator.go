package commission

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

const (
	maxNameLen  = 255
	maxEmailLen = 255
	maxPhoneLen = 50
	minPassword = 8
)

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	orderNumberPattern = regexp.MustCompile(`^\d{6}$`)
	monthPattern       = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// Result collects every violated rule of one input.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (r *Result) add(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err returns the result as a *ValidationError, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

func newResult() Result { return Result{Valid: true} }

// SaleInput is a sale as submitted by a client. Pointer fields distinguish
// "absent" from zero.
type SaleInput struct {
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	GrossValue    *decimal.Decimal
	Discount      *decimal.Decimal
	CommissionPct *decimal.Decimal
	SaleDate      string
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ValidateSale checks a sale input. The sale date may be today but not later,
// comparing the written day with today in now's location.
func ValidateSale(in SaleInput, now time.Time) Result {
	r := newResult()

	name := strings.TrimSpace(in.ClientName)
	switch {
	case name == "":
		r.add("client name is required")
	case utf8.RuneCountInString(name) > maxNameLen:
		r.add("client name must be at most %d characters", maxNameLen)
	}

	if in.GrossValue == nil {
		r.add("gross value is required")
	} else if !in.GrossValue.IsPositive() {
		r.add("gross value must be greater than zero")
	}

	if in.Discount != nil {
		if in.Discount.IsNegative() {
			r.add("discount cannot be negative")
		}
		if in.GrossValue != nil && in.Discount.GreaterThanOrEqual(*in.GrossValue) {
			r.add("discount must be less than gross value")
		}
	}

	if in.CommissionPct == nil {
		r.add("commission percentage is required")
	} else if in.CommissionPct.IsNegative() || in.CommissionPct.GreaterThan(hundred) {
		r.add("commission percentage must be between 0 and 100")
	}

	if strings.TrimSpace(in.SaleDate) == "" {
		r.add("sale date is required")
	} else if d, err := ParseDate(in.SaleDate); err != nil {
		r.add("sale date is not a valid date")
	} else if CalendarDay(d).After(CalendarDay(now)) {
		r.add("sale date cannot be in the future")
	}

	if email := strings.TrimSpace(in.ClientEmail); email != "" {
		if len(email) > maxEmailLen || !emailPattern.MatchString(email) {
			r.add("client email is not a valid address")
		}
	}
	if utf8.RuneCountInString(in.ClientPhone) > maxPhoneLen {
		r.add("client phone must be at most %d characters", maxPhoneLen)
	}

	return r
}

// CalendarDay is the date as written in t's own offset, at midnight UTC.
// Sale dates are stored and compared this way.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UserInput is a user profile as submitted by a client. Role and Password
// are checked only when present.
type UserInput struct {
	Name     string
	Email    string
	Role     *string
	Password *string
}

// assignableRoles are the profiles an operator may give a user. Finance
// accounts come from provisioning only.
var assignableRoles = []model.Role{model.RoleAdmin, model.RoleSalesperson, model.RoleManager}

// ValidateUser checks a user profile.
func ValidateUser(in UserInput) Result {
	r := newResult()

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		r.add("name is required")
	case utf8.RuneCountInString(name) > maxNameLen:
		r.add("name must be at most %d characters", maxNameLen)
	}

	switch {
	case strings.TrimSpace(in.Email) == "":
		r.add("email is required")
	case len(in.Email) > maxEmailLen:
		r.add("email must be at most %d characters", maxEmailLen)
	case !emailPattern.MatchString(in.Email):
		r.add("email is not a valid address")
	}

	if in.Role != nil && !assignable(*in.Role) {
		r.add("role must be one of admin, salesperson, manager")
	}

	if in.Password != nil {
		r.Errors = append(r.Errors, ValidatePassword(*in.Password).Errors...)
		if len(r.Errors) > 0 {
			r.Valid = false
		}
	}
	return r
}

func assignable(role string) bool {
	for _, r := range assignableRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// ValidatePassword checks password strength: at least 8 characters with an
// upper case letter, a lower case letter, a digit and a special character.
func ValidatePassword(pw string) Result {
	r := newResult()
	if utf8.RuneCountInString(pw) < minPassword {
		r.add("password must be at least %d characters", minPassword)
	}
	var upper, lower, digit, special bool
	for _, c := range pw {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			special = true
		}
	}
	if !upper {
		r.add("password must contain an upper case letter")
	}
	if !lower {
		r.add("password must contain a lower case letter")
	}
	if !digit {
		r.add("password must contain a digit")
	}
	if !special {
		r.add("password must contain a special character")
	}
	return r
}

// PackageInput is a marketing package as submitted by a client.
type PackageInput struct {
	OrderNumber    string
	ClientName     string
	ReferenceMonth string
	Tier           string
	Split          *model.CommissionSplit
}

// ValidatePackage checks a marketing package against the configured price table.
func ValidatePackage(in PackageInput, prices map[model.PackageTier]decimal.Decimal) Result {
	r := newResult()

	if !orderNumberPattern.MatchString(in.OrderNumber) {
		r.add("order number must have exactly 6 digits")
	}
	name := strings.TrimSpace(in.ClientName)
	switch {
	case name == "":
		r.add("client name is required")
	case utf8.RuneCountInString(name) > maxNameLen:
		r.add("client name must be at most %d characters", maxNameLen)
	}
	if !monthPattern.MatchString(in.ReferenceMonth) {
		r.add("reference month must be in YYYY-MM format")
	}
	if _, ok := prices[model.PackageTier(in.Tier)]; !ok {
		r.add("unknown package tier %q", in.Tier)
	}

	if in.Split != nil {
		if !in.Split.Percentage.IsPositive() || in.Split.Percentage.GreaterThan(hundred) {
			r.add("split percentage must be greater than 0 and at most 100")
		}
		if len(in.Split.Beneficiaries) == 0 {
			r.add("%s", ErrEmptySplit.Error())
		}
		for i, b := range in.Split.Beneficiaries {
			if strings.TrimSpace(b) == "" {
				r.add("split beneficiary %d is empty", i+1)
			}
		}
	}
	return r
}
