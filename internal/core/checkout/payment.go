// Package checkout holds the simulated payment form and the order receipt.
package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/hay-kot/criterio"
)

// DefaultCountry is preselected on the billing address.
const DefaultCountry = "US"

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// Address is the billing address on a payment form.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// PaymentForm is the card and billing information collected at checkout. Nothing on
// it leaves the process; payment is simulated.
type PaymentForm struct {
	CardNumber     string  `json:"cardNumber"`
	ExpiryDate     string  `json:"expiryDate"`
	CVV            string  `json:"cvv"`
	CardholderName string  `json:"cardholderName"`
	BillingAddress Address `json:"billingAddress"`
}

// Normalize formats the card number, expiry and CVV the way they are displayed and
// fills the default country.
func (f PaymentForm) Normalize() PaymentForm {
	f.CardNumber = FormatCardNumber(f.CardNumber)
	f.ExpiryDate = FormatExpiry(f.ExpiryDate)
	f.CVV = truncate(digits(f.CVV), 3)
	if strings.TrimSpace(f.BillingAddress.Country) == "" {
		f.BillingAddress.Country = DefaultCountry
	}
	return f
}

// Validate reports every invalid field at once.
func (f PaymentForm) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if len(strings.ReplaceAll(f.CardNumber, " ", "")) != 16 {
		errs = errs.Append("cardNumber", errors.New("please enter a valid 16-digit card number"))
	}
	if !expiryPattern.MatchString(f.ExpiryDate) {
		errs = errs.Append("expiryDate", errors.New("please enter expiry date in MM/YY format"))
	}
	if len(f.CVV) != 3 {
		errs = errs.Append("cvv", errors.New("please enter a valid 3-digit CVV"))
	}
	if strings.TrimSpace(f.CardholderName) == "" {
		errs = errs.Append("cardholderName", errors.New("please enter cardholder name"))
	}

	addr := f.BillingAddress
	if strings.TrimSpace(addr.Street) == "" {
		errs = errs.Append("billingAddress.street", errors.New("street address is required"))
	}
	if strings.TrimSpace(addr.City) == "" {
		errs = errs.Append("billingAddress.city", errors.New("city is required"))
	}
	if strings.TrimSpace(addr.State) == "" {
		errs = errs.Append("billingAddress.state", errors.New("state is required"))
	}
	if strings.TrimSpace(addr.ZipCode) == "" {
		errs = errs.Append("billingAddress.zipCode", errors.New("ZIP code is required"))
	}

	return errs.ToError()
}

// MaskedCard returns the card number with all but the last four digits hidden.
func (f PaymentForm) MaskedCard() string {
	d := digits(f.CardNumber)
	if len(d) <= 4 {
		return d
	}
	return strings.Repeat("*", len(d)-4) + d[len(d)-4:]
}

// FormatCardNumber keeps up to 16 digits and groups them in fours. Input with fewer
// than four digits is returned as its digits.
func FormatCardNumber(s string) string {
	d := truncate(digits(s), 16)
	if len(d) < 4 {
		return d
	}

	var groups []string
	for i := 0; i < len(d); i += 4 {
		groups = append(groups, d[i:min(i+4, len(d))])
	}
	return strings.Join(groups, " ")
}

// FormatExpiry turns "1227" or "12/27" into "12/27".
func FormatExpiry(s string) string {
	d := digits(s)
	if len(d) < 2 {
		return d
	}
	return d[:2] + "/" + truncate(d[2:], 2)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
