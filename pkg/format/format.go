// Package format renders numbers for display with an explicit locale.
//
// A [Formatter] is created once from configuration and passed to every call
// site that prints numbers; nothing in this package reads global state.
//
//	f, err := format.Parse("de")
//	f.Int(1234567)      // "1.234.567"
//	f.Decimal(1234.5)   // "1.234,5"
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/corpusgraph/pkg/errors"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// Formatter formats numbers for one locale. It is safe for concurrent use.
type Formatter struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a formatter for tag.
func New(tag language.Tag) *Formatter {
	return &Formatter{tag: tag, p: message.NewPrinter(tag)}
}

// Default returns the DefaultLocale formatter.
func Default() *Formatter {
	return New(language.English)
}

// Parse returns a formatter for a BCP 47 locale such as "en" or "pl-PL".
// An empty locale means DefaultLocale.
func Parse(locale string) (*Formatter, error) {
	if locale == "" {
		return Default(), nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid locale %q", locale)
	}
	return New(tag), nil
}

// Locale returns the formatter's locale.
func (f *Formatter) Locale() string { return f.tag.String() }

// Int formats n with grouping separators.
func (f *Formatter) Int(n int) string {
	return f.p.Sprint(number.Decimal(n))
}

// Decimal formats x with at most two fraction digits.
func (f *Formatter) Decimal(x float64) string {
	return f.p.Sprint(number.Decimal(x, number.MaxFractionDigits(2)))
}

// Fixed formats x with exactly digits fraction digits.
func (f *Formatter) Fixed(x float64, digits int) string {
	return f.p.Sprint(number.Decimal(x, number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
}

// Percent formats a ratio (1 = 100%) with at most one fraction digit.
func (f *Formatter) Percent(ratio float64) string {
	return f.p.Sprint(number.Percent(ratio, number.MaxFractionDigits(1)))
}

// Weight formats an edge or connection weight: whole numbers without
// decimals, fractional weights with up to two digits.
func (f *Formatter) Weight(w float64) string {
	if w == math.Trunc(w) && math.Abs(w) < 1<<53 {
		return f.Int(int(w))
	}
	return f.Decimal(w)
}

// Zoom formats a viewport scale as "1.20x".
func (f *Formatter) Zoom(scale float64) string {
	return f.Fixed(scale, 2) + "x"
}
