package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// Code is an ISO 4217 display currency
type Code string

const (
	USD Code = "USD"
	TRY Code = "TRY"
)

var symbols = map[Code]string{
	USD: "$",
	TRY: "₺",
}

// DefaultRates converts a USD amount into the display currency
func DefaultRates() map[Code]decimal.Decimal {
	return map[Code]decimal.Decimal{
		USD: decimal.NewFromInt(1),
		TRY: decimal.NewFromInt(34),
	}
}

// ParseCode normalises a user supplied currency code
func ParseCode(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := symbols[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// ParseRates reads decimal-string rates keyed by currency code. An empty map yields DefaultRates.
func ParseRates(raw map[string]string) (map[Code]decimal.Decimal, error) {
	if len(raw) == 0 {
		return DefaultRates(), nil
	}
	rates := make(map[Code]decimal.Decimal, len(raw))
	for k, v := range raw {
		code, err := ParseCode(k)
		if err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", code, err)
		}
		rates[code] = rate
	}
	return rates, nil
}

// Load builds Settings from configuration strings
func Load(def string, raw map[string]string) (*Settings, error) {
	code, err := ParseCode(def)
	if err != nil {
		return nil, err
	}
	rates, err := ParseRates(raw)
	if err != nil {
		return nil, err
	}
	return NewSettings(code, rates)
}

// Settings holds the default display currency and the rate table. Subscribers
// receive every change of the default; a customer preference overrides it per
// request through Resolve. Conversion is display-only; persisted totals are always USD.
type Settings struct {
	mu          sync.RWMutex
	current     Code
	rates       map[Code]decimal.Decimal
	subscribers map[int]chan Code
	nextID      int
}

func NewSettings(def Code, rates map[Code]decimal.Decimal) (*Settings, error) {
	if rates == nil {
		rates = DefaultRates()
	}
	for code, rate := range rates {
		if _, ok := symbols[code]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", code, rate)
		}
	}
	if _, ok := rates[def]; !ok {
		return nil, fmt.Errorf("%w: no rate for default currency %q", ErrUnknownCurrency, def)
	}

	return &Settings{
		current:     def,
		rates:       rates,
		subscribers: make(map[int]chan Code),
	}, nil
}

// Current returns the default display currency
func (s *Settings) Current() Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set switches the default display currency and notifies subscribers.
// Slow subscribers miss intermediate values rather than block the caller.
func (s *Settings) Set(code Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rates[code]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	if s.current == code {
		return nil
	}
	s.current = code

	for _, ch := range s.subscribers {
		select {
		case ch <- code:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of currency changes and a func that releases it
func (s *Settings) Subscribe() (<-chan Code, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Code, 1)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Rate returns the conversion rate from USD to code
func (s *Settings) Rate(code Code) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return rate, nil
}

// Format renders a USD amount in the given currency, e.g. "$180.00" or "₺6120.00"
func (s *Settings) Format(amount decimal.Decimal, code Code) (string, error) {
	rate, err := s.Rate(code)
	if err != nil {
		return "", err
	}
	return symbols[code] + amount.Mul(rate).StringFixed(2), nil
}

// FormatCurrent renders a USD amount in the active display currency
func (s *Settings) FormatCurrent(amount decimal.Decimal) string {
	out, err := s.Format(amount, s.Current())
	if err != nil {
		return symbols[USD] + amount.StringFixed(2)
	}
	return out
}

// Resolve returns preferred when it names a configured currency, else the default
func (s *Settings) Resolve(preferred string) Code {
	if preferred == "" {
		return s.Current()
	}
	code, err := ParseCode(preferred)
	if err != nil {
		return s.Current()
	}
	if _, err := s.Rate(code); err != nil {
		return s.Current()
	}
	return code
}

// FormatIn renders a USD amount in the resolved preferred currency
func (s *Settings) FormatIn(amount decimal.Decimal, preferred string) string {
	out, err := s.Format(amount, s.Resolve(preferred))
	if err != nil {
		return s.FormatCurrent(amount)
	}
	return out
}

// Available lists the configured currencies in code order
func (s *Settings) Available() []Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]Code, 0, len(s.rates))
	for code := range s.rates {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
