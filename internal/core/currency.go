package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a display currency. Stored amounts are always USD.
type Currency string

const (
	USD Currency = "USD"
	INR Currency = "INR"
)

// DefaultINRPerUSD is used until a live rate has been fetched.
const DefaultINRPerUSD = 83.5

// ParseCurrency accepts "usd" or "inr" in any case. Anything else is USD.
func ParseCurrency(s string) Currency {
	if strings.EqualFold(strings.TrimSpace(s), string(INR)) {
		return INR
	}
	return USD
}

// Symbol returns the currency sign.
func (c Currency) Symbol() string {
	if c == INR {
		return "₹"
	}
	return "$"
}

// ExchangeRates holds the USD to INR display rate. The zero value is not
// usable; create one with NewExchangeRates.
type ExchangeRates struct {
	fallback float64
	url      string
	client   *http.Client

	mu        sync.RWMutex
	inrPerUSD float64
	updatedAt time.Time
}

// NewExchangeRates creates rates starting at fallback. When url is not
// empty, the scheduler reloads the rate from it; the body must look like
// {"usd":{"inr":83.1}}.
func NewExchangeRates(fallback float64, url string) *ExchangeRates {
	if fallback <= 0 {
		fallback = DefaultINRPerUSD
	}
	return &ExchangeRates{
		fallback:  fallback,
		url:       url,
		client:    &http.Client{Timeout: 10 * time.Second},
		inrPerUSD: fallback,
	}
}

// INRPerUSD returns the current rate.
func (r *ExchangeRates) INRPerUSD() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inrPerUSD
}

// UpdatedAt returns when the rate was last fetched, zero if never.
func (r *ExchangeRates) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatedAt
}

// Convert turns a USD amount into the display currency.
func (r *ExchangeRates) Convert(usd float64, to Currency) float64 {
	if to != INR {
		return usd
	}
	return usd * r.INRPerUSD()
}

// Format renders a USD amount in the display currency: dollars with
// cents, rupees as whole numbers.
func (r *ExchangeRates) Format(usd float64, to Currency) string {
	v := r.Convert(usd, to)
	if to == INR {
		return INR.Symbol() + decimal.NewFromFloat(v).Round(0).String()
	}
	return USD.Symbol() + MoneyString(v)
}

// refresh fetches the rate, keeping the previous one on any failure.
func (r *ExchangeRates) refresh(ctx context.Context) {
	if r.url == "" {
		return
	}
	rate, err := r.fetch(ctx)
	if err != nil {
		slog.Warn("exchange rate fetch failed, keeping previous rate", "error", err, "rate", r.INRPerUSD())
		return
	}
	r.mu.Lock()
	r.inrPerUSD = rate
	r.updatedAt = time.Now()
	r.mu.Unlock()
	slog.Debug("exchange rate updated", "inr_per_usd", rate)
}

func (r *ExchangeRates) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate api status %d", resp.StatusCode)
	}

	var body struct {
		USD struct {
			INR float64 `json:"inr"`
		} `json:"usd"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode rate: %w", err)
	}
	if body.USD.INR <= 0 || math.IsNaN(body.USD.INR) {
		return r.fallback, nil
	}
	return body.USD.INR, nil
}
