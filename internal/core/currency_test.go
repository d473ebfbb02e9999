package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestParseCurrency(t *testing.T) {
	tests := map[string]Currency{"inr": INR, " INR ": INR, "usd": USD, "": USD, "eur": USD}
	for in, want := range tests {
		if got := ParseCurrency(in); got != want {
			t.Errorf("ParseCurrency(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestExchangeRates_Format(t *testing.T) {
	rates := NewExchangeRates(83.52, "")

	if got := rates.Format(12.5, USD); got != "$12.50" {
		t.Errorf("Format(USD) = %q, want $12.50", got)
	}
	if got := rates.Format(12.5, INR); got != "₹1044" {
		t.Errorf("Format(INR) = %q, want ₹1044", got)
	}
	if got := rates.Convert(10, USD); got != 10 {
		t.Errorf("Convert(USD) = %v, want unchanged", got)
	}
}

func TestExchangeRates_Refresh(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		w.Write([]byte(`{"usd":{"inr":84.25}}`))
	}))
	defer srv.Close()

	rates := NewExchangeRates(0, srv.URL)
	if rates.INRPerUSD() != DefaultINRPerUSD {
		t.Fatalf("initial rate = %v, want default", rates.INRPerUSD())
	}

	rates.refresh(context.Background())
	if rates.INRPerUSD() != 84.25 || rates.UpdatedAt().IsZero() {
		t.Errorf("rate = %v updated %v, want 84.25", rates.INRPerUSD(), rates.UpdatedAt())
	}

	status.Store(http.StatusInternalServerError)
	rates.refresh(context.Background())
	if rates.INRPerUSD() != 84.25 {
		t.Errorf("rate = %v after failed fetch, want previous 84.25", rates.INRPerUSD())
	}
}
