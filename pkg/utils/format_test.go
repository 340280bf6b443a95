package utils

import "testing"

func TestFormatIndianCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{999.5, "₹999.50"},
		{1000, "₹1,000.00"},
		{123456.78, "₹1,23,456.78"},
		{12345678.9, "₹1,23,45,678.90"},
		{-4500, "-₹4,500.00"},
	}
	for _, tt := range tests {
		if got := FormatIndianCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatIndianCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(1500); got != "+₹1,500.00" {
		t.Errorf("FormatPnL(1500) = %q", got)
	}
	if got := FormatPnL(-1500); got != "-₹1,500.00" {
		t.Errorf("FormatPnL(-1500) = %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(1234567); got != "12,34,567" {
		t.Errorf("FormatQuantity(1234567) = %q", got)
	}
	if got := FormatQuantity(-500); got != "-500" {
		t.Errorf("FormatQuantity(-500) = %q", got)
	}
}
