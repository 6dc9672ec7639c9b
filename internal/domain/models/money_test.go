package models

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{math.NaN(), "₹0"},
		{math.Inf(1), "₹0"},
		{5, "₹5"},
		{1234, "₹1,234"},
		{1234.5, "₹1,234.5"},
		{1234.567, "₹1,234.57"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{-500, "-₹500"},
		{-1234567.89, "-₹12,34,567.89"},
	}
	for i, tc := range cases {
		if got := FormatCurrency(tc.amount); got != tc.want {
			t.Fatalf("case %d: FormatCurrency(%v) = %q, want %q", i, tc.amount, got, tc.want)
		}
	}
}

func TestNum(t *testing.T) {
	if Num(math.NaN()) != 0 || Num(math.Inf(-1)) != 0 {
		t.Fatal("non-finite values must coerce to 0")
	}
	if Num(-12.5) != -12.5 {
		t.Fatal("finite values must pass through")
	}
}

func TestParseNum(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{" 2.5 ", 2.5},
		{"", 0},
		{"abc", 0},
		{"-300", -300},
	}
	for i, tc := range cases {
		if got := ParseNum(tc.in); got != tc.want {
			t.Fatalf("case %d: ParseNum(%q) = %v, want %v", i, tc.in, got, tc.want)
		}
	}
}
