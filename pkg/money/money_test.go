package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/daghlis/gallery-backend/pkg/enums"
)

func TestFromMajorRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{in: "1250", want: 125000},
		{in: "12.5", want: 1250},
		{in: "0.005", want: 1},
		{in: "0.004", want: 0},
		{in: "-0.005", want: -1},
	}
	for _, tt := range tests {
		if got := FromMajor(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("FromMajor(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMulRate(t *testing.T) {
	if got := Amount(5000).MulRate(decimal.RequireFromString("0.2")); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
	// 13 * 0.2 = 2.6 rounds to 3 minor units
	if got := Amount(13).MulRate(decimal.RequireFromString("0.2")); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestStringAndParse(t *testing.T) {
	if got := Amount(125000).String(); got != "1250.00" {
		t.Fatalf("unexpected string %q", got)
	}
	a, err := ParseMajor(" 87.5 ")
	if err != nil || a != 8750 {
		t.Fatalf("unexpected parse %d %v", a, err)
	}
	if _, err := ParseMajor("abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseCurrency(t *testing.T) {
	if _, err := ParseCurrency("eur"); err != nil {
		t.Fatalf("EUR should parse: %v", err)
	}
	if _, err := ParseCurrency("JPY"); err == nil {
		t.Fatalf("zero-decimal currencies are rejected")
	}
	if _, err := ParseCurrency("XX1"); err == nil {
		t.Fatalf("unknown codes are rejected")
	}
}

func TestFormatIncludesSymbol(t *testing.T) {
	unit, err := ParseCurrency("EUR")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	en := Format(125000, unit, enums.LanguageEnglish)
	if !strings.HasPrefix(en, "€") || !strings.Contains(en, "1,250.00") {
		t.Fatalf("unexpected english format %q", en)
	}
	fr := Format(125000, unit, enums.LanguageFrench)
	if !strings.HasSuffix(fr, "€") || !strings.Contains(fr, ",00") {
		t.Fatalf("unexpected french format %q", fr)
	}
}
