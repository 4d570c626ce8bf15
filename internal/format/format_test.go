package format

import (
	"math"
	"testing"
)

func TestFormatFloatWithGroupingAndPrecision(t *testing.T) {
	spec, err := Parse(",.2f")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatFloat(1234567.89, spec)
	if got != "1,234,567.89" {
		t.Fatalf("FormatFloat(1234567.89, \",.2f\") = %q, want %q", got, "1,234,567.89")
	}
}

func TestFormatFloatSignedExponent(t *testing.T) {
	spec, err := Parse("+.3e")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatFloat(-0.5, spec)
	if got != "-5.000e-01" {
		t.Fatalf("FormatFloat(-0.5, \"+.3e\") = %q, want %q", got, "-5.000e-01")
	}
}

func TestFormatIntAlternateHex(t *testing.T) {
	spec, err := Parse("#x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatInt(255, spec)
	if got != "0xff" {
		t.Fatalf("FormatInt(255, \"#x\") = %q, want %q", got, "0xff")
	}
}

func TestFormatFloatSignedNaN(t *testing.T) {
	spec, err := Parse("+f")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatFloat(math.NaN(), spec)
	if got != "+nan" {
		t.Fatalf("FormatFloat(NaN, \"+f\") = %q, want %q", got, "+nan")
	}
}

func TestFormatIntWidthAndFill(t *testing.T) {
	spec, err := Parse("*>8")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatInt(42, spec)
	if got != "******42" {
		t.Fatalf("FormatInt(42, \"*>8\") = %q, want %q", got, "******42")
	}
}

func TestFormatIntZeroPad(t *testing.T) {
	spec, err := Parse("05")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatInt(42, spec)
	if got != "00042" {
		t.Fatalf("FormatInt(42, \"05\") = %q, want %q", got, "00042")
	}
}

func TestFormatStringDefaultLeftAlign(t *testing.T) {
	spec, err := Parse("10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatString("hi", spec)
	if got != "hi        " {
		t.Fatalf("FormatString(%q, %q) = %q, want left-padded to width 10", "hi", "10", got)
	}
}

func TestFormatStringCenterAlign(t *testing.T) {
	spec, err := Parse("^6")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatString("hi", spec)
	if got != "  hi  " {
		t.Fatalf("FormatString(%q, %q) = %q, want %q", "hi", "^6", got, "  hi  ")
	}
}

func TestFormatIntBinaryAndOctal(t *testing.T) {
	binSpec, _ := Parse("#b")
	if got := FormatInt(5, binSpec); got != "0b101" {
		t.Fatalf("FormatInt(5, \"#b\") = %q, want %q", got, "0b101")
	}
	octSpec, _ := Parse("#o")
	if got := FormatInt(8, octSpec); got != "0o10" {
		t.Fatalf("FormatInt(8, \"#o\") = %q, want %q", got, "0o10")
	}
}

func TestFormatFloatPercent(t *testing.T) {
	spec, err := Parse(".1%")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := FormatFloat(0.5, spec)
	if got != "50.0%" {
		t.Fatalf("FormatFloat(0.5, \".1%%\") = %q, want %q", got, "50.0%")
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse("5qq"); err == nil {
		t.Fatal("Parse(\"5qq\") succeeded, want error")
	}
}
