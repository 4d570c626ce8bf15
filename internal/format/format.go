// Package format implements the Python format-spec mini-language:
// [[fill]align][sign][#][0][width][,][.precision][type]
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Align is the requested alignment.
type Align byte

const (
	AlignNone  Align = 0
	AlignLeft  Align = '<'
	AlignRight Align = '>'
	AlignCenter Align = '^'
	AlignSign  Align = '=' // pad after the sign, before the digits
)

// Spec is a parsed format specification.
type Spec struct {
	Fill      rune
	Align     Align
	Sign      byte // '+', '-', or ' '; 0 means default ('-')
	Alternate bool // '#'
	ZeroPad   bool
	Width     int
	Grouping  byte // ',' or '_'; 0 means none
	Precision int  // -1 means unspecified
	Type      byte // 'd','f','e','E','g','G','x','X','o','b','%','s', 0
}

// Parse parses a format spec string per the grammar above.
func Parse(s string) (Spec, error) {
	spec := Spec{Precision: -1}
	r := []rune(s)
	i := 0

	// [[fill]align]
	if len(r) >= 2 && isAlign(r[1]) {
		spec.Fill = r[0]
		spec.Align = Align(r[1])
		i = 2
	} else if len(r) >= 1 && isAlign(r[0]) {
		spec.Align = Align(r[0])
		i = 1
	}

	// [sign]
	if i < len(r) && (r[i] == '+' || r[i] == '-' || r[i] == ' ') {
		spec.Sign = byte(r[i])
		i++
	}

	// [#]
	if i < len(r) && r[i] == '#' {
		spec.Alternate = true
		i++
	}

	// [0]
	if i < len(r) && r[i] == '0' {
		spec.ZeroPad = true
		if spec.Align == AlignNone {
			spec.Align = AlignSign
			spec.Fill = '0'
		}
		i++
	}

	// [width]
	widthStart := i
	for i < len(r) && r[i] >= '0' && r[i] <= '9' {
		i++
	}
	if i > widthStart {
		w, err := strconv.Atoi(string(r[widthStart:i]))
		if err != nil {
			return spec, fmt.Errorf("format: bad width: %w", err)
		}
		spec.Width = w
	}

	// [,] or [_]
	if i < len(r) && (r[i] == ',' || r[i] == '_') {
		spec.Grouping = byte(r[i])
		i++
	}

	// [.precision]
	if i < len(r) && r[i] == '.' {
		i++
		precStart := i
		for i < len(r) && r[i] >= '0' && r[i] <= '9' {
			i++
		}
		p, err := strconv.Atoi(string(r[precStart:i]))
		if err != nil {
			return spec, fmt.Errorf("format: bad precision: %w", err)
		}
		spec.Precision = p
	}

	// [type]
	if i < len(r) {
		spec.Type = byte(r[i])
		i++
	}

	if i != len(r) {
		return spec, fmt.Errorf("format: trailing garbage in spec %q", s)
	}
	if spec.Fill == 0 {
		spec.Fill = ' '
	}
	return spec, nil
}

func isAlign(r rune) bool {
	switch r {
	case '<', '>', '^', '=':
		return true
	}
	return false
}

// FormatInt renders an integer value per spec.
func FormatInt(v int64, spec Spec) string {
	typ := spec.Type
	if typ == 0 {
		typ = 'd'
	}
	neg := v < 0
	var digits string
	prefix := ""
	switch typ {
	case 'd':
		digits = strconv.FormatInt(absInt(v), 10)
	case 'x':
		digits = strconv.FormatInt(absInt(v), 16)
		if spec.Alternate {
			prefix = "0x"
		}
	case 'X':
		digits = strings.ToUpper(strconv.FormatInt(absInt(v), 16))
		if spec.Alternate {
			prefix = "0X"
		}
	case 'o':
		digits = strconv.FormatInt(absInt(v), 8)
		if spec.Alternate {
			prefix = "0o"
		}
	case 'b':
		digits = strconv.FormatInt(absInt(v), 2)
		if spec.Alternate {
			prefix = "0b"
		}
	default:
		digits = strconv.FormatInt(absInt(v), 10)
	}
	if spec.Grouping != 0 && typ == 'd' {
		digits = groupDigits(digits, 3, spec.Grouping)
	}
	return assemble(neg, prefix, digits, spec)
}

// FormatFloat renders a float value per spec.
func FormatFloat(v float64, spec Spec) string {
	typ := spec.Type
	if typ == 0 {
		typ = 'g'
	}
	neg := math.Signbit(v)
	av := math.Abs(v)

	if math.IsNaN(v) {
		return assembleWord("nan", spec.Sign, false)
	}
	if math.IsInf(v, 0) {
		return assembleWord("inf", spec.Sign, neg)
	}

	prec := spec.Precision
	var digits string
	switch typ {
	case 'f', 'F':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(av, 'f', prec, 64)
	case 'e':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(av, 'e', prec, 64)
		digits = fixExponent(digits, false)
	case 'E':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(av, 'E', prec, 64)
		digits = fixExponent(digits, true)
	case '%':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(av*100, 'f', prec, 64) + "%"
	case 'g', 'G':
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(av, byte(typ), prec, 64)
	default:
		digits = strconv.FormatFloat(av, 'g', -1, 64)
	}

	if spec.Grouping != 0 {
		digits = groupFloatDigits(digits, spec.Grouping)
	}

	return assemble(neg, "", digits, spec)
}

// fixExponent is a passthrough: Go's exponent form (e+01) already matches
// Python's at-least-2-digit exponents, and strconv already emits the
// marker in the requested case, so s is returned unchanged.
func fixExponent(s string, upper bool) string {
	return s
}

func assembleWord(word string, sign byte, neg bool) string {
	if neg {
		return "-" + word
	}
	if sign == '+' {
		return "+" + word
	}
	if sign == ' ' {
		return " " + word
	}
	return word
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func groupDigits(digits string, groupSize int, sep byte) string {
	n := len(digits)
	if n <= groupSize {
		return digits
	}
	var b strings.Builder
	lead := n % groupSize
	if lead == 0 {
		lead = groupSize
	}
	b.WriteString(digits[:lead])
	for i := lead; i < n; i += groupSize {
		b.WriteByte(sep)
		b.WriteString(digits[i : i+groupSize])
	}
	return b.String()
}

func groupFloatDigits(s string, sep byte) string {
	parts := strings.SplitN(s, ".", 2)
	parts[0] = groupDigits(parts[0], 3, sep)
	return strings.Join(parts, ".")
}

// assemble applies sign, prefix, width, fill, and alignment to a rendered
// digit string, matching the Python format mini-language's composition
// order: sign and alternate-prefix are placed before any zero-padding.
func assemble(neg bool, prefix, digits string, spec Spec) string {
	var signStr string
	switch {
	case neg:
		signStr = "-"
	case spec.Sign == '+':
		signStr = "+"
	case spec.Sign == ' ':
		signStr = " "
	}

	body := signStr + prefix + digits
	pad := spec.Width - len([]rune(body))
	if pad <= 0 {
		return body
	}

	fill := spec.Fill
	switch spec.Align {
	case AlignLeft:
		return body + strings.Repeat(string(fill), pad)
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(string(fill), left) + body + strings.Repeat(string(fill), right)
	case AlignSign:
		return signStr + prefix + strings.Repeat(string(fill), pad) + digits
	default: // AlignRight or AlignNone defaults to right for numerics
		return strings.Repeat(string(fill), pad) + body
	}
}

// FormatString renders a string per spec ('<' default alignment, unlike
// numerics which default to '>').
func FormatString(s string, spec Spec) string {
	if spec.Precision >= 0 && spec.Precision < len([]rune(s)) {
		s = string([]rune(s)[:spec.Precision])
	}
	pad := spec.Width - len([]rune(s))
	if pad <= 0 {
		return s
	}
	fill := spec.Fill
	align := spec.Align
	if align == AlignNone {
		align = AlignLeft
	}
	switch align {
	case AlignRight:
		return strings.Repeat(string(fill), pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
	default:
		return s + strings.Repeat(string(fill), pad)
	}
}
