package magnitude

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the textual factor form used by conversion definitions: an
// optional sign followed by factors joined with "*" and "/". A factor is an
// integer, "pi", or "sqrt(N)". Examples: "3/2", "1000", "pi/180",
// "254/10000", "sqrt(2)".
func Parse(s string) (Magnitude, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return Magnitude{}, fmt.Errorf("empty factor")
	}
	negative := false
	if strings.HasPrefix(src, "-") {
		negative = true
		src = strings.TrimSpace(src[1:])
	}

	out := One()
	rest := src
	invert := false
	for rest != "" {
		var tok string
		tok, rest = nextFactorToken(rest)
		factor, err := parseFactor(tok)
		if err != nil {
			return Magnitude{}, fmt.Errorf("invalid factor %q: %w", s, err)
		}
		if invert {
			factor = factor.Inverse()
		}
		out = out.Mul(factor)

		rest = strings.TrimSpace(rest)
		switch {
		case rest == "":
		case strings.HasPrefix(rest, "*"):
			invert = false
			rest = strings.TrimSpace(rest[1:])
			if rest == "" {
				return Magnitude{}, fmt.Errorf("invalid factor %q: trailing operator", s)
			}
		case strings.HasPrefix(rest, "/"):
			invert = true
			rest = strings.TrimSpace(rest[1:])
			if rest == "" {
				return Magnitude{}, fmt.Errorf("invalid factor %q: trailing operator", s)
			}
		default:
			return Magnitude{}, fmt.Errorf("invalid factor %q: unexpected %q", s, rest)
		}
	}
	if negative {
		out = out.Mul(FromInt(-1))
	}
	return out, nil
}

func nextFactorToken(s string) (tok, rest string) {
	if strings.HasPrefix(s, "sqrt(") {
		end := strings.Index(s, ")")
		if end < 0 {
			return s, ""
		}
		return s[:end+1], s[end+1:]
	}
	for i, r := range s {
		if r == '*' || r == '/' {
			return strings.TrimSpace(s[:i]), s[i:]
		}
	}
	return strings.TrimSpace(s), ""
}

func parseFactor(tok string) (Magnitude, error) {
	switch {
	case tok == "":
		return Magnitude{}, fmt.Errorf("missing operand")
	case tok == "pi":
		return Pi(), nil
	case strings.HasPrefix(tok, "sqrt(") && strings.HasSuffix(tok, ")"):
		inner := tok[len("sqrt(") : len(tok)-1]
		n, err := strconv.ParseInt(strings.TrimSpace(inner), 10, 64)
		if err != nil {
			return Magnitude{}, fmt.Errorf("bad radicand %q", inner)
		}
		return SqrtInt(n)
	default:
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return Magnitude{}, fmt.Errorf("bad integer %q", tok)
		}
		if n == 0 {
			return Magnitude{}, ErrZeroMagnitude
		}
		return FromInt(n), nil
	}
}
