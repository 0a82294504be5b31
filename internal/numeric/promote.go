package numeric

// Promote returns the representation ordinary arithmetic would compute in
// when combining the two representations: floats dominate integers, the
// wider type wins within a family, integers narrower than 32 bits are
// promoted to int32 first, and a mixed signed/unsigned pair resolves to the
// unsigned type when it is at least as wide.
func Promote(a, b Rep) Rep {
	if a.IsFloat() || b.IsFloat() {
		return promoteFloat(a, b)
	}
	return commonInt(promoteInt(a), promoteInt(b))
}

func promoteFloat(a, b Rep) Rep {
	switch {
	case a.IsFloat() && b.IsFloat():
		if a.bits >= b.bits {
			return a
		}
		return b
	case a.IsFloat():
		return a
	default:
		return b
	}
}

// promoteInt widens sub-word integers: every integer representation narrower
// than 32 bits can be represented in int32, so arithmetic happens there.
func promoteInt(r Rep) Rep {
	if r.bits < 32 {
		return Int32
	}
	return r
}

func commonInt(a, b Rep) Rep {
	if a.kind == b.kind {
		if a.bits >= b.bits {
			return a
		}
		return b
	}
	// Mixed signedness. The unsigned type wins when it is at least as
	// wide; otherwise the wider signed type can hold every unsigned value.
	signed, unsigned := a, b
	if a.kind == KindUnsignedInt {
		signed, unsigned = b, a
	}
	if unsigned.bits >= signed.bits {
		return unsigned
	}
	return signed
}
