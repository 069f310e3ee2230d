package hpack

// appendInt writes value using the HPACK variable-length integer
// representation (RFC 7541 §5.1) into buf, OR-ing the high bits of the first
// byte with otherBits. prefixBits is the width of the prefix, 1-8.
//
// Generalized so the caller supplies the fixed high bits of the first byte
// (0x80, 0x40, 0x10, 0x00, or a size-update's 0x20) instead of hard-coding
// one representation.
func appendInt(buf []byte, value uint32, prefixBits int, otherBits byte) ([]byte, bool) {
	prefixMax := uint32(1)<<uint(prefixBits) - 1

	if value < prefixMax {
		return append(buf, otherBits|byte(value)), true
	}

	buf = append(buf, otherBits|byte(prefixMax))
	value -= prefixMax

	for value >= 0x80 {
		buf = append(buf, byte(value&0x7f)|0x80)
		value >>= 7
	}
	return append(buf, byte(value)), true
}

// decodeInt reads an HPACK variable-length integer with the given prefix
// width from input, returning the value and the number of bytes consumed.
// Values are bounded to fit a 28-bit accumulator past the prefix; anything
// larger is ErrIntegerOverflow.
func decodeInt(input []byte, prefixBits int) (value uint32, advance int, err error) {
	if len(input) == 0 {
		return 0, 0, ErrTruncatedInput
	}

	prefixMax := uint32(1)<<uint(prefixBits) - 1
	mask := byte(prefixMax)

	v := uint32(input[0] & mask)
	if v < prefixMax {
		return v, 1, nil
	}

	shift := uint(0)
	i := 1
	for {
		if i >= len(input) {
			return 0, 0, ErrTruncatedInput
		}
		b := input[i]
		i++

		if shift > 28 {
			return 0, 0, ErrIntegerOverflow
		}
		cont := uint32(b & 0x7f)
		if cont > 0 && shift >= 28 {
			return 0, 0, ErrIntegerOverflow
		}
		v += cont << shift
		shift += 7

		if b&0x80 == 0 {
			break
		}
	}
	return v, i, nil
}
