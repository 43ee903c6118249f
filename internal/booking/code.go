package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// Booking codes are human-readable sequential identifiers of the form
// "BK00001".  The sequence itself is allocated by the booking store inside
// the same transaction as the insert (see BookingStore.NextCode), so two
// concurrent creates can never observe the same value.

const codePrefix = "BK"

// FormatCode renders a sequence number as a booking code, zero-padded to
// five digits.  Sequences beyond 99999 simply widen the number.
func FormatCode(seq uint64) string {
	return fmt.Sprintf("%s%05d", codePrefix, seq)
}

// ParseCode extracts the sequence number from a booking code.  It returns
// false for values that do not carry the "BK" prefix followed by digits.
func ParseCode(code string) (uint64, bool) {
	if !strings.HasPrefix(code, codePrefix) {
		return 0, false
	}
	digits := code[len(codePrefix):]
	if digits == "" {
		return 0, false
	}
	seq, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}
