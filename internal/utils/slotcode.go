package utils

import "regexp"

// slotCodeRe matches one uppercase ASCII letter followed by four
// decimal digits, e.g. M1001.  This is the wire contract for slot
// codes; anything else is rejected before touching the registry.
var slotCodeRe = regexp.MustCompile(`^[A-Z]\d{4}$`)

// ValidSlotCode reports whether the given code is a well-formed slot code.
func ValidSlotCode(code string) bool {
    return slotCodeRe.MatchString(code)
}
