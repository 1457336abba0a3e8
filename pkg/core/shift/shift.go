package shift

import "strings"

// Value is the raw content of a single (staff, date) cell in a schedule.
// Cells hold either one of the canonical symbols below, an English alias,
// or a free-text label (e.g. "10-18") which is treated as a working shift.
type Value string

// Canonical cell symbols
const (
	Off         Value = "×"
	Early       Value = "△"
	Late        Value = "◇"
	Normal      Value = "○"
	Blank       Value = ""
	Holiday     Value = "★"
	Unavailable Value = "－"
)

// Kind is the classified meaning of a cell
type Kind string

const (
	KindOff         Kind = "off"
	KindEarly       Kind = "early"
	KindLate        Kind = "late"
	KindNormal      Kind = "normal"
	KindHoliday     Kind = "holiday"
	KindUnavailable Kind = "unavailable"

	// KindOther is any unrecognized, non-empty label. It counts as working.
	KindOther Kind = "other"
)

// aliases maps accepted spellings (lower-cased, trimmed) to their kind
var aliases = map[string]Kind{
	string(Off):         KindOff,
	"off":               KindOff,
	"x":                 KindOff,
	string(Early):       KindEarly,
	"early":             KindEarly,
	string(Late):        KindLate,
	"late":              KindLate,
	string(Normal):      KindNormal,
	"normal":            KindNormal,
	"working":           KindNormal,
	string(Holiday):     KindHoliday,
	"holiday":           KindHoliday,
	string(Unavailable): KindUnavailable,
	"unavailable":       KindUnavailable,
}

// Classify maps a raw cell value to its kind. It is total: blank cells are
// normal working shifts and unrecognized labels are KindOther.
func Classify(v Value) Kind {
	s := strings.ToLower(strings.TrimSpace(string(v)))
	if s == "" {
		return KindNormal
	}
	if kind, ok := aliases[s]; ok {
		return kind
	}
	return KindOther
}

// Parse returns the canonical value for a kind name or symbol.
// Unrecognized labels are returned trimmed but otherwise unchanged.
func Parse(s string) Value {
	switch Classify(Value(s)) {
	case KindOff:
		return Off
	case KindEarly:
		return Early
	case KindLate:
		return Late
	case KindNormal:
		if strings.TrimSpace(s) == "" {
			return Blank
		}
		return Normal
	case KindHoliday:
		return Holiday
	case KindUnavailable:
		return Unavailable
	default:
		return Value(strings.TrimSpace(s))
	}
}

// IsOffDay reports whether the staff member is not working that day.
// Holidays count as off days.
func IsOffDay(v Value) bool {
	kind := Classify(v)
	return kind == KindOff || kind == KindHoliday
}

// IsEarlyShift reports whether the value is an early shift
func IsEarlyShift(v Value) bool {
	return Classify(v) == KindEarly
}

// IsLateShift reports whether the value is a late shift
func IsLateShift(v Value) bool {
	return Classify(v) == KindLate
}

// IsNormalShift reports whether the value is a normal (or blank) shift
func IsNormalShift(v Value) bool {
	return Classify(v) == KindNormal
}

// IsWorkingShift reports whether the staff member is working that day.
// This is the negation of IsOffDay for every value except Unavailable,
// which is neither off nor working.
func IsWorkingShift(v Value) bool {
	if Classify(v) == KindUnavailable {
		return false
	}
	return !IsOffDay(v)
}

// Matches reports whether a value satisfies a required kind. KindNormal is
// satisfied by any working value other than an early or late shift, and
// KindOff by any off day.
func Matches(v Value, required Kind) bool {
	switch required {
	case KindOff:
		return IsOffDay(v)
	case KindNormal, KindOther:
		return IsWorkingShift(v) && !IsEarlyShift(v) && !IsLateShift(v)
	default:
		return Classify(v) == required
	}
}

// IsValidKind reports whether k is one of the recognised kinds
func IsValidKind(k Kind) bool {
	switch k {
	case KindOff, KindEarly, KindLate, KindNormal, KindHoliday, KindUnavailable, KindOther:
		return true
	}
	return false
}
