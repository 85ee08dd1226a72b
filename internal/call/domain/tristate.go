package domain

import "strings"

// TriState models the three-valued status flags on a call: the setter
// has answered yes, answered no, or not yet decided ("TBD"). Upstream
// payloads carry these as a mix of booleans, "true"/"false"/"null"
// strings and absent fields; ParseTriState is the single conversion
// point at the system boundary.
type TriState string

const (
	TriYes TriState = "yes"
	TriNo  TriState = "no"
	TriTBD TriState = "tbd"
)

func ParseTriState(value any) TriState {
	switch v := value.(type) {
	case nil:
		return TriTBD
	case bool:
		if v {
			return TriYes
		}
		return TriNo
	case *bool:
		if v == nil {
			return TriTBD
		}
		if *v {
			return TriYes
		}
		return TriNo
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return TriYes
		case "false", "no", "0":
			return TriNo
		default:
			return TriTBD
		}
	case TriState:
		if v.Valid() {
			return v
		}
		return TriTBD
	default:
		return TriTBD
	}
}

func (t TriState) Valid() bool {
	switch t {
	case TriYes, TriNo, TriTBD:
		return true
	default:
		return false
	}
}

func (t TriState) IsYes() bool {
	return t == TriYes
}

// Bool converts back to the nullable-boolean storage shape.
func (t TriState) Bool() *bool {
	switch t {
	case TriYes:
		v := true
		return &v
	case TriNo:
		v := false
		return &v
	default:
		return nil
	}
}
