package vm

import "strconv"

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	// VKInvalid is the zero Value, returned alongside errors.
	VKInvalid ValueKind = iota
	// VKInt is a 32-bit signed integer.
	VKInt
	// VKBuiltin is a callable reference produced by resolving an identifier.
	VKBuiltin
)

func (k ValueKind) String() string {
	switch k {
	case VKInt:
		return "integer"
	case VKBuiltin:
		return "builtin"
	default:
		return "invalid"
	}
}

// Value is a tagged runtime value.
type Value struct {
	Kind    ValueKind
	Int     int32
	Builtin *Builtin
}

func IntValue(n int32) Value { return Value{Kind: VKInt, Int: n} }

func BuiltinValue(b *Builtin) Value { return Value{Kind: VKBuiltin, Builtin: b} }

// IsCallable reports whether the value may head a list expression.
func (v Value) IsCallable() bool {
	return v.Kind == VKBuiltin && v.Builtin != nil && v.Builtin.Fn != nil
}

func (v Value) String() string {
	switch v.Kind {
	case VKInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case VKBuiltin:
		if v.Builtin == nil {
			return "#<builtin ?>"
		}
		return "#<builtin " + v.Builtin.Name + ">"
	default:
		return "#<invalid>"
	}
}
