package calc

// Operator is a binary arithmetic operation. The zero value means no operator is pending.
type Operator uint8

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// Operators lists the selectable operators in button order.
var Operators = [...]Operator{OpDivide, OpMultiply, OpSubtract, OpAdd}

// Glyph returns the display symbol, or 0 for OpNone.
func (o Operator) Glyph() rune {
	switch o {
	case OpAdd:
		return '+'
	case OpSubtract:
		return '-'
	case OpMultiply:
		return '×'
	case OpDivide:
		return '÷'
	default:
		return 0
	}
}

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return "none"
	}
}

// OperatorForGlyph maps a display glyph back to its operator.
func OperatorForGlyph(r rune) Operator {
	for _, op := range Operators {
		if op.Glyph() == r {
			return op
		}
	}
	return OpNone
}

func (o Operator) apply(prev, cur float64) (float64, error) {
	switch o {
	case OpAdd:
		return prev + cur, nil
	case OpSubtract:
		return prev - cur, nil
	case OpMultiply:
		return prev * cur, nil
	case OpDivide:
		if cur == 0 {
			return 0, ErrDivisionByZero
		}
		return prev / cur, nil
	default:
		return 0, errNoOperator
	}
}
