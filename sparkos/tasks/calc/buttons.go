package calc

const (
	gridCols = 4
	gridRows = 5
)

type button struct {
	label    string
	ev       event
	col, row int
	span     int
}

var buttons = [...]button{
	{label: "AC", ev: event{act: actClear}, col: 0, row: 0, span: 2},
	{label: "DEL", ev: event{act: actDelete}, col: 2, row: 0, span: 1},
	{label: "÷", ev: event{act: actOperator, op: OpDivide}, col: 3, row: 0, span: 1},

	{label: "7", ev: event{act: actSymbol, r: '7'}, col: 0, row: 1, span: 1},
	{label: "8", ev: event{act: actSymbol, r: '8'}, col: 1, row: 1, span: 1},
	{label: "9", ev: event{act: actSymbol, r: '9'}, col: 2, row: 1, span: 1},
	{label: "×", ev: event{act: actOperator, op: OpMultiply}, col: 3, row: 1, span: 1},

	{label: "4", ev: event{act: actSymbol, r: '4'}, col: 0, row: 2, span: 1},
	{label: "5", ev: event{act: actSymbol, r: '5'}, col: 1, row: 2, span: 1},
	{label: "6", ev: event{act: actSymbol, r: '6'}, col: 2, row: 2, span: 1},
	{label: "-", ev: event{act: actOperator, op: OpSubtract}, col: 3, row: 2, span: 1},

	{label: "1", ev: event{act: actSymbol, r: '1'}, col: 0, row: 3, span: 1},
	{label: "2", ev: event{act: actSymbol, r: '2'}, col: 1, row: 3, span: 1},
	{label: "3", ev: event{act: actSymbol, r: '3'}, col: 2, row: 3, span: 1},
	{label: "+", ev: event{act: actOperator, op: OpAdd}, col: 3, row: 3, span: 1},

	{label: ".", ev: event{act: actSymbol, r: '.'}, col: 0, row: 4, span: 1},
	{label: "0", ev: event{act: actSymbol, r: '0'}, col: 1, row: 4, span: 1},
	{label: "=", ev: event{act: actCompute}, col: 2, row: 4, span: 2},
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout splits the screen into the two-line display on top and the button
// grid below it.
type layout struct {
	display rect
	cellW   int
	cellH   int
}

func newLayout(w, h int) layout {
	displayH := h * 5 / 16
	cellH := (h - displayH) / gridRows
	// Rounding leftovers go to the display.
	displayH = h - cellH*gridRows
	return layout{
		display: rect{w: w, h: displayH},
		cellW:   w / gridCols,
		cellH:   cellH,
	}
}

func (l layout) buttonRect(b button) rect {
	return rect{
		x: b.col * l.cellW,
		y: l.display.h + b.row*l.cellH,
		w: b.span * l.cellW,
		h: l.cellH,
	}
}

// hit returns the button under (x, y).
func (l layout) hit(x, y int) (button, bool) {
	for _, b := range buttons {
		if l.buttonRect(b).contains(x, y) {
			return b, true
		}
	}
	return button{}, false
}
