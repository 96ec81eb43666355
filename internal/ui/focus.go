package ui

// FocusManager tracks which widget has keyboard focus. Order follows the
// visible widgets in document order and is refreshed after every render.
type FocusManager struct {
	Current string
	Order   []string
}

// SetOrder replaces the focus order. Focus stays on Current if it is still
// in order, otherwise it moves to the first entry.
func (f *FocusManager) SetOrder(order []string) {
	f.Order = append(f.Order[:0:0], order...)
	if indexOf(f.Order, f.Current) >= 0 {
		return
	}
	f.Current = ""
	if len(f.Order) > 0 {
		f.Current = f.Order[0]
	}
}

// Next moves focus forward, wrapping at the end.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus backward, wrapping at the start.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := indexOf(f.Order, f.Current)
	if idx < 0 {
		if delta > 0 {
			idx = -1
		} else {
			idx = 0
		}
	}
	f.Current = f.Order[((idx+delta)%n+n)%n]
	return f.Current
}

// SetFocus focuses id. It returns false, leaving focus unchanged, if id is
// not in order.
func (f *FocusManager) SetFocus(id string) bool {
	if indexOf(f.Order, id) < 0 {
		return false
	}
	f.Current = id
	return true
}
