package payload

// History is a fixed-capacity ring buffer of payloads in receipt order.
// Append is O(1): once full, each insert overwrites the oldest slot instead
// of shifting survivors.
//
// History is not safe for concurrent use; the owning store serializes access.
type History struct {
	buf  []*Payload
	head int // index of the oldest payload
	size int
}

// NewHistory creates an empty history bounded at capacity payloads.
// It panics if capacity is not positive (programming error).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		panic("payload: history capacity must be positive")
	}
	return &History{buf: make([]*Payload, capacity)}
}

// Append inserts p at the tail, evicting the oldest payload when full.
// Reports whether an eviction occurred.
func (h *History) Append(p *Payload) bool {
	tail := (h.head + h.size) % len(h.buf)
	h.buf[tail] = p
	if h.size < len(h.buf) {
		h.size++
		return false
	}
	h.head = (h.head + 1) % len(h.buf)
	return true
}

// Len returns the number of stored payloads.
func (h *History) Len() int {
	return h.size
}

// Cap returns the capacity bound.
func (h *History) Cap() int {
	return len(h.buf)
}

// Page returns a contiguous slice of the history starting at offset, in
// receipt order. A limit of 0 or less means "to the end". An out-of-range
// offset yields an empty slice, not an error.
func (h *History) Page(offset, limit int) []*Payload {
	if offset < 0 {
		offset = 0
	}
	if offset >= h.size {
		return []*Payload{}
	}
	n := h.size - offset
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Payload, n)
	for i := range out {
		out[i] = h.buf[(h.head+offset+i)%len(h.buf)]
	}
	return out
}

// Clear empties the history and returns how many payloads were removed.
func (h *History) Clear() int {
	removed := h.size
	for i := range h.buf {
		h.buf[i] = nil
	}
	h.head = 0
	h.size = 0
	return removed
}
