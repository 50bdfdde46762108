package source

// Loc is a position reference that may chain to an inner cause, expressing
// "error at A, caused by B". The outermost link carries the primary span;
// every inner link carries the position it points at plus the message
// relating it to its parent ("this is the assertion that failed").
type Loc struct {
	Span  Span
	Msg   string // relating message, empty on the outermost link
	Inner *Loc
}

// At wraps a span into a simple, non-nested location.
func At(span Span) Loc {
	return Loc{Span: span}
}

// Nest returns a copy of l chaining to inner, related by msg.
func (l Loc) Nest(msg string, inner Loc) Loc {
	nested := inner
	nested.Msg = msg
	l.Inner = &nested
	return l
}

// Walk visits the chain from the outermost link inward.
func (l Loc) Walk(visit func(span Span, msg string)) {
	cur := &l
	for cur != nil {
		visit(cur.Span, cur.Msg)
		cur = cur.Inner
	}
}
