// Package ilist implements a generic intrusive doubly-linked list: an
// ordered, owning container of nodes whose addresses stay stable across
// insertion and erasure anywhere in the sequence.
package ilist

// Node is one link in a List. Its address is stable for as long as it
// remains in the list; callers keep *Node values as positions the way an
// iterator would be kept in a node-based container.
type Node[T any] struct {
	Value T

	next, prev *Node[T]
	list       *List[T]
}

// List is a move-only, owning intrusive list. The zero value is not usable;
// construct one with New.
type List[T any] struct {
	sentinel Node[T]
	size     int
}

// New returns an empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	return l
}

// Len reports the number of elements in the list.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.size == 0 }

// Front returns the first node, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] {
	if l.Empty() {
		return nil
	}
	return l.sentinel.next
}

// Back returns the last node, or nil if the list is empty.
func (l *List[T]) Back() *Node[T] {
	if l.Empty() {
		return nil
	}
	return l.sentinel.prev
}

// Next returns the node following n, or nil if n is the last node.
func (n *Node[T]) Next() *Node[T] {
	if n.next == &n.list.sentinel {
		return nil
	}
	return n.next
}

// Prev returns the node preceding n, or nil if n is the first node.
func (n *Node[T]) Prev() *Node[T] {
	if n.prev == &n.list.sentinel {
		return nil
	}
	return n.prev
}

func (l *List[T]) insertBefore(pos *Node[T], v T) *Node[T] {
	n := &Node[T]{Value: v, list: l}
	next := pos
	prev := pos.prev
	prev.next = n
	n.prev = prev
	n.next = next
	next.prev = n
	l.size++
	return n
}

// PushBack appends v and returns its node.
func (l *List[T]) PushBack(v T) *Node[T] { return l.insertBefore(&l.sentinel, v) }

// PushFront prepends v and returns its node.
func (l *List[T]) PushFront(v T) *Node[T] { return l.insertBefore(l.sentinel.next, v) }

// InsertBefore inserts v immediately before pos and returns its node. pos
// must belong to l; a nil pos means "before end", i.e. append.
func (l *List[T]) InsertBefore(pos *Node[T], v T) *Node[T] {
	if pos == nil {
		return l.PushBack(v)
	}
	return l.insertBefore(pos, v)
}

// Erase removes n from the list. n must belong to l.
func (l *List[T]) Erase(n *Node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next, n.prev, n.list = nil, nil, nil
	l.size--
}

// PopFront removes the first node, if any.
func (l *List[T]) PopFront() {
	if f := l.Front(); f != nil {
		l.Erase(f)
	}
}

// PopBack removes the last node, if any.
func (l *List[T]) PopBack() {
	if b := l.Back(); b != nil {
		l.Erase(b)
	}
}

// All iterates every node from front to back, stopping early if yield
// returns false. It is safe to erase the current node during iteration.
func (l *List[T]) All(yield func(*Node[T]) bool) {
	for n, next := l.Front(), (*Node[T])(nil); n != nil; n = next {
		next = n.Next()
		if !yield(n) {
			return
		}
	}
}

// Values iterates every element's Value from front to back.
func (l *List[T]) Values(yield func(T) bool) {
	l.All(func(n *Node[T]) bool { return yield(n.Value) })
}
