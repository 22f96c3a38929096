package oliver

import "strings"

// List is a distinct, indexable container of values, separate from
// Expression. Indexing is 1-based; index 0 and indices whose absolute
// value exceeds the size yield Nil; negative indices count from the end.
type List struct {
	Items []Value
}

func (*List) isValue() {}

// NewList builds a List holding the given items.
func NewList(items ...Value) *List {
	cp := make([]Value, len(items))
	copy(cp, items)
	return &List{Items: cp}
}

// Size returns the number of items in the list.
func (l *List) Size() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Get returns the item at the given 1-based ordinal, or Nil if out of
// range.
func (l *List) Get(ordinal int) Value {
	i, ok := resolveOrdinal(ordinal, l.Size())
	if !ok {
		return Nil
	}
	return l.Items[i]
}

// Set returns a new List with the item at the given ordinal replaced. Out
// of range ordinals leave the list unchanged.
func (l *List) Set(ordinal int, v Value) *List {
	i, ok := resolveOrdinal(ordinal, l.Size())
	if !ok {
		return l
	}
	items := make([]Value, len(l.Items))
	copy(items, l.Items)
	items[i] = v
	return &List{Items: items}
}

// Lead returns the first item, or Nil if the list is empty.
func (l *List) Lead() Value {
	if l.Size() == 0 {
		return Nil
	}
	return l.Items[0]
}

// Last returns the final item, or Nil if the list is empty.
func (l *List) Last() Value {
	if l.Size() == 0 {
		return Nil
	}
	return l.Items[len(l.Items)-1]
}

// PlaceLead returns a new list with v prepended.
func (l *List) PlaceLead(v Value) *List {
	if _, ok := v.(Nothing); ok {
		return l
	}
	items := make([]Value, 0, l.Size()+1)
	items = append(items, v)
	items = append(items, l.Items...)
	return &List{Items: items}
}

// PlaceLast returns a new list with v appended.
func (l *List) PlaceLast(v Value) *List {
	if _, ok := v.(Nothing); ok {
		return l
	}
	items := make([]Value, l.Size(), l.Size()+1)
	copy(items, l.Items)
	items = append(items, v)
	return &List{Items: items}
}

// ShiftLead returns a new list with the first item removed.
func (l *List) ShiftLead() *List {
	if l.Size() == 0 {
		return l
	}
	items := make([]Value, l.Size()-1)
	copy(items, l.Items[1:])
	return &List{Items: items}
}

// ShiftLast returns a new list with the final item removed.
func (l *List) ShiftLast() *List {
	if l.Size() == 0 {
		return l
	}
	items := make([]Value, l.Size()-1)
	copy(items, l.Items[:len(l.Items)-1])
	return &List{Items: items}
}

// Reverse returns a new list with the items in reverse order.
func (l *List) Reverse() *List {
	items := make([]Value, l.Size())
	for i, v := range l.Items {
		items[len(items)-1-i] = v
	}
	return &List{Items: items}
}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = Str(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (l *List) Repr() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = Repr(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
