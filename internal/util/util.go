package util

import (
	"sort"
	"strings"
	"unicode"
)

// MakeTextList gives a nice list of things based on their display name.
//
// TODO: turn this into a generic function that accepts displayable OR ~string
func MakeTextList(items []string, articles bool) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	withArts := make([]string, len(items))
	for i := range items {
		art := ""
		item := items[i]
		if articles {
			art = ArticleFor(item, false)

			iRunes := []rune(item)
			leadingUpper := unicode.IsUpper(iRunes[0])
			allCaps := leadingUpper
			if leadingUpper && len(iRunes) > 1 {
				allCaps = unicode.IsUpper(iRunes[1])
			}

			if leadingUpper && !allCaps {
				// make the item lower case
				iRunes[0] = unicode.ToLower(iRunes[0])
				item = string(iRunes)
			}

			art += " "
		}
		withArts[i] = art + " " + item
	}

	if len(withArts) == 1 {
		output += withArts[0]
	} else if len(withArts) == 2 {
		output += withArts[0] + " and " + withArts[1]
	} else {
		// if its more than two, use an oxford comma
		withArts[len(withArts)-1] = "and " + withArts[len(withArts)-1]
		output += strings.Join(withArts, ", ")
	}

	return output
}

// ArticleFor returns the article for the given string. It will be capitalized
// the same as the string. If definite is true, the returned value will be "the"
// capitalized as described; otherwise, it will be "a"/"an" capitalized as
// described.
func ArticleFor(s string, definite bool) string {
	sRunes := []rune(s)

	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper
	if leadingUpper && len(sRunes) > 1 {
		allCaps = unicode.IsUpper(sRunes[1])
	}

	art := ""
	if definite {
		if allCaps {
			art = "THE"
		} else if leadingUpper {
			art = "The"
		} else {
			art = "the"
		}
	} else {
		if allCaps || leadingUpper {
			art = "A"
		} else {
			art = "a"
		}

		sUpperRunes := []rune(strings.ToUpper(s))
		first := sUpperRunes[0]
		if first == 'A' || first == 'E' || first == 'I' || first == 'O' || first == 'U' {
			if allCaps {
				art += "N"
			} else {
				art += "n"
			}
		}
	}

	return art
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	var keys []string
	var idx int

	keys = make([]string, len(m))
	idx = 0

	for k := range m {
		keys[idx] = k
		idx++
	}

	sort.Strings(keys)

	return keys
}

// EqualNilness returns whether the two values are either both nil or both
// non-nil.
func EqualNilness(o1 any, o2 any) bool {
	if o1 == nil {
		return o2 == nil
	} else {
		return o2 != nil
	}
}

// Container is anything that can give up its contents as a slice, with no
// guaranteed ordering unless the implementing type documents one.
type Container[E any] interface {
	Elements() []E
}

// Stack is a simple LIFO stack. The zero value is an empty, usable stack.
type Stack[T any] struct {
	Of []T
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the value on top of the stack. It panics if the
// stack is empty.
func (s *Stack[T]) Pop() T {
	n := len(s.Of)
	v := s.Of[n-1]
	s.Of = s.Of[:n-1]
	return v
}

// Peek returns the value on top of the stack without removing it. It panics
// if the stack is empty.
func (s Stack[T]) Peek() T {
	return s.Of[len(s.Of)-1]
}

// Len returns the number of items on the stack.
func (s Stack[T]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no items.
func (s Stack[T]) Empty() bool {
	return len(s.Of) == 0
}

// SliceIndexOf returns the index of the first occurrence of v in sl, or -1
// if it is not present.
func SliceIndexOf[T comparable](v T, sl []T) int {
	for i := range sl {
		if sl[i] == v {
			return i
		}
	}
	return -1
}

// SliceRemove returns a copy of sl with the first occurrence of v removed.
// If v is not present, a copy of sl is returned unchanged.
func SliceRemove[T comparable](v T, sl []T) []T {
	pos := SliceIndexOf(v, sl)
	if pos < 0 {
		out := make([]T, len(sl))
		copy(out, sl)
		return out
	}
	out := make([]T, 0, len(sl)-1)
	out = append(out, sl[:pos]...)
	out = append(out, sl[pos+1:]...)
	return out
}

// SortBy returns a copy of sl sorted using less as the ordering function. It
// does not modify sl.
func SortBy[T any](sl []T, less func(a, b T) bool) []T {
	out := make([]T, len(sl))
	copy(out, sl)
	sort.Slice(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// CustomComparable is an interface for items that may be checked against
// arbitrary other objects. In practice most will attempt to typecast to their
// own type and immediately return false if the argument is not the same, but in
// theory this allows for comparison to multiple types of things.
type CustomComparable interface {
	Equal(other any) bool
}

// EqualSlices checks that the two slices contain the same items in the same
// order. Equality of items is checked by items in the slices are equal by
// calling the custom Equal function on each element. In particular, Equal is
// called on elements of sl1 with elements of sl2 passed in as the argument.
func EqualSlices[T CustomComparable](sl1 []T, sl2 []T) bool {
	if len(sl1) != len(sl2) {
		return false
	}

	for i := range sl1 {
		if !sl1[i].Equal(sl2[i]) {
			return false
		}
	}

	return true
}
