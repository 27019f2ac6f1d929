package marker

import "sort"

// Style names a syntax-highlighting class applied to a token range, e.g.
// "keyword", "string", "constant".
type Style struct {
	Offset int
	Length int
	Name   string

	// depth is how deeply nested the tree node that attached this style was;
	// deeper styles win on overlap. Set by Styles.Visit, not by callers.
	depth int
}

// Styles flattens the (possibly overlapping) styles attached to tree nodes
// during reduction into a non-overlapping, source-ordered list, preferring
// the style from the most deeply nested node on overlap, and the
// last-attached style when two nodes at the same depth overlap exactly.
type Styles struct {
	collected []Style
}

// Add records a style at the given tree depth (0 = root). Nodes should call
// this once per style they set on themselves during reduction.
func (s *Styles) Add(offset, length int, name string, depth int) {
	s.collected = append(s.collected, Style{Offset: offset, Length: length, Name: name, depth: depth})
}

// Items returns the styles recorded so far, unflattened.
func (s *Styles) Items() []Style {
	return append([]Style(nil), s.collected...)
}

// Flatten resolves overlaps and returns the final list of styles in source
// order.
func (s *Styles) Flatten() []Style {
	ordered := make([]Style, len(s.collected))
	copy(ordered, s.collected)

	// stable sort by offset, then by depth descending, then by insertion
	// order (sort.SliceStable preserves relative order of equal elements,
	// which gives us "last applied wins" among equal-depth equal-offset
	// styles since later Add calls stay later in s.collected).
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Offset != ordered[j].Offset {
			return ordered[i].Offset < ordered[j].Offset
		}
		return ordered[i].depth > ordered[j].depth
	})

	var flat []Style
	coveredUntil := -1
	for _, st := range ordered {
		if st.Offset < coveredUntil {
			// a deeper or later-applied style at an earlier offset already
			// claimed this span; skip unless this one extends past it
			if st.Offset+st.Length <= coveredUntil {
				continue
			}
			st.Offset = coveredUntil
			st.Length -= coveredUntil - st.Offset
		}
		flat = append(flat, Style{Offset: st.Offset, Length: st.Length, Name: st.Name})
		if st.Offset+st.Length > coveredUntil {
			coveredUntil = st.Offset + st.Length
		}
	}

	return flat
}
