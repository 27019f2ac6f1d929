package marker

// Context is the side-data surface a reduction action writes to while
// computing the value of a NonTerminal node: the markers and styles it
// wants attached to that node's span, whether it wants derivation aborted
// (see the Ambiguity / NoAbortAsMuchAsPossible contract), and free-form data
// a DSL author's action wants to stash for a later sibling or ancestor
// action to read back.
type Context struct {
	Markers []*Marker
	Styles  Styles

	// Abort, once set true by an action, marks this derivation as one the
	// NoAbortAsMuchAsPossible reducer should prefer to drop in favor of a
	// sibling candidate that didn't abort, if one survives.
	Abort bool

	UserData map[string]interface{}
}

// AddMarker appends m to the context's marker list.
func (c *Context) AddMarker(m *Marker) {
	c.Markers = append(c.Markers, m)
}

// Set stores v under key in UserData, creating the map on first use.
func (c *Context) Set(key string, v interface{}) {
	if c.UserData == nil {
		c.UserData = map[string]interface{}{}
	}
	c.UserData[key] = v
}

// Get retrieves the value stored under key, if any.
func (c *Context) Get(key string) (interface{}, bool) {
	if c.UserData == nil {
		return nil, false
	}
	v, ok := c.UserData[key]
	return v, ok
}

// Merge folds other's markers and styles into c, and ORs in its Abort flag.
// Used by the Navigator to roll a completed child's Context up into its
// parent's before the parent's own action runs.
func (c *Context) Merge(other *Context) {
	if other == nil {
		return
	}
	c.Markers = append(c.Markers, other.Markers...)
	c.Styles.collected = append(c.Styles.collected, other.Styles.collected...)
	c.Abort = c.Abort || other.Abort
}
