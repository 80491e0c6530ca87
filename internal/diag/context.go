package diag

// Context carries optional detail about where and why an error occurred.
// Every field may be empty; JSON output omits what is unset. Line and
// Column are 1-based, 0 meaning "no recorded location".
type Context struct {
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`
	Length uint32 `json:"length,omitempty"`

	// Source is the offending source line, attached only when the owning
	// handler is configured to include it.
	Source string `json:"source,omitempty"`

	NodeType    string   `json:"nodeType,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Found       string   `json:"found,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	HelpURL     string   `json:"helpUrl,omitempty"`

	// Operation-specific detail.
	Operation    string `json:"operation,omitempty"`
	LeftType     string `json:"leftType,omitempty"`
	RightType    string `json:"rightType,omitempty"`
	LeftValue    string `json:"leftValue,omitempty"`
	RightValue   string `json:"rightValue,omitempty"`
	FunctionName string `json:"functionName,omitempty"`
	ParamIndex   *int   `json:"paramIndex,omitempty"`
	Value        string `json:"value,omitempty"`
	Location     string `json:"location,omitempty"`
}

// HasLocation reports whether the context carries a usable line/column.
func (c *Context) HasLocation() bool {
	return c != nil && c.Line > 0
}

// Clone returns a shallow copy; Suggestions gets its own backing array so
// later appends on the copy don't alias the original.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	out := *c
	if c.Suggestions != nil {
		out.Suggestions = append([]string(nil), c.Suggestions...)
	}
	if c.ParamIndex != nil {
		idx := *c.ParamIndex
		out.ParamIndex = &idx
	}
	return &out
}
