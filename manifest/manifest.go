package manifest

import (
	"fmt"
	"io"
	"strings"
)

// Collection is an ordered set of requirements deduplicated by package
// name. Order is first-seen order across all parsed lines and includes;
// merging a repeated name keeps the stored entry's position.
type Collection struct {
	reqs  []*Requirement
	index map[string]*Requirement
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]*Requirement)}
}

// Add inserts r, or merges it into the existing requirement with the same
// name. The merged result replaces the stored entry in place.
func (c *Collection) Add(r *Requirement) error {
	existing, ok := c.index[r.Name]
	if !ok {
		c.reqs = append(c.reqs, r)
		c.index[r.Name] = r
		return nil
	}

	merged, err := Merge(existing, r)
	if err != nil {
		return err
	}
	*existing = *merged
	return nil
}

// Get returns the requirement for a package name.
func (c *Collection) Get(name string) (*Requirement, bool) {
	r, ok := c.index[name]
	return r, ok
}

// Len returns the number of requirements.
func (c *Collection) Len() int {
	return len(c.reqs)
}

// Requirements returns the requirements in first-seen order. The returned
// slice is a copy, but the entries are shared with the collection.
func (c *Collection) Requirements() []*Requirement {
	out := make([]*Requirement, len(c.reqs))
	copy(out, c.reqs)
	return out
}

// String renders the canonical serialized form: one requirement per line in
// first-seen order, joined with newlines. Identical collections, including
// order, serialize identically.
func (c *Collection) String() string {
	lines := make([]string, len(c.reqs))
	for i, r := range c.reqs {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// WriteTo writes the collection in the generated manifest format consumed
// by the package installer: one requirement per line, each newline
// terminated.
func (c *Collection) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, r := range c.reqs {
		m, err := fmt.Fprintf(w, "%s\n", r)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

var _ io.WriterTo = (*Collection)(nil)
