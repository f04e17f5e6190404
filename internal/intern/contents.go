package intern

// Contents is a sparse, lazily-resized parallel vector of source contents,
// indexed by the same ids the sources Table hands out. A source with no
// recorded content reads back as "".
type Contents struct {
	values []string
}

// Set stores content for the given source id, growing the backing slice as
// needed. Set is idempotent: calling it twice for the same id overwrites.
func (c *Contents) Set(id int, content string) {
	if id < 0 {
		return
	}
	if id >= len(c.values) {
		grown := make([]string, id+1)
		copy(grown, c.values)
		c.values = grown
	}
	c.values[id] = content
}

// At returns the content for id, defaulting to "" when nothing was set.
func (c *Contents) At(id int) string {
	if id < 0 || id >= len(c.values) {
		return ""
	}
	return c.values[id]
}

// Len returns the current backing length (not the number of non-empty entries).
func (c *Contents) Len() int {
	return len(c.values)
}

// Values returns the backing slice in id order. The caller must not mutate it.
func (c *Contents) Values() []string {
	return c.values
}

// EnsureLen grows the backing slice to at least n entries, padding with "".
// It never drops entries. Used before reading Values so the contents length
// covers every entry of the sources table.
func (c *Contents) EnsureLen(n int) {
	if n <= len(c.values) {
		return
	}
	grown := make([]string, n)
	copy(grown, c.values)
	c.values = grown
}
