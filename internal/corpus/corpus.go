package corpus

import "fmt"

// Record is one extracted resume slot, identified by its position in the
// submitted batch.
type Record struct {
	ID     string
	Text   string
	Failed bool
}

// Corpus is the ordered identifier -> text mapping produced by a batch
// extraction. Iteration order equals submission order; identifiers are
// R-001..R-NNN with no gaps, including slots whose extraction failed.
type Corpus struct {
	records []Record
	index   map[string]int
}

// FormatID renders the identifier for the given 1-based submission position.
func FormatID(pos int) string {
	return fmt.Sprintf("R-%03d", pos)
}

// New builds a corpus from records already in submission order.
func New(records []Record) *Corpus {
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.ID] = i
	}
	return &Corpus{records: records, index: index}
}

// Len returns the batch size.
func (c *Corpus) Len() int {
	return len(c.records)
}

// Records returns the slots in submission order.
func (c *Corpus) Records() []Record {
	return c.records
}

// IDs returns the identifiers in submission order.
func (c *Corpus) IDs() []string {
	ids := make([]string, len(c.records))
	for i, r := range c.records {
		ids[i] = r.ID
	}
	return ids
}

// Text returns the extracted text for an identifier.
func (c *Corpus) Text(id string) (string, bool) {
	i, ok := c.index[id]
	if !ok {
		return "", false
	}
	return c.records[i].Text, true
}

// Contains reports whether the identifier belongs to this corpus.
func (c *Corpus) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}
