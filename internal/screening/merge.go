package screening

// mergeCandidates builds the id -> candidate lookup plus the first-appearance
// id order. When two candidates share an identifier the later one wins; the
// duplicate is reported so callers can log it as a data-quality condition,
// not a fatal error.
//
// Merge policy is deliberately confined to this function: last-write-wins
// here, first-occurrence-wins when walking the ranking list. Changing either
// policy must not touch ordering logic elsewhere.
func mergeCandidates(candidates []Candidate) (lookup map[string]Candidate, order []string, duplicates []string) {
	lookup = make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		if _, seen := lookup[c.ID]; seen {
			duplicates = append(duplicates, c.ID)
		} else {
			order = append(order, c.ID)
		}
		lookup[c.ID] = c
	}
	return lookup, order, duplicates
}
