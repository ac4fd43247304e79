package domain

// canTransition reports whether to is listed as a successor of from.
// States without an entry are terminal.
func canTransition[S comparable](table map[S][]S, from, to S) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
