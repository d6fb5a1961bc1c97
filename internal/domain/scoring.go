package domain

// SameAnswers reports whether selected and correct contain the same option ids,
// ignoring order. Repeated ids must repeat on both sides.
func SameAnswers(selected, correct []string) bool {
	if len(selected) != len(correct) {
		return false
	}
	seen := make(map[string]int, len(correct))
	for _, id := range correct {
		seen[id]++
	}
	for _, id := range selected {
		seen[id]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
