package leitner

// SelectDue returns the cards to practice on the given day.
//
// Bucket 0 is always due. Bucket n >= 1 is due when day is a multiple of 2^n,
// so the review interval doubles with every promotion. On day 0 every bucket is due.
func SelectDue(dense []CardSet, day Day) CardSet {
	due := CardSet{}
	for n, set := range dense {
		if n > 0 && !isDue(Bucket(n), day) {
			continue
		}
		for _, c := range set {
			due.Add(c)
		}
	}
	return due
}

// isDue reports whether day mod 2^n == 0. Past 2^62 the interval exceeds
// every representable day, so only day 0 qualifies.
func isDue(n Bucket, day Day) bool {
	if n >= 63 {
		return day == 0
	}
	interval := Day(1) << uint(n)
	return day%interval == 0
}
