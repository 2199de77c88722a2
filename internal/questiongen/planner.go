package questiongen

// Plan computes per-type target counts for total questions over types.
//
// Every type gets one question, then the remainder is dealt round-robin in
// the given order. When total is smaller than len(types), only the first
// total types are kept so the sum never overshoots. total < 1 yields an
// empty Distribution. Types are used as given; see NormalizeTypes.
func Plan(types []TypeID, total int) Distribution {
	if total < 1 || len(types) == 0 {
		return Distribution{}
	}
	if total < len(types) {
		types = types[:total]
	}

	d := make(Distribution, len(types))
	for i, t := range types {
		d[i] = TypeCount{Type: t, Count: 1}
	}
	for rem := total - len(types); rem > 0; {
		for i := range d {
			if rem == 0 {
				break
			}
			d[i].Count++
			rem--
		}
	}
	return d
}
