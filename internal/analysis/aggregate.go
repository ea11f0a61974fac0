package analysis

// NeutralConfidence is returned when no source produced an estimate
const NeutralConfidence = 50

// Aggregate averages the valid estimates, truncating toward zero.
// Sources without an estimate are ignored; if none remain the neutral prior is returned.
func Aggregate(estimates ...Estimate) int {
	sum, n := 0, 0
	for _, e := range estimates {
		if !e.Valid {
			continue
		}
		sum += e.Value
		n++
	}
	if n == 0 {
		return NeutralConfidence
	}
	return sum / n
}
