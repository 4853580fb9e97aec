package matching

// ResultHandler overrides the default aggregation rule (spec.md §4.8 step
// 3: "A result handler may override aggregation"). Aggregate receives the
// primary Result computed over the outer vertex sets and the library-side
// vertex count.
type ResultHandler interface {
	Aggregate(r Result, libCount int) float64
}

// DefaultHandler is the §4.8 step-3 rule: 1.0 for a perfect matching, else
// |matched edges| / |V_lib|.
type DefaultHandler struct{}

func (DefaultHandler) Aggregate(r Result, libCount int) float64 { return Score(r, libCount) }

// Refinement is one matched pair's next-layer outcome, computed by the
// caller via a next-layer strategy σ′ before calling MultiPhase.Aggregate
// (spec.md §4.8.1).
type Refinement struct {
	// Ratio is r_i, the next-layer similarity σ′(v_app, v_lib) for this
	// matched pair.
	Ratio float64
	// Weight is w_i, the optional integer weight stored on v_lib; pass 1
	// when the library vertex carries no explicit weight.
	Weight int
}

// MultiPhase implements the §4.8.1 refinement handler: given the primary
// matching's Result and per-pair Refinements (same length and order as
// r.Pairs), it aggregates per the weighted-sum rule, and filters the whole
// score to 0 if the primary match ratio falls below layerThreshold.
type MultiPhase struct {
	LayerThreshold float64
}

// Aggregate applies the §4.8.1 formula. refinements must have one entry
// per entry in r.Pairs, in the same order.
func (h MultiPhase) Aggregate(r Result, libCount int, refinements []Refinement) float64 {
	if libCount == 0 {
		return 0
	}
	if float64(len(r.Pairs))/float64(libCount) < h.LayerThreshold {
		return 0
	}

	var weightedSum, weightTotal float64
	var plainSum float64
	for _, ref := range refinements {
		w := ref.Weight
		if w == 0 {
			w = 1
		}
		weightedSum += ref.Ratio * float64(w)
		weightTotal += float64(w)
		plainSum += ref.Ratio
	}

	if weightTotal > 0 {
		score := weightedSum / weightTotal
		if score > 1 {
			score = 1
		}
		return score
	}
	return plainSum / float64(libCount)
}
