package benchmark

// Accuracy holds the confusion-matrix counts and derived metrics spec.md
// §4.10 names for one (app type, threshold) pair.
type Accuracy struct {
	TP, FP, TN, FN int

	Precision   float64
	Recall      float64
	F1          float64
	FPR         float64
	Specificity float64
	NPV         float64
	FDR         float64
	FOR         float64
}

// ComputeAccuracy tabulates the confusion matrix over results against
// whitelist, at the given similarity threshold (spec.md §4.10: "positive =
// whitelist-member reported with similarity >= threshold"). totalLibs is
// the size of the full library universe, used to derive TN — libraries
// never reported at all (e.g. filtered out upstream) still count as
// negatives when they are not in the whitelist.
func ComputeAccuracy(results []TestResult, whitelist map[string]bool, threshold float64, totalLibs int) Accuracy {
	var tp, fp, fn int
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		seen[r.Library] = true
		positive := r.Status == StatusOK && r.Similarity >= threshold
		isWhitelisted := whitelist[r.Library]
		switch {
		case positive && isWhitelisted:
			tp++
		case positive && !isWhitelisted:
			fp++
		case !positive && isWhitelisted:
			fn++
		}
	}
	for lib := range whitelist {
		if !seen[lib] {
			fn++
		}
	}

	tn := totalLibs - tp - fp - fn
	if tn < 0 {
		tn = 0
	}
	return deriveAccuracy(tp, fp, tn, fn)
}

func deriveAccuracy(tp, fp, tn, fn int) Accuracy {
	a := Accuracy{TP: tp, FP: fp, TN: tn, FN: fn}
	a.Precision = safeDiv(float64(tp), float64(tp+fp))
	a.Recall = safeDiv(float64(tp), float64(tp+fn))
	a.F1 = safeDiv(2*a.Precision*a.Recall, a.Precision+a.Recall)
	a.FPR = safeDiv(float64(fp), float64(fp+tn))
	a.Specificity = safeDiv(float64(tn), float64(tn+fp))
	a.NPV = safeDiv(float64(tn), float64(tn+fn))
	a.FDR = safeDiv(float64(fp), float64(fp+tp))
	a.FOR = safeDiv(float64(fn), float64(fn+tn))
	return a
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// ROCSweep computes one Accuracy per threshold, in the order given
// (spec.md §4.10 "rocSweep(thresholds)").
func ROCSweep(results []TestResult, whitelist map[string]bool, thresholds []float64, totalLibs int) []Accuracy {
	out := make([]Accuracy, len(thresholds))
	for i, th := range thresholds {
		out[i] = ComputeAccuracy(results, whitelist, th, totalLibs)
	}
	return out
}
