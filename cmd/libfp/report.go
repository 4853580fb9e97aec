package main

import "github.com/matrixeditor/libfp/internal/benchmark"

// testReport is one (app, library) comparison row; every row is echoed into
// each app-type entry of the JSON report (spec.md §6's optional "tests"
// array).
type testReport struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Similarity float64 `json:"similarity"`
	Time       string  `json:"time"`
}

// matrixReport is the confusion matrix spec.md §6 names for one (app type,
// threshold) pair.
type matrixReport struct {
	FN int `json:"FN"`
	FP int `json:"FP"`
	TN int `json:"TN"`
	TP int `json:"TP"`
}

// appTypeReport is one variant's accuracy entry within a threshold report.
type appTypeReport struct {
	Matrix    matrixReport  `json:"matrix"`
	MilliTime int64         `json:"milliTime"`
	NanoTime  int64         `json:"nanoTime"`
	Tests     []testReport  `json:"tests,omitempty"`
}

// thresholdReport is one element of the JSON report array spec.md §6
// describes: a per-app-type accuracy breakdown at one ROC threshold, plus
// the threshold config that produced it.
type thresholdReport struct {
	Threshold float64                  `json:"threshold"`
	AppTypes  map[string]appTypeReport `json:"appTypes"`
	Config    map[string]float64       `json:"config"`
}

func accuracyToMatrix(a benchmark.Accuracy) matrixReport {
	return matrixReport{FN: a.FN, FP: a.FP, TN: a.TN, TP: a.TP}
}

func resultsToTests(results []benchmark.TestResult) []testReport {
	out := make([]testReport, len(results))
	for i, r := range results {
		out[i] = testReport{
			Name:       r.Library,
			Status:     r.Status.String(),
			Similarity: r.Similarity,
			Time:       r.WallTime.String(),
		}
	}
	return out
}
