// Package metrics provides per-frame flock observables. Every metric keeps
// its full per-frame series; Value summarizes it for run metadata.
package metrics
