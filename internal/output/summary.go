package output

import "protobench/internal/collector"

// SummaryReport is the persisted form of one protocol's summary. The
// dataset digest ties it to the exact inputs that produced it.
type SummaryReport struct {
	*collector.Summary
	Dataset       string                      `json:"dataset"`
	DatasetDigest string                      `json:"dataset_digest"`
	Thresholds    *collector.ThresholdResults `json:"thresholds,omitempty"`
}

// WriteSummary writes report as indented JSON.
func WriteSummary(path string, report SummaryReport) error {
	return writeJSON(path, report)
}
