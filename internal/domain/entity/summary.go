package entity

// TypeSummary aggregates one resource type across the whole document.
// Capacity totals stay zero for types that carry no such metric.
type TypeSummary struct {
	Count            int   `json:"count"`
	TotalSizeBytes   int64 `json:"total_size_bytes,omitempty"`
	TotalAllocatedGB int64 `json:"total_allocated_gb,omitempty"`
	TotalObjects     int64 `json:"total_objects,omitempty"`
}

// Summary is the derived per-type rollup shown on the console and exported
// in reports. It is computed from a finished Account document and never
// persisted with it.
type Summary struct {
	TotalResources int                    `json:"total_resources"`
	ErrorCount     int                    `json:"error_count"`
	Types          map[string]TypeSummary `json:"types"`
}
