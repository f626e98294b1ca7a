package ports

// ActionMetrics counts action outcomes for the KPI endpoint.
type ActionMetrics interface {
	RecordAccepted(kind string)
	RecordRejected(code string)
	RecordFailure()
}
