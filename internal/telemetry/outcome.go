package telemetry

// OutcomeStatus classifies what happened to one event.
type OutcomeStatus string

const (
	OutcomeRecorded  OutcomeStatus = "recorded"
	OutcomeDiscarded OutcomeStatus = "discarded"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// Outcome is the result of recording one event. Reason is set for discards.
type Outcome struct {
	Status OutcomeStatus
	Reason string
}

// Recorded reports a successful write.
func Recorded() Outcome {
	return Outcome{Status: OutcomeRecorded}
}

// Discarded reports a failed write, or an event rejected before the write.
func Discarded(reason string) Outcome {
	return Outcome{Status: OutcomeDiscarded, Reason: reason}
}

// Skipped reports that telemetry is disabled.
func Skipped() Outcome {
	return Outcome{Status: OutcomeSkipped}
}
