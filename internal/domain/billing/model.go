package billing

// RunResult summarizes one monthly balance update.
type RunResult struct {
	LogID             string `json:"logId"`
	Period            string `json:"period"`
	FamiliesProcessed int    `json:"familiesProcessed"`
	SuccessCount      int    `json:"successCount"`
	ErrorCount        int    `json:"errorCount"`
	// Skipped is set when no cuota was active and nothing was debited.
	Skipped bool `json:"skipped"`
}

const (
	OutcomeCompleted     = "completed"
	OutcomeNoActiveCuota = "no_active_cuota"
)
