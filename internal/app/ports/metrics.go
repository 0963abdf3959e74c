package ports

import "townreeve/internal/domain/governance"

type EvaluationMetrics interface {
	RecordOutcome(status governance.ExecutionStatus)
	RecordRejectedInput()
	RecordFailure()
}
