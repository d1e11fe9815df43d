package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueRefresh sweeps sent invoices past their due date.
	TaskOverdueRefresh = "invoices:overdue_refresh"
)

// OverdueRefreshPayload carries the cutoff for the overdue sweep. A
// zero AsOf means "now at execution time", which is what the cron
// schedule uses.
type OverdueRefreshPayload struct {
	AsOf time.Time `json:"as_of"`
}

// NewOverdueRefreshTask constructs an Asynq task.
func NewOverdueRefreshTask(asOf time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(OverdueRefreshPayload{AsOf: asOf})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueRefresh, data), nil
}
