package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWeeklyReports is the task type for the weekly report batch.
	TaskWeeklyReports = "report:weekly_run"
)

// WeeklyReportsPayload describes a weekly report batch request.
type WeeklyReportsPayload struct {
	// Trigger records what started the batch: "cron" or "manual".
	Trigger string `json:"trigger"`
}

// NewWeeklyReportsTask constructs the weekly report batch task.
func NewWeeklyReportsTask(trigger string) (*asynq.Task, error) {
	data, err := json.Marshal(WeeklyReportsPayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWeeklyReports, data), nil
}
