package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDayCloseReview = "dispatch.day_close.review"

// DayCloseReviewPayload identifies the statement day to review. Dates travel
// as YYYY-MM-DD so the payload stays readable in the asynq inspector.
type DayCloseReviewPayload struct {
	ServiceDate string `json:"serviceDate"`
	ConvoyID    string `json:"convoyId"`
}

func NewDayCloseReviewTask(payload DayCloseReviewPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDayCloseReview, data), nil
}

func ParseDayCloseReviewPayload(task *asynq.Task) (DayCloseReviewPayload, error) {
	var payload DayCloseReviewPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DayCloseReviewPayload{}, err
	}
	return payload, nil
}
