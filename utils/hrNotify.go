package utils

import (
	"log"
	"time"

	"instructo/config"

	"github.com/go-resty/resty/v2"
)

// HRCompletionPayload is posted to the training department webhook when
// a project reaches COMPLETED.
type HRCompletionPayload struct {
	TraineeName    string `json:"trainee_name"`
	ProjectTitle   string `json:"project_title"`
	Rating         int    `json:"rating"`
	InstructorName string `json:"instructor_name"`
	CompletedAt    string `json:"completed_at"`
}

// NotifyHRProjectCompleted posts a completion summary to the configured
// HR webhook. Best-effort: errors are logged, never surfaced to the
// completing request.
func NotifyHRProjectCompleted(payload HRCompletionPayload) {
	url := config.AppConfig.HRWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		log.Printf("Error notifying HR webhook: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("HR webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}
}
