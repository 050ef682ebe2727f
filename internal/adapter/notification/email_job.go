package notification

const TemplateWelcome = "welcome"

// EmailJob is the message put on the email queue.
type EmailJob struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}
