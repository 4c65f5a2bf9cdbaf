package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template with Data, or Subject with Text (and optionally HTML).
type EmailJob struct {
	To       string         `json:"to"`
	ReplyTo  string         `json:"reply_to,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "contact_message"
	Data     map[string]any `json:"data,omitempty"`
}

// Valid reports whether the job has a recipient and something to send.
func (j EmailJob) Valid() bool {
	if j.To == "" {
		return false
	}
	return j.Template != "" || j.Subject != ""
}
