// internal/models/email.go
package models

import "strings"

// EmailBody carries the two body variants forwarded by the mail watcher.
// At least one of the two is expected to be populated.
type EmailBody struct {
	TextBody string `json:"textBody"`
	HTMLBody string `json:"htmlBody"`
}

// EmailPayload is the inbound email notification. It is constructed once per
// request and discarded after the pipeline call returns.
type EmailPayload struct {
	From        string    `json:"from"`
	To          string    `json:"to,omitempty"`
	Subject     string    `json:"subject"`
	Date        string    `json:"date,omitempty"`
	MessageID   string    `json:"messageId,omitempty"`
	Body        EmailBody `json:"body"`
	Attachments []string  `json:"attachments,omitempty"`
}

// Content returns the plain-text body, falling back to the HTML variant.
// An empty return means the email has no usable content.
func (e EmailPayload) Content() string {
	if strings.TrimSpace(e.Body.TextBody) != "" {
		return e.Body.TextBody
	}
	if strings.TrimSpace(e.Body.HTMLBody) != "" {
		return e.Body.HTMLBody
	}
	return ""
}
