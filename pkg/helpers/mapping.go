package helpers

import (
	"fmt"

	"github.com/oksasatya/portofolio/pkg/mailer"
)

// EnsureRecipientAndEmail fills the recipient fields templates rely on.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
