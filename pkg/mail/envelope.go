package mail

import (
	"fmt"
	"html"
	"strings"
)

// Envelope wraps a plain-text message body into the simple HTML shell used
// for all outbound receptionist mail. Newlines become <br> tags.
func Envelope(body string) string {
	escaped := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")

	return fmt.Sprintf(
		"<div style='font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;'>"+
			"<h2 style='color: #333;'>Message from TechCorp Solutions</h2>"+
			"<div style='background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;'>"+
			"<p style='line-height: 1.6; color: #555;'>%s</p>"+
			"</div>"+
			"<hr style='border: 1px solid #eee; margin: 20px 0;'>"+
			"<p style='color: #888; font-size: 12px;'>Best regards,<br>TechCorp Solutions<br>Phone: (555) 123-4567</p>"+
			"</div>",
		escaped,
	)
}
