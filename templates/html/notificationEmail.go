package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderNotificationEmail generates branded HTML for a case notification.
// The title is displayed in the header banner, message is plain text that
// gets HTML-escaped with newlines converted to <br> tags, and link, when
// set, points at the related record.
func RenderNotificationEmail(title, message, link string) string {
	escaped := html.EscapeString(message)
	htmlBody := strings.ReplaceAll(escaped, "\n", "<br>")
	safeTitle := html.EscapeString(title)

	action := ""
	if link != "" {
		action = fmt.Sprintf(`<p><a class="button" href="%s">View details</a></p>`, html.EscapeString(link))
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f3f4f6; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #1e3a8a 0%%, #1d4ed8 100%%); padding: 32px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 32px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .button { display: inline-block; padding: 10px 18px; background-color: #1d4ed8; color: #fff; text-decoration: none; border-radius: 4px; }
    .footer { padding: 24px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>%s</p>
      %s
    </div>
    <div class="footer">
      <p>You are receiving this because you are a party to this case.</p>
    </div>
  </div>
</body>
</html>`, safeTitle, safeTitle, htmlBody, action)
}
