// Package notify sends email through a Sender port with SMTP and logging implementations.
package notify

import "strings"

// Attachment is a file carried by an email.
type Attachment struct {
	Filename    string
	ContentType string
	Bytes       []byte
}

// Body is the message content: plain text, optionally an HTML alternative,
// optionally attachments.
type Body struct {
	Text        string
	HTML        string
	Attachments []Attachment
}

// Text builds a plain-text body.
func Text(text string) Body { return Body{Text: text} }

// TextWithAttachments builds a plain-text body with attachments.
func TextWithAttachments(text string, atts ...Attachment) Body {
	return Body{Text: text, Attachments: atts}
}

// TextAndHTML builds a body with a plain-text part and an HTML alternative.
func TextAndHTML(text, html string) Body { return Body{Text: text, HTML: html} }

// TextAndHTMLWithAttachments builds a text/HTML body with attachments.
func TextAndHTMLWithAttachments(text, html string, atts ...Attachment) Body {
	return Body{Text: text, HTML: html, Attachments: atts}
}

// Email is a message to send. An empty To falls back to the sender's
// default recipients.
type Email struct {
	Subject string
	Body    Body
	To      []string
	Cc      []string
	Bcc     []string
}

// cleanSubject drops CR and LF so a subject can never inject headers.
func cleanSubject(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
