// Package intake turns received messages into msg_emails records and
// processes them.
package intake

import (
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/mimedecode"
	"github.com/mikey/email-reconciler/internal/recipient"
)

// ReadMessage parses an RFC 5322 message. Only the headers are kept.
// envelopeFrom and envelopeTo stand in for missing From and To headers.
func ReadMessage(r io.Reader, envelopeFrom string, envelopeTo []string) (*core.Message, error) {
	m, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	msg := &core.Message{
		ID:      strings.Trim(m.Header.Get("Message-Id"), "<> "),
		From:    m.Header.Get("From"),
		To:      m.Header["To"],
		Cc:      m.Header["Cc"],
		Subject: mimedecode.FullyDecodeMime(m.Header.Get("Subject")),
		Headers: make(map[string][]string, len(m.Header)),
	}
	for key, values := range m.Header {
		msg.Headers[key] = values
	}

	if msg.From == "" {
		msg.From = envelopeFrom
	}
	if len(msg.To) == 0 {
		msg.To = envelopeTo
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return msg, nil
}

// Segments returns the distinct recipient segments of the From, To and Cc
// headers, in header order
func Segments(msg *core.Message) []string {
	var headers []string
	headers = append(headers, msg.From)
	headers = append(headers, msg.To...)
	headers = append(headers, msg.Cc...)

	seen := make(map[string]bool)
	var out []string
	for _, h := range headers {
		for _, seg := range recipient.SplitRecipientList(h) {
			seg = strings.TrimSpace(seg)
			key := strings.ToLower(seg)
			if seg == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, seg)
		}
	}
	return out
}
