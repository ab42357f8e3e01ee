package mail

import (
	"encoding/base64"
	"fmt"
	stdmail "net/mail"
	"strings"
	"time"

	gm "google.golang.org/api/gmail/v1"

	"github.com/pkoester/mailsense/internal/types"
)

// FetchRecent pulls up to maxResults messages matching a Gmail query
// (empty query means the default inbox view) and returns them as
// store-ready Email values. Individual message failures are skipped
// rather than failing the whole fetch.
func FetchRecent(svc *gm.Service, maxResults int64, query string) ([]*types.Email, error) {
	resp, err := svc.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	emails := make([]*types.Email, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		e, err := readMessage(svc, msg.Id)
		if err != nil {
			continue
		}
		e.FetchedAt = now
		emails = append(emails, e)
	}
	return emails, nil
}

// readMessage fetches one complete message and decodes its body.
func readMessage(svc *gm.Service, messageID string) (*types.Email, error) {
	msg, err := svc.Users.Messages.Get("me", messageID).
		Format("full").
		Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", messageID, err)
	}

	headers := headerMap(msg.Payload.Headers)

	return &types.Email{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		Subject:    defaultStr(headers["Subject"], "(no subject)"),
		Sender:     headers["From"],
		Recipient:  headers["To"],
		Body:       extractBody(msg.Payload),
		ReceivedAt: parseDate(headers["Date"]),
	}, nil
}

// Send sends a plain-text email through the Gmail API.
func Send(svc *gm.Service, to, subject, body string) error {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		to, subject, body)
	_, err := svc.Users.Messages.Send("me", &gm.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}).Do()
	if err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

// parseDate converts an RFC 2822 Date header into RFC 3339. Unparseable
// dates fall back to the current time so ordering stays sane.
func parseDate(dateHeader string) string {
	if t, err := stdmail.ParseDate(dateHeader); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// extractBody gets the plain text body from a message payload.
// Handles multipart messages recursively, preferring text/plain over
// text/html.
func extractBody(payload *gm.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := decodeBase64URL(payload.Body.Data); err == nil {
			return decoded
		}
	}

	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return decoded
			}
		}
		if len(part.Parts) > 0 {
			if body := extractBody(part); body != "" {
				return body
			}
		}
	}

	// Fall back to HTML.
	for _, part := range payload.Parts {
		if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return decoded
			}
		}
	}

	return ""
}

func headerMap(headers []*gm.MessagePartHeader) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Name] = h.Value
	}
	return m
}

// decodeBase64URL decodes Gmail's base64url-encoded content.
func decodeBase64URL(data string) (string, error) {
	data = strings.ReplaceAll(data, "-", "+")
	data = strings.ReplaceAll(data, "_", "/")
	switch len(data) % 4 {
	case 2:
		data += "=="
	case 3:
		data += "="
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
