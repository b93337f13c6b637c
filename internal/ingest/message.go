package ingest

import (
	"fmt"
	"io"
	"net/mail"
	"regexp"
	"strings"
)

// Message is the explicit shape ingest accepts: a sender, a subject, and a
// plain-text body. Anything that cannot be parsed into this shape is rejected
// with a ParseError rather than processed with missing fields.
type Message struct {
	From    string
	Subject string
	Body    string
}

// ParseError reports input that does not parse into a Message.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse message: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse message: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

var urlPattern = regexp.MustCompile(`https?://\S+`)

// ParseMessage reads an RFC 5322 message and extracts the fields ingest cares
// about. The sender address is normalized to a bare lowercase address.
func ParseMessage(r io.Reader) (Message, error) {
	parsed, err := mail.ReadMessage(r)
	if err != nil {
		return Message{}, &ParseError{Reason: "not a valid message", Err: err}
	}

	from := strings.TrimSpace(parsed.Header.Get("From"))
	if from == "" {
		return Message{}, &ParseError{Reason: "missing From header"}
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		from = addr.Address
	}

	body, err := io.ReadAll(parsed.Body)
	if err != nil {
		return Message{}, &ParseError{Reason: "unreadable body", Err: err}
	}

	subject := strings.TrimSpace(parsed.Header.Get("Subject"))
	if subject == "" {
		subject = "NoSubject"
	}

	return Message{
		From:    strings.ToLower(from),
		Subject: subject,
		Body:    string(body),
	}, nil
}

// ExtractURLs returns every http(s) URL found in the body, in order.
func ExtractURLs(body string) []string {
	return urlPattern.FindAllString(body, -1)
}

// Rules govern which messages are processed and how items are routed.
type Rules struct {
	ApprovedSenders []string
	RouteKeyword    string
	ResponsePrefix  string
}

// Allows reports whether the message should be processed; when it should not,
// the returned reason explains why.
func (r Rules) Allows(msg Message) (bool, string) {
	sender := strings.ToLower(strings.TrimSpace(msg.From))
	approved := false
	for _, candidate := range r.ApprovedSenders {
		if sender == strings.ToLower(strings.TrimSpace(candidate)) {
			approved = true
			break
		}
	}
	if !approved {
		return false, fmt.Sprintf("sender %s not approved", sender)
	}
	if r.ResponsePrefix != "" && strings.HasPrefix(strings.ToLower(msg.Subject), strings.ToLower(r.ResponsePrefix)) {
		return false, "response to an earlier run"
	}
	return true, ""
}

// Routed reports whether the subject carries the routing keyword that flags an
// item's directory for the hand-off list.
func (r Rules) Routed(subject string) bool {
	keyword := strings.ToLower(strings.TrimSpace(r.RouteKeyword))
	if keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(subject), keyword)
}
