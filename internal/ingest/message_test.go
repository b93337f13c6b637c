package ingest

import (
	"errors"
	"strings"
	"testing"
)

const sampleMessage = "From: Watcher <Watcher@Example.COM>\r\n" +
	"Subject: factcheck this one\r\n" +
	"\r\n" +
	"Check these out:\r\n" +
	"https://youtube.com/watch?v=abc123\r\n" +
	"and https://tiktok.com/@u/video/9\r\n"

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage(strings.NewReader(sampleMessage))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.From != "watcher@example.com" {
		t.Fatalf("expected normalized sender, got %q", msg.From)
	}
	if msg.Subject != "factcheck this one" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "youtube.com") {
		t.Fatalf("expected body to carry URLs, got %q", msg.Body)
	}
}

func TestParseMessageDefaultsSubject(t *testing.T) {
	raw := "From: a@b.com\r\n\r\nhttps://example.com/v\r\n"
	msg, err := ParseMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.Subject != "NoSubject" {
		t.Fatalf("expected fallback subject, got %q", msg.Subject)
	}
}

func TestParseMessageRejectsGarbage(t *testing.T) {
	_, err := ParseMessage(strings.NewReader("not a message at all"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseMessageRequiresSender(t *testing.T) {
	raw := "Subject: hi\r\n\r\nbody\r\n"
	_, err := ParseMessage(strings.NewReader(raw))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for missing sender, got %v", err)
	}
}

func TestExtractURLs(t *testing.T) {
	body := "first https://a.example/x then http://b.example/y trailing text"
	urls := ExtractURLs(body)
	if len(urls) != 2 {
		t.Fatalf("expected two URLs, got %v", urls)
	}
	if urls[0] != "https://a.example/x" || urls[1] != "http://b.example/y" {
		t.Fatalf("unexpected URLs %v", urls)
	}

	if urls := ExtractURLs("no links here"); len(urls) != 0 {
		t.Fatalf("expected none, got %v", urls)
	}
}

func TestRulesAllows(t *testing.T) {
	rules := Rules{
		ApprovedSenders: []string{"Watcher@Example.com"},
		ResponsePrefix:  "[FACTCHECK - RESPONSE] - ",
	}

	ok, _ := rules.Allows(Message{From: "watcher@example.com", Subject: "new clip"})
	if !ok {
		t.Fatal("expected approved sender to pass")
	}

	ok, reason := rules.Allows(Message{From: "stranger@example.com", Subject: "new clip"})
	if ok {
		t.Fatal("expected unapproved sender to be rejected")
	}
	if !strings.Contains(reason, "not approved") {
		t.Fatalf("unexpected reason %q", reason)
	}

	ok, reason = rules.Allows(Message{From: "watcher@example.com", Subject: "[factcheck - response] - earlier clip"})
	if ok {
		t.Fatal("expected response subject to be suppressed")
	}
	if !strings.Contains(reason, "response") {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestRulesRouted(t *testing.T) {
	rules := Rules{RouteKeyword: "factcheck"}

	if !rules.Routed("please FactCheck this") {
		t.Fatal("expected keyword match to route")
	}
	if rules.Routed("just archive this") {
		t.Fatal("expected plain subject not to route")
	}
	if (Rules{}).Routed("factcheck anyway") {
		t.Fatal("expected empty keyword never to route")
	}
}
