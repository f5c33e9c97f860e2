// Package mail delivers verification emails.
package mail

import (
	"bytes"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"
	"text/template"
	"time"

	"github.com/dtroode/taskmanager/internal/model"
)

const verificationSubject = "Verify your email address"

var errHeaderInjection = errors.New("header value contains a line break")

var verificationTemplate = template.Must(template.New("verification").Parse(`From: {{.From}}
To: {{.To}}
Subject: {{.Subject}}
Date: {{.Date}}
Message-ID: <{{.MessageID}}@taskmanager>
MIME-Version: 1.0
Content-Type: text/plain; charset=utf-8

Hi {{.FirstName}},

please confirm your email address by opening the link below:

{{.Link}}

If you did not sign up, ignore this message.
`))

type envelope struct {
	From      string
	To        string
	Subject   string
	Date      string
	MessageID string
	FirstName string
	Link      string
}

// render builds an RFC 5322 message with CRLF line endings.
func render(from string, msg model.VerificationMessage, messageID string, at time.Time) ([]byte, error) {
	for _, v := range []string{from, msg.To, msg.FirstName, msg.Link} {
		if strings.ContainsAny(v, "\r\n") {
			return nil, errHeaderInjection
		}
	}

	to, err := netmail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	sender, err := netmail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}

	var buf bytes.Buffer
	err = verificationTemplate.Execute(&buf, envelope{
		From:      sender.String(),
		To:        to.String(),
		Subject:   verificationSubject,
		Date:      at.Format(time.RFC1123Z),
		MessageID: messageID,
		FirstName: msg.FirstName,
		Link:      msg.Link,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}

	return bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte("\r\n")), nil
}
