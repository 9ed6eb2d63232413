package mailbox

import (
	"errors"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// RawMessage is an unseen message as fetched from the mailbox.
type RawMessage struct {
	UID  uint32
	Body []byte
}

// Message is the part of a vendor reply the pipeline cares about.
type Message struct {
	Subject string
	From    string
	Text    string
}

var htmlConverter = md.NewConverter("", true, nil)

// ParseMessage reads an RFC 5322 message. The plain text part is preferred;
// an HTML-only body is converted to markdown. Parts in an unknown charset are
// read undecoded.
func ParseMessage(r io.Reader) (*Message, error) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("read message: %w", err)
	}

	msg := &Message{}
	header := mail.Header{Header: entity.Header}
	if msg.Subject, err = header.Subject(); err != nil {
		msg.Subject = header.Get("Subject")
	}
	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}

	var bodies textBodies
	if err := bodies.collect(entity); err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(bodies.plain) != "":
		msg.Text = bodies.plain
	case bodies.html != "":
		text, err := htmlConverter.ConvertString(bodies.html)
		if err != nil {
			text = bodies.html
		}
		msg.Text = text
	}
	return msg, nil
}

// textBodies keeps the first inline text/plain and text/html bodies.
type textBodies struct {
	plain, html string
}

func (b *textBodies) collect(e *message.Entity) error {
	if mr := e.MultipartReader(); mr != nil {
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil && !(message.IsUnknownCharset(err) && part != nil) {
				return fmt.Errorf("read part: %w", err)
			}
			if err := b.collect(part); err != nil {
				return err
			}
		}
	}

	if disposition, _, _ := e.Header.ContentDisposition(); disposition == "attachment" {
		return nil
	}
	contentType, _, _ := e.Header.ContentType()
	if contentType == "" {
		contentType = "text/plain"
	}
	if contentType != "text/plain" && contentType != "text/html" {
		return nil
	}

	body, err := io.ReadAll(e.Body)
	if err != nil {
		return fmt.Errorf("read %s body: %w", contentType, err)
	}
	if contentType == "text/plain" && b.plain == "" {
		b.plain = string(body)
	}
	if contentType == "text/html" && b.html == "" {
		b.html = string(body)
	}
	return nil
}
