package letter

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentType is the media type of an exported letter.
const ContentType = "message/rfc822"

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Message describes an exported letter.
type Message struct {
	From    string
	ToName  string
	To      []string
	Subject string
	Body    string
	Date    time.Time
}

// MarkdownToHTML renders src as GitHub-flavoured Markdown. Raw HTML in src is
// dropped from the output.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// WriteEML writes m as a multipart/alternative RFC 5322 message with a
// plain text part and an HTML part.
func WriteEML(w io.Writer, m Message) error {
	var h mail.Header
	h.SetDate(m.Date)
	h.SetSubject(m.Subject)
	if m.From != "" {
		from, err := mail.ParseAddress(m.From)
		if err != nil {
			return fmt.Errorf("parse from address: %w", err)
		}
		h.SetAddressList("From", []*mail.Address{from})
	}
	to := make([]*mail.Address, 0, len(m.To))
	for _, addr := range m.To {
		to = append(to, &mail.Address{Name: m.ToName, Address: addr})
	}
	if len(to) > 0 {
		h.SetAddressList("To", to)
	}
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("generate message id: %w", err)
	}

	htmlBody, err := MarkdownToHTML(m.Body)
	if err != nil {
		return err
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("create mail writer: %w", err)
	}
	iw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("create inline writer: %w", err)
	}
	if err := writePart(iw, "text/plain", m.Body); err != nil {
		return err
	}
	if err := writePart(iw, "text/html", htmlBody); err != nil {
		return err
	}
	if err := iw.Close(); err != nil {
		return err
	}
	return mw.Close()
}

func writePart(iw *mail.InlineWriter, mediaType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(mediaType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := iw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("create %s part: %w", mediaType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		return fmt.Errorf("write %s part: %w", mediaType, err)
	}
	return pw.Close()
}
