package letter

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/model"
)

var recipient = &model.Recipient{
	FullName:     "Ivan Petrov",
	Organization: "ACME",
	Position:     "CEO",
	Address:      "Moscow, Tverskaya 1",
	Emails:       []string{"ivan@acme.io", "office@acme.io"},
}

func TestRender(t *testing.T) {
	date := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	vars := VarsFor(recipient, "Offer", date)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Dear {{fullName}},", "Dear Ivan Petrov,"},
		{"spaces inside braces", "{{ position }} of {{organization }}", "CEO of ACME"},
		{"emails", "To: {{email}} / {{emails}}", "To: ivan@acme.io / ivan@acme.io, office@acme.io"},
		{"date and title", "{{title}} from {{date}}", "Offer from 05.03.2024"},
		{"unknown placeholder kept", "Hi {{nickname}}", "Hi {{nickname}}"},
		{"no placeholders", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in, vars))
		})
	}
}

func TestVarsFor_NoEmails(t *testing.T) {
	vars := VarsFor(&model.Recipient{FullName: "A"}, "T", time.Now())
	assert.Equal(t, "", vars["email"])
	assert.Equal(t, "", vars["emails"])
}

func TestRenderDocument(t *testing.T) {
	doc := &model.Document{Title: "Letter to {{fullName}}", Content: "**{{title}}** for {{organization}}"}
	r := RenderDocument(doc, recipient, time.Now())
	assert.Equal(t, "Letter to Ivan Petrov", r.Title)
	assert.Equal(t, "**Letter to Ivan Petrov** for ACME", r.Content)

	t.Run("title placeholder inside title is kept", func(t *testing.T) {
		r := RenderDocument(&model.Document{Title: "{{title}} {{fullName}}", Content: "Subject: {{title}}"}, recipient, time.Now())
		assert.Equal(t, "{{title}} Ivan Petrov", r.Title)
		assert.Equal(t, "Subject: {{title}} Ivan Petrov", r.Content)
	})
}

func TestMarkdownToHTML(t *testing.T) {
	out, err := MarkdownToHTML("# Hello\n\nline one\nline two\n\n<script>x</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Hello</h1>")
	assert.Contains(t, out, "line one<br>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "raw HTML omitted")
}

func TestWriteEML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEML(&buf, Message{
		From:    "Office <office@example.com>",
		ToName:  recipient.FullName,
		To:      recipient.Emails,
		Subject: "Предложение",
		Body:    "Здравствуйте, **Иван**!",
		Date:    time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	mr, err := mail.CreateReader(&buf)
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Предложение", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 2)
	assert.Equal(t, "office@acme.io", to[1].Address)
	assert.Equal(t, "Ivan Petrov", to[0].Name)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	assert.Equal(t, "office@example.com", from[0].Address)

	parts := map[string]string{}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		h, ok := p.Header.(*mail.InlineHeader)
		require.True(t, ok)
		ct, _, err := h.ContentType()
		require.NoError(t, err)
		b, err := io.ReadAll(p.Body)
		require.NoError(t, err)
		parts[ct] = string(b)
	}
	assert.Equal(t, "Здравствуйте, **Иван**!", parts["text/plain"])
	assert.True(t, strings.Contains(parts["text/html"], "<strong>Иван</strong>"))
}

func TestWriteEML_BadFrom(t *testing.T) {
	err := WriteEML(io.Discard, Message{From: "not an address <", To: []string{"a@b.c"}})
	assert.ErrorContains(t, err, "parse from address")
}
