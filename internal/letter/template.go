// Package letter fills document templates with recipient data and packages
// the result as an e-mail message.
package letter

import (
	"regexp"
	"strings"
	"time"

	"taskdesk/internal/model"
)

// DateLayout is the format of the {{date}} placeholder.
const DateLayout = "02.01.2006"

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z]+)\s*\}\}`)

// Vars maps placeholder names to their values.
type Vars map[string]string

// VarsFor builds the placeholder set for a recipient.
// email is the first address, emails all of them comma-joined.
func VarsFor(rc *model.Recipient, title string, date time.Time) Vars {
	v := Vars{
		"title": title,
		"date":  date.Format(DateLayout),
	}
	if rc == nil {
		return v
	}
	v["fullName"] = rc.FullName
	v["organization"] = rc.Organization
	v["position"] = rc.Position
	v["address"] = rc.Address
	v["email"] = ""
	if len(rc.Emails) > 0 {
		v["email"] = rc.Emails[0]
	}
	v["emails"] = strings.Join(rc.Emails, ", ")
	return v
}

// Render replaces {{name}} placeholders in tmpl. Unknown names are kept verbatim.
func Render(tmpl string, vars Vars) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if val, ok := vars[name]; ok {
			return val
		}
		return m
	})
}

// Rendered is a document filled in for one recipient.
type Rendered struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RenderDocument fills the title and content of doc for rc.
// {{title}} in the content expands to the rendered title.
func RenderDocument(doc *model.Document, rc *model.Recipient, date time.Time) Rendered {
	vars := VarsFor(rc, "", date)
	delete(vars, "title")
	title := Render(doc.Title, vars)
	vars["title"] = title
	return Rendered{
		Title:   title,
		Content: Render(doc.Content, vars),
	}
}
