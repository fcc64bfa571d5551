package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"
)

const (
	notProvided      = "N/A"
	noMessage        = "No message provided"
	textTimestamp    = "2006-01-02T15:04:05.000000"
	htmlTimestamp    = "2006-01-02 15:04:05 UTC"
	subjectPrefix    = "New Contact Request from "
	defaultSiteLabel = "our"
)

// ContactEmailData holds the data for contact form emails.
// Nil optional fields are rendered with placeholders.
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Company     *string
	Role        *string
	Interest    *string
	Deadline    *string
	Message     *string
}

// Notification is one rendered contact email ready for delivery.
type Notification struct {
	From        string
	To          string
	ReplyTo     string
	Subject     string
	TextBody    string
	HTMLBody    string
	SubmittedAt time.Time
}

type templateData struct {
	SiteName    string
	Name        string
	Email       string
	Company     string
	Role        string
	Interest    string
	Deadline    string
	Message     string
	SubmittedAt string
}

const contactTextTemplate = `
New contact form submission from {{.SiteName}} website

Name: {{.Name}}
Email: {{.Email}}
Company: {{.Company}}
Role: {{.Role}}
Interest: {{.Interest}}
Deadline: {{.Deadline}}

Message:
{{.Message}}

Submitted: {{.SubmittedAt}}
`

// contactHTMLTemplate is the HTML template for contact form emails.
// html/template escapes every user supplied value.
const contactHTMLTemplate = `
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <div style="background: #0A192F; color: #00D4FF; padding: 20px; border-radius: 8px 8px 0 0;">
        <h2 style="margin: 0;">&#128276; New Contact Request</h2>
        <p style="color: #C0C0C8; margin: 5px 0 0 0;">{{.SiteName}} Website</p>
    </div>
    <div style="background: #f4f4f4; padding: 20px; border-radius: 0 0 8px 8px;">
        <table style="width: 100%; border-collapse: collapse;">
            <tr>
                <td style="padding: 8px; font-weight: bold; width: 120px;">Name:</td>
                <td style="padding: 8px;">{{.Name}}</td>
            </tr>
            <tr style="background: white;">
                <td style="padding: 8px; font-weight: bold;">Email:</td>
                <td style="padding: 8px;"><a href="mailto:{{.Email}}">{{.Email}}</a></td>
            </tr>
            <tr>
                <td style="padding: 8px; font-weight: bold;">Company:</td>
                <td style="padding: 8px;">{{.Company}}</td>
            </tr>
            <tr style="background: white;">
                <td style="padding: 8px; font-weight: bold;">Role:</td>
                <td style="padding: 8px;">{{.Role}}</td>
            </tr>
            <tr>
                <td style="padding: 8px; font-weight: bold;">Interest:</td>
                <td style="padding: 8px;">{{.Interest}}</td>
            </tr>
            <tr style="background: white;">
                <td style="padding: 8px; font-weight: bold;">Deadline:</td>
                <td style="padding: 8px;">{{.Deadline}}</td>
            </tr>
        </table>
        <div style="margin-top: 20px; padding: 15px; background: white; border-radius: 4px;">
            <p style="margin: 0 0 10px 0; font-weight: bold;">Message:</p>
            <p style="margin: 0; white-space: pre-wrap;">{{.Message}}</p>
        </div>
        <p style="color: #666; font-size: 12px; margin-top: 15px;">
            Submitted: {{.SubmittedAt}}
        </p>
    </div>
</body>
</html>
`

var (
	textTmpl = template.Must(template.New("contact.txt").Parse(contactTextTemplate))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("contact.html").Parse(contactHTMLTemplate))
)

// Render builds both bodies and the headers for one submission.
// now is converted to UTC before it is embedded.
func Render(data ContactEmailData, siteName, from, to string, now time.Time) (Notification, error) {
	now = now.UTC()
	if siteName == "" {
		siteName = defaultSiteLabel
	}

	td := templateData{
		SiteName: siteName,
		Name:     data.SenderName,
		Email:    data.SenderEmail,
		Company:  orDefault(data.Company, notProvided),
		Role:     orDefault(data.Role, notProvided),
		Interest: orDefault(data.Interest, notProvided),
		Deadline: orDefault(data.Deadline, notProvided),
		Message:  orDefault(data.Message, noMessage),
	}

	var text bytes.Buffer
	td.SubmittedAt = now.Format(textTimestamp)
	if err := textTmpl.Execute(&text, td); err != nil {
		return Notification{}, fmt.Errorf("failed to execute text template: %w", err)
	}

	var html bytes.Buffer
	td.SubmittedAt = now.Format(htmlTimestamp)
	if err := htmlTmpl.Execute(&html, td); err != nil {
		return Notification{}, fmt.Errorf("failed to execute html template: %w", err)
	}

	return Notification{
		From:        from,
		To:          to,
		ReplyTo:     data.SenderEmail,
		Subject:     subjectPrefix + data.SenderName,
		TextBody:    text.String(),
		HTMLBody:    html.String(),
		SubmittedAt: now,
	}, nil
}

// orDefault treats a missing and an empty value alike.
func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
