package mail

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
)

// templateData is the view model shared by the HTML and text bodies.
type templateData struct {
	RecipientName string
	Role          domain.Role
	WindowTitle   string
	Date          string
	Time          string
	Duration      int
	MentorName    string
	MenteeName    string
	Agenda        string
	Platform      string
	Link          string
	DaysUntil     int
}

var htmlBody = htmltemplate.Must(htmltemplate.New("reminder.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #2c5aa0;">Mentorship Meeting Reminder ({{.WindowTitle}})</h2>
  <p>Hello {{.RecipientName}},</p>
  <p>This is a reminder that your mentorship meeting is in <strong>{{.DaysUntil}} day{{if ne .DaysUntil 1}}s{{end}}</strong>.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Date</strong></td><td>{{.Date}}</td></tr>
    {{- if .Time}}
    <tr><td><strong>Time</strong></td><td>{{.Time}}</td></tr>
    {{- end}}
    {{- if .Duration}}
    <tr><td><strong>Duration</strong></td><td>{{.Duration}} minutes</td></tr>
    {{- end}}
    <tr><td><strong>Mentor</strong></td><td>{{.MentorName}}</td></tr>
    <tr><td><strong>Mentee</strong></td><td>{{.MenteeName}}</td></tr>
    <tr><td><strong>Platform</strong></td><td>{{.Platform}}</td></tr>
    <tr><td><strong>Agenda</strong></td><td>{{.Agenda}}</td></tr>
    {{- if .Link}}
    <tr><td><strong>Link</strong></td><td><a href="{{.Link}}">{{.Link}}</a></td></tr>
    {{- end}}
  </table>
  <p>A calendar invite is attached.</p>
</body>
</html>
`))

var textBody = template.Must(template.New("reminder.txt").Parse(`Mentorship Meeting Reminder ({{.WindowTitle}})

Hello {{.RecipientName}},

Your mentorship meeting is in {{.DaysUntil}} day{{if ne .DaysUntil 1}}s{{end}}.

Date: {{.Date}}
{{- if .Time}}
Time: {{.Time}}
{{- end}}
Mentor: {{.MentorName}}
Mentee: {{.MenteeName}}
Platform: {{.Platform}}
Agenda: {{.Agenda}}
{{- if .Link}}
Link: {{.Link}}
{{- end}}
`))

func newTemplateData(to domain.Recipient, p domain.ReminderPayload) templateData {
	p.ApplyDefaults()

	name := to.Name
	if name == "" {
		name = p.MenteeName
		if to.Role == domain.RoleMentor {
			name = p.MentorName
		}
	}

	return templateData{
		RecipientName: name,
		Role:          to.Role,
		WindowTitle:   p.Window.Title(),
		Date:          p.FormattedDate(),
		Time:          p.Time,
		Duration:      p.DurationMinutes,
		MentorName:    p.MentorName,
		MenteeName:    p.MenteeName,
		Agenda:        p.Agenda,
		Platform:      p.Platform,
		Link:          p.Link,
		DaysUntil:     p.DaysUntil,
	}
}

func renderText(data templateData) (string, error) {
	var buf bytes.Buffer
	if err := textBody.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
