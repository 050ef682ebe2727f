package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type mailTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

type templateData struct {
	AppName string
	Name    string
	Email   string
}

var templates = map[string]mailTemplate{
	TemplateWelcome: {
		subject: texttemplate.Must(texttemplate.New("subject").Parse(`Welcome to {{.AppName}}`)),
		text: texttemplate.Must(texttemplate.New("text").Parse(`Hi {{.Name}},

Your {{.AppName}} account for {{.Email}} is ready. You can sign in right away.

The {{.AppName}} team
`)),
		html: htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
  <body>
    <p>Hi {{.Name}},</p>
    <p>Your {{.AppName}} account for <strong>{{.Email}}</strong> is ready. You can sign in right away.</p>
    <p>The {{.AppName}} team</p>
  </body>
</html>
`)),
	},
}

type renderedMail struct {
	Subject string
	Text    string
	HTML    string
}

func render(name string, data templateData) (renderedMail, error) {
	tpl, ok := templates[name]
	if !ok {
		return renderedMail{}, fmt.Errorf("unknown template %q", name)
	}

	var subject, text, html bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return renderedMail{}, fmt.Errorf("rendering %s subject: %w", name, err)
	}
	if err := tpl.text.Execute(&text, data); err != nil {
		return renderedMail{}, fmt.Errorf("rendering %s text: %w", name, err)
	}
	if err := tpl.html.Execute(&html, data); err != nil {
		return renderedMail{}, fmt.Errorf("rendering %s html: %w", name, err)
	}

	return renderedMail{Subject: subject.String(), Text: text.String(), HTML: html.String()}, nil
}
