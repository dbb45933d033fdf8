package smtp

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"text/template"
)

const codeSubject = "Your Login OTP - Astro Server"

var codeText = template.Must(template.New("text").Parse(`Hello,

Your one-time login code is: {{.Code}}

This code will expire in {{.TTLMinutes}} minutes.

If you didn't request this code, please ignore this email.

{{.AppName}}
`))

var codeHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>{{.AppName}}</h2>
    <p>Hello,</p>
    <p>Your one-time login code is:</p>
    <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
    <p>This code will expire in <strong>{{.TTLMinutes}} minutes</strong>.</p>
    <p style="color: #888; font-size: 12px;">If you didn't request this code, please ignore this email.</p>
  </div>
</body>
</html>
`))

type codeView struct {
	Code       string
	TTLMinutes int
	AppName    string
}

// CodeMailer renders login codes into emails and hands them to a Mailer.
type CodeMailer struct {
	mailer  Mailer
	appName string
}

func NewCodeMailer(m Mailer, appName string) *CodeMailer {
	if appName == "" {
		appName = "Astro Server"
	}
	return &CodeMailer{mailer: m, appName: appName}
}

func (c *CodeMailer) SendCode(ctx context.Context, to, code string, ttlMinutes int) error {
	view := codeView{Code: code, TTLMinutes: ttlMinutes, AppName: c.appName}
	var text, html bytes.Buffer
	if err := codeText.Execute(&text, view); err != nil {
		return err
	}
	if err := codeHTML.Execute(&html, view); err != nil {
		return err
	}
	return c.mailer.SendEmail(ctx, Message{
		To:      to,
		Subject: codeSubject,
		Text:    text.String(),
		HTML:    html.String(),
	})
}
