package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"barangaylink/config"
)

// SMTPNotifier sends templated plain-text email through a configured SMTP
// relay.
type SMTPNotifier struct {
	host string
	port string
	auth smtp.Auth
	from string
}

// NewSMTPNotifier builds a notifier from the loaded configuration.
func NewSMTPNotifier() *SMTPNotifier {
	cfg := config.AppConfig
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPNotifier{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

var emailTemplates = map[string]emailTemplate{
	TemplateVerificationApproved: {
		subject: "Your BarangayLink account has been verified",
		body: template.Must(template.New("approved").Parse(
			"Good day {{.Name}},\n\n" +
				"Your resident account has been verified by the barangay office. " +
				"You now have full access to the portal.\n\n" +
				"— BarangayLink\n")),
	},
	TemplateVerificationDeclined: {
		subject: "Your BarangayLink verification was declined",
		body: template.Must(template.New("declined").Parse(
			"Good day {{.Name}},\n\n" +
				"Your resident verification was declined.\n" +
				"Reason: {{.Reason}}\n\n" +
				"You may visit the barangay office to resolve this.\n\n" +
				"— BarangayLink\n")),
	},
}

// Send renders the named template and delivers it. The context bounds the
// whole exchange; callers treat an error as a degraded success, not a
// failure of the triggering operation.
func (n *SMTPNotifier) Send(ctx context.Context, toEmail, toName, tmplName string, params map[string]string) error {
	tmpl, ok := emailTemplates[tmplName]
	if !ok {
		return fmt.Errorf("smtp notifier: unknown template %q", tmplName)
	}

	data := map[string]string{"Name": toName}
	for k, v := range params {
		data[k] = v
	}

	var body strings.Builder
	if err := tmpl.body.Execute(&body, data); err != nil {
		return fmt.Errorf("smtp notifier: render %s: %w", tmplName, err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, toEmail, tmpl.subject, body.String())

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(n.host+":"+n.port, n.auth, n.from, []string{toEmail}, []byte(msg))
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp notifier: send to %s: %w", toEmail, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp notifier: send to %s: %w", toEmail, ctx.Err())
	}
}
