// Package email sends run summaries over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Config holds the SMTP settings.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier mails an HTML summary of every run.
type Notifier struct {
	cfg    Config
	sender sender
}

// NewNotifier creates a notifier using STARTTLS on the configured port.
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.Host == "" || cfg.From == "" || len(cfg.Recipients) == 0 {
		return nil, fmt.Errorf("%w: mail.host, mail.from and mail.recipients", domain.ErrConfigurationMissing)
	}
	return &Notifier{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// Notify sends the report to every recipient.
func (n *Notifier) Notify(ctx context.Context, report *domain.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return domain.ErrInvalidInput
	}

	body, err := Render(report)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.Recipients...)
	m.SetHeader("Subject", Subject(report))
	m.SetBody("text/html", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("sending report mail: %w", err)
	}
	return nil
}

// Subject returns the mail subject of a report.
func Subject(report *domain.RunReport) string {
	if report.State == domain.RunFailed {
		return fmt.Sprintf("Failed to analyze application : %s", report.Application)
	}
	return fmt.Sprintf("Artemis detection on %s: %d framework(s) found", report.Application, len(report.Frameworks))
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<html><body>
<h2>{{.Application}} ({{.Language}})</h2>
<p>Run {{.RunID}} finished in state <b>{{.State}}</b> with {{.Candidates}} candidate(s).</p>
{{if .Error}}<p style="color:#b00">{{.Error}}</p>{{end}}
{{if .Frameworks}}<h3>Frameworks</h3><ul>{{range .Frameworks}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Entries}}<h3>Candidates</h3>
<table border="1" cellpadding="4"><tr><th>Name</th><th>Internal type</th><th>Verdict</th><th>Score</th><th>Source</th></tr>
{{range .Entries}}<tr><td>{{.Name}}</td><td>{{.InternalType}}</td><td>{{.Verdict}}</td><td>{{printf "%.2f" .Score}}</td><td>{{.Source}}</td></tr>
{{end}}</table>{{end}}
{{if .Failures}}<h3>Failures</h3><ul>{{range .Failures}}<li>{{.Kind}} {{.Candidate}}: {{.Message}}</li>{{end}}</ul>{{end}}
</body></html>`))

// Render returns the HTML body of a report.
func Render(report *domain.RunReport) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("rendering report mail: %w", err)
	}
	return buf.String(), nil
}
