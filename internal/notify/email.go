// Package notify sends best-effort email notifications for review events.
// Sending never blocks or fails the workflow: an unconfigured or failing
// mailer reports false and the graph runtime logs and moves on.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/richhaase/reviewflow/internal/domain"
)

// Mailer sends review notifications over SMTP.
type Mailer struct {
	From     string
	Password string
	To       string
	Host     string
	Port     int
}

// NewMailer creates a mailer from SMTP settings.
func NewMailer(from, password, to, host string, port int) *Mailer {
	return &Mailer{From: from, Password: password, To: to, Host: host, Port: port}
}

// Enabled reports whether the mailer has a complete configuration.
func (m *Mailer) Enabled() bool {
	return m.From != "" && m.Password != "" && m.To != ""
}

// Send delivers one message. Returns false when unconfigured or on any SMTP
// failure; callers treat notification as best-effort.
func (m *Mailer) Send(subject, body string) bool {
	if !m.Enabled() {
		return false
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + m.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	return smtp.SendMail(addr, auth, m.From, []string{m.To}, []byte(msg)) == nil
}

// ReviewStarted sends the kick-off notification.
func (m *Mailer) ReviewStarted(pr domain.PRMetadata, fileCount int) bool {
	subject := fmt.Sprintf("Code Review Started: PR #%d", pr.Number)
	return m.Send(subject, StartedBody(pr, fileCount))
}

// FinalReport sends the completion notification.
func (m *Mailer) FinalReport(pr domain.PRMetadata, report domain.Report, critical bool) bool {
	prefix := "REVIEW COMPLETE"
	if critical {
		prefix = "CRITICAL ISSUES"
	}
	subject := fmt.Sprintf("%s: PR #%d", prefix, pr.Number)
	return m.Send(subject, ReportBody(prefix, pr, report))
}

// StartedBody renders the review-started message.
func StartedBody(pr domain.PRMetadata, fileCount int) string {
	return fmt.Sprintf(`CODE REVIEW STARTED
==================

PR #%d: %s
Author: %s
Files to Review: %d

The review pipeline has started analyzing this PR.
You will receive the final report when the analysis completes.

This is an automated notification.
`, pr.Number, pr.Title, pr.Author, fileCount)
}

// ReportBody renders the final-report message.
func ReportBody(prefix string, pr domain.PRMetadata, report domain.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n==================\n\n", prefix)
	fmt.Fprintf(&sb, "PR #%d: %s\nAuthor: %s\n\n", pr.Number, pr.Title, pr.Author)
	fmt.Fprintf(&sb, "FINAL STATUS: %s\n\n", report.Recommendation)

	m := report.Metrics
	sb.WriteString("METRICS:\n")
	fmt.Fprintf(&sb, "  Security Score: %.2f/10.0\n", m.SecurityScore)
	fmt.Fprintf(&sb, "  Lint Score: %.2f/10.0\n", m.QualityScore)
	fmt.Fprintf(&sb, "  Test Coverage: %.1f%%\n", m.Coverage)
	fmt.Fprintf(&sb, "  AI Review Score: %.2f/1.0\n", m.AIScore)
	fmt.Fprintf(&sb, "  Documentation: %.1f%%\n", m.DocumentationCoverage)

	if len(report.KeyFindings) > 0 {
		sb.WriteString("\nKEY FINDINGS:\n")
		for _, f := range report.KeyFindings {
			fmt.Fprintf(&sb, "  - %s\n", f)
		}
	}

	if len(report.ActionItems) > 0 {
		sb.WriteString("\nACTION ITEMS:\n")
		for _, a := range report.ActionItems {
			fmt.Fprintf(&sb, "  - %s\n", a)
		}
	}

	sb.WriteString("\nThis is an automated notification.\n")
	return sb.String()
}
