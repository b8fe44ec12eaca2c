package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"

	"github.com/resend/resend-go/v3"

	"freight-cost-approval/internal/config"
	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendRequestStatusEmail(ctx context.Context, to *domain.User, cr *domain.CostRequest) error
}

type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender    sender
	config    *config.Config
	templates *template.Template
}

func NewService(cfg *config.Config) Service {
	var s sender
	if cfg.ResendAPIKey != "" {
		s = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return newService(s, cfg)
}

func newService(s sender, cfg *config.Config) *service {
	return &service{
		sender:    s,
		config:    cfg,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (s *service) render(data any) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "layout", data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) sendEmail(toEmail, subject string, data any) error {
	html, err := s.render(data)
	if err != nil {
		return err
	}

	if s.sender == nil {
		log.Printf("Email disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Aprovação de Custos <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err = s.sender.Send(params)
	return err
}

// SendRequestStatusEmail tells the requester how their request was resolved.
func (s *service) SendRequestStatusEmail(ctx context.Context, to *domain.User, cr *domain.CostRequest) error {
	if to == nil || to.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	locale := s.config.Locale
	key := "request_rejected"
	color := "#ef4444"
	if cr.Status == domain.StatusApproved {
		key = "request_approved"
		color = "#10b981"
	}

	resolver := ""
	if cr.ResolvedBy != nil {
		resolver = *cr.ResolvedBy
	}
	vars := map[string]string{
		"cost_type": i18n.CostTypeLabel(locale, string(cr.ExtraCostType)),
		"invoice":   cr.InvoiceNumber,
		"resolver":  resolver,
		"status":    i18n.Translate(locale, "status."+string(cr.Status)),
	}

	message := i18n.Format(locale, key+".message", vars)
	if cr.ResolutionComment != nil && *cr.ResolutionComment != "" {
		message += i18n.Format(locale, "comment.suffix", map[string]string{"comment": *cr.ResolutionComment})
	}

	data := struct {
		Title         string
		Greeting      string
		Message       string
		InvoiceNumber string
		AmountLabel   string
		Amount        string
		Color         string
		Link          string
		Footer        string
	}{
		Title:         i18n.Translate(locale, key+".title"),
		Greeting:      to.FullName + ",",
		Message:       message,
		InvoiceNumber: cr.InvoiceNumber,
		AmountLabel:   i18n.CostTypeLabel(locale, string(cr.ExtraCostType)),
		Amount:        domain.FormatBRL(cr.ExtraCostAmount),
		Color:         color,
		Link:          fmt.Sprintf("https://%s/requests/%s", s.config.Domain, cr.ID),
		Footer:        s.config.Domain,
	}

	return s.sendEmail(to.Email, i18n.Format(locale, "email.status.subject", vars), data)
}
