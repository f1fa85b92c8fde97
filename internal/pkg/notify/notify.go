package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
	"reviewback/internal/platform/config"
	"reviewback/internal/platform/models"
)

// Template names a tenant-customizable notification.
type Template string

const (
	TemplateApprovedQuestionnaire Template = "approved_user_questionnaire"
	TemplateDeclinedQuestionnaire Template = "declined_user_questionnaire"
	TemplateWelcomeQualified      Template = "welcome_qualified_user"
	TemplateWelcomeNonQualified   Template = "welcome_non_qualified_user"
	TemplateWelcomeCreatedByAdmin Template = "email_welcome_new_customer_created_by_admin"
	TemplateChangePassword        Template = "change_password"
	TemplateAdminCreated          Template = "admin_created"
	TemplateCompanyFeedback       Template = "company_feedback"
)

// Notifier delivers a templated notification to a user. Fire-and-forget:
// delivery failures are logged, never surfaced to the request.
type Notifier interface {
	Send(user *models.User, template Template, data map[string]string)
}

type SMTPNotifier struct {
	cfg config.SMTPConfig
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Send(user *models.User, template Template, data map[string]string) {
	go func() {
		if err := n.deliver(user, template, data); err != nil {
			log.Error().
				Err(err).
				Str("template", string(template)).
				Str("user_id", user.ID).
				Msg("notification delivery failed")
		}
	}()
}

func (n *SMTPNotifier) deliver(user *models.User, template Template, data map[string]string) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\r\n", n.cfg.FromName, n.cfg.FromAddress)
	fmt.Fprintf(&body, "To: %s\r\n", user.Email)
	fmt.Fprintf(&body, "Subject: %s\r\n", subjectFor(template))
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&body, "Template: %s\r\n", template)
	for key, value := range data {
		fmt.Fprintf(&body, "%s: %s\r\n", key, value)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	return smtp.SendMail(addr, auth, n.cfg.FromAddress, []string{user.Email}, []byte(body.String()))
}

func subjectFor(template Template) string {
	switch template {
	case TemplateApprovedQuestionnaire:
		return "Your account has been approved"
	case TemplateDeclinedQuestionnaire:
		return "Your application was declined"
	case TemplateWelcomeQualified, TemplateWelcomeNonQualified, TemplateWelcomeCreatedByAdmin:
		return "Welcome"
	case TemplateChangePassword:
		return "Your password has been reset"
	case TemplateAdminCreated:
		return "Your admin account is ready"
	case TemplateCompanyFeedback:
		return "New company feedback"
	default:
		return "Notification"
	}
}
