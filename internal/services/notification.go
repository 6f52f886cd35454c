package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/platform/sendgrid"
)

type NotificationService interface {
	Enabled() bool
	SendResultsReady(ctx context.Context, user *types.User, result *types.QuizResult) error
}

type notificationService struct {
	log     *logger.Logger
	mail    sendgrid.Client
	baseURL string
}

// NewNotificationService returns a service whose sends are no-ops when mail is nil.
func NewNotificationService(log *logger.Logger, mail sendgrid.Client, appBaseURL string) NotificationService {
	return &notificationService{
		log:     log.With("service", "NotificationService"),
		mail:    mail,
		baseURL: strings.TrimRight(strings.TrimSpace(appBaseURL), "/"),
	}
}

func (ns *notificationService) Enabled() bool { return ns.mail != nil }

func (ns *notificationService) SendResultsReady(ctx context.Context, user *types.User, result *types.QuizResult) error {
	if ns.mail == nil {
		return nil
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("recipient email required")
	}
	if result == nil {
		return fmt.Errorf("result required")
	}

	top := result.TopMatch.Data()
	link := ns.resultLink(result)
	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = "there"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", name)
	fmt.Fprintf(&text, "Your top career match is %s (%.0f%%).\n", top.Career, top.Percentage)
	if alts := result.Alternates.Data(); len(alts) > 0 {
		names := make([]string, 0, len(alts))
		for _, a := range alts {
			names = append(names, a.Career)
		}
		fmt.Fprintf(&text, "Other strong fits: %s.\n", strings.Join(names, ", "))
	}
	if link != "" {
		fmt.Fprintf(&text, "\nSee your learning path and club picks: %s\n", link)
	}

	htmlBody := fmt.Sprintf("<p>Hi %s,</p><p>Your top career match is <strong>%s</strong> (%.0f%%).</p>",
		html.EscapeString(name), html.EscapeString(top.Career), top.Percentage)
	if link != "" {
		htmlBody += fmt.Sprintf(`<p><a href="%s">See your learning path and club picks</a></p>`, html.EscapeString(link))
	}

	res, err := ns.mail.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: user.Email, Name: strings.TrimSpace(user.FirstName + " " + user.LastName)}},
		Subject:    "Your career matches are ready",
		Text:       text.String(),
		HTML:       htmlBody,
		Categories: []string{"quiz_results"},
	})
	if err != nil {
		return fmt.Errorf("send results email: %w", err)
	}
	ns.log.Debug("results email sent", "result_id", result.ID, "message_id", res.MessageID)
	return nil
}

func (ns *notificationService) resultLink(result *types.QuizResult) string {
	if ns.baseURL == "" {
		return ""
	}
	return ns.baseURL + "/results/" + result.ID.String()
}
