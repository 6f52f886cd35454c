package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/platform/sendgrid"
)

type captureMail struct {
	reqs []sendgrid.SendEmailRequest
}

func (c *captureMail) Send(ctx context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	c.reqs = append(c.reqs, req)
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: "m-1"}, nil
}

func TestSendResultsReady(t *testing.T) {
	mail := &captureMail{}
	ns := NewNotificationService(logger.Nop(), mail, "https://cownect.app/")
	result := &types.QuizResult{
		ID:         uuid.MustParse("6f1c9d2e-8a4b-4c3d-9e5f-1a2b3c4d5e6f"),
		TopMatch:   datatypes.NewJSONType(careers.TopMatch{Career: "Data Scientist", Percentage: 82.4}),
		Alternates: datatypes.NewJSONType([]careers.AlternateMatch{{Career: "Data Engineer"}, {Career: "Data Analyst"}}),
	}

	err := ns.SendResultsReady(context.Background(), &types.User{Email: "aggie@ucdavis.edu", FirstName: "Gunrock"}, result)
	require.NoError(t, err)
	require.Len(t, mail.reqs, 1)

	req := mail.reqs[0]
	assert.Equal(t, "aggie@ucdavis.edu", req.To[0].Email)
	assert.Contains(t, req.Text, "Hi Gunrock")
	assert.Contains(t, req.Text, "Data Scientist (82%)")
	assert.Contains(t, req.Text, "Data Engineer, Data Analyst")
	assert.Contains(t, req.Text, "https://cownect.app/results/6f1c9d2e-8a4b-4c3d-9e5f-1a2b3c4d5e6f")
	assert.Contains(t, req.HTML, "<strong>Data Scientist</strong>")
}

func TestSendResultsReady_DisabledWithoutClient(t *testing.T) {
	ns := NewNotificationService(logger.Nop(), nil, "")
	assert.False(t, ns.Enabled())
	assert.NoError(t, ns.SendResultsReady(context.Background(), nil, nil))
}

func TestSendResultsReady_RequiresRecipient(t *testing.T) {
	ns := NewNotificationService(logger.Nop(), &captureMail{}, "")
	err := ns.SendResultsReady(context.Background(), &types.User{}, &types.QuizResult{})
	assert.Error(t, err)
}
