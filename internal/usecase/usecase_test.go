package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"contact-mailer-backend/internal/domain"
	"contact-mailer-backend/pkg/apperror"
	"contact-mailer-backend/pkg/email"
	"contact-mailer-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMailer renders for real and records deliveries
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Render(data email.ContactEmailData, now time.Time) (email.Notification, error) {
	return email.Render(data, "Luminaris TechWorks", "mailer@example.com", "ops@example.com", now)
}

func (m *MockMailer) Deliver(ctx context.Context, n email.Notification) error {
	return m.Called(ctx, n).Error(0)
}

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestUsecase(m *MockMailer) *contactUsecase {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return newContactUsecase(m, validation.New(), log, func() time.Time { return fixedNow })
}

func TestSendContactMessage_Success(t *testing.T) {
	m := new(MockMailer)
	uc := newTestUsecase(m)

	var sent email.Notification
	m.On("Deliver", mock.Anything, mock.AnythingOfType("email.Notification")).Return(nil).Run(func(args mock.Arguments) {
		sent = args.Get(1).(email.Notification)
	})

	err := uc.SendContactMessage(context.Background(), &domain.ContactSubmission{
		Name:  "Ada",
		Email: "ada@example.com",
	})
	require.NoError(t, err)
	m.AssertNumberOfCalls(t, "Deliver", 1)

	assert.Contains(t, sent.Subject, "Ada")
	assert.Equal(t, "ada@example.com", sent.ReplyTo)
	assert.Equal(t, fixedNow, sent.SubmittedAt)
	for _, label := range []string{"Company", "Role", "Interest", "Deadline"} {
		assert.Contains(t, sent.TextBody, label+": N/A")
	}
	assert.Contains(t, sent.TextBody, "No message provided")
}

func TestSendContactMessage_ValidationFailsWithoutDelivery(t *testing.T) {
	tests := []struct {
		name string
		sub  domain.ContactSubmission
	}{
		{"missing name", domain.ContactSubmission{Email: "ada@example.com"}},
		{"missing email", domain.ContactSubmission{Name: "Ada"}},
		{"invalid email", domain.ContactSubmission{Name: "Ada", Email: "ada@"}},
		{"name too long", domain.ContactSubmission{Name: strings.Repeat("x", 101), Email: "ada@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockMailer)
			uc := newTestUsecase(m)

			err := uc.SendContactMessage(context.Background(), &tt.sub)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
			m.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
		})
	}
}

func TestSendContactMessage_DeliveryFailure(t *testing.T) {
	t.Run("delivery error is passed through", func(t *testing.T) {
		m := new(MockMailer)
		uc := newTestUsecase(m)
		m.On("Deliver", mock.Anything, mock.Anything).Return(apperror.Delivery(errors.New("dial tcp: connection refused")))

		err := uc.SendContactMessage(context.Background(), &domain.ContactSubmission{Name: "Ada", Email: "ada@example.com"})
		require.Error(t, err)
		appErr := apperror.As(err)
		assert.Equal(t, apperror.KindDelivery, appErr.Kind)
		assert.Equal(t, apperror.MsgDeliveryFailed, appErr.Message)
	})

	t.Run("bare transport error is classified as delivery", func(t *testing.T) {
		m := new(MockMailer)
		uc := newTestUsecase(m)
		m.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("535 auth failed"))

		err := uc.SendContactMessage(context.Background(), &domain.ContactSubmission{Name: "Ada", Email: "ada@example.com"})
		assert.True(t, apperror.Is(err, apperror.KindDelivery))
	})
}

func TestSendContactMessage_NilSubmission(t *testing.T) {
	uc := newTestUsecase(new(MockMailer))
	err := uc.SendContactMessage(context.Background(), nil)
	assert.True(t, apperror.Is(err, apperror.KindUnexpected))
}

func TestHealthCheck(t *testing.T) {
	assert.Equal(t, map[string]string{"status": "ok"}, NewHealthUsecase().Check(context.Background()))
}
