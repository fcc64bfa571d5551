package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"contact-mailer-backend/internal/domain"
	"contact-mailer-backend/pkg/apperror"
	"contact-mailer-backend/pkg/email"
	"contact-mailer-backend/pkg/metrics"
	"contact-mailer-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Mailer renders and relays contact notifications.
type Mailer interface {
	Render(data email.ContactEmailData, now time.Time) (email.Notification, error)
	Deliver(ctx context.Context, n email.Notification) error
}

type contactUsecase struct {
	mailer   Mailer
	validate *validator.Validate
	now      func() time.Time
	log      *slog.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer Mailer, validate *validator.Validate, log *slog.Logger) domain.ContactUsecase {
	return newContactUsecase(mailer, validate, log, time.Now)
}

func newContactUsecase(mailer Mailer, validate *validator.Validate, log *slog.Logger, now func() time.Time) *contactUsecase {
	return &contactUsecase{
		mailer:   mailer,
		validate: validate,
		now:      now,
		log:      log,
	}
}

// SendContactMessage validates the submission, renders the notification and
// delivers it once. Failures come back as *apperror.AppError.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, sub *domain.ContactSubmission) error {
	if sub == nil {
		return apperror.Unexpected(errors.New("nil contact submission"))
	}

	if err := uc.validate.Struct(sub); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return apperror.Validation(validation.FieldErrors(err))
	}

	uc.log.Info("contact form submission received", "name", sub.Name, "email", sub.Email)

	n, err := uc.mailer.Render(email.ContactEmailData{
		SenderName:  sub.Name,
		SenderEmail: sub.Email,
		Company:     sub.Company,
		Role:        sub.Role,
		Interest:    sub.Interest,
		Deadline:    sub.Deadline,
		Message:     sub.Message,
	}, uc.now())
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues("error").Inc()
		uc.log.Error("failed to render contact email", "error", err)
		return apperror.Unexpected(err)
	}

	if err := uc.mailer.Deliver(ctx, n); err != nil {
		metrics.ContactSubmissions.WithLabelValues("delivery_failed").Inc()
		uc.log.Error("failed to deliver contact email", "name", sub.Name, "error", err)
		if apperror.Is(err, apperror.KindDelivery) {
			return err
		}
		return apperror.Delivery(err)
	}

	metrics.ContactSubmissions.WithLabelValues("delivered").Inc()
	uc.log.Info("contact email delivered", "name", sub.Name)
	return nil
}
