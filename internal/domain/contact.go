package domain

import "context"

// ContactSubmission represents a contact form submission.
// Optional fields are pointers so an omitted field can be told apart from "".
type ContactSubmission struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Company  *string `json:"company" binding:"omitempty,max=200"`
	Role     *string `json:"role" binding:"omitempty,max=100"`
	Interest *string `json:"interest" binding:"omitempty,max=100"`
	Message  *string `json:"message" binding:"omitempty,max=5000"`
	Deadline *string `json:"deadline" binding:"omitempty,max=100"`
}

// ContactResponse is returned when the notification was handed to the relay.
type ContactResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Thank you for contacting us. We'll respond within 24 hours."`
}

const ContactThankYou = "Thank you for contacting us. We'll respond within 24 hours."

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission and relays it to the operator mailbox
	SendContactMessage(ctx context.Context, sub *ContactSubmission) error
}
