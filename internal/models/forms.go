package models

// ContactRequest is the contact page form
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
	InquiryType string `json:"inquiry_type,omitempty" validate:"oneof=General Booking Support Partnership Feedback"`
	Message     string `json:"message" validate:"required,min=10,max=2000"`
}

// Attachment describes an uploaded file. Only metadata is validated,
// the content is never stored.
type Attachment struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/jpg image/webp"`
	Size        int64  `json:"size" validate:"gt=0,max=5242880"`
}

// FeedbackRequest is the feedback page form
type FeedbackRequest struct {
	Name        string      `json:"name,omitempty" validate:"max=100"`
	Email       string      `json:"email" validate:"required,email"`
	Rating      int         `json:"rating" validate:"min=1,max=5"`
	Experience  string      `json:"experience" validate:"required,min=10,max=800"`
	Suggestions string      `json:"suggestions,omitempty" validate:"max=800"`
	Recommend   *bool       `json:"recommend" validate:"required"`
	Attachment  *Attachment `json:"attachment,omitempty" validate:"omitempty"`
}

// BookingRequest is the booking page form
type BookingRequest struct {
	Destination string   `json:"destination" validate:"required,max=200"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02,notpast"`
	Budget      int      `json:"budget" validate:"min=1000,max=10000"`
	Travelers   int      `json:"travelers,omitempty" validate:"min=1,max=20"`
	Duration    string   `json:"duration,omitempty" validate:"omitempty,oneof=weekend week two-weeks month"`
	MinRating   string   `json:"rating,omitempty" validate:"omitempty,oneof=3 4 5"`
	Amenities   []string `json:"amenities,omitempty" validate:"dive,oneof=wifi pool spa breakfast parking gym"`
}

// NewsletterRequest is the footer/home signup form
type NewsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthRequest is the sign-in/sign-up mock form
type AuthRequest struct {
	Mode     string `json:"mode" validate:"oneof=login signup"`
	Name     string `json:"name,omitempty" validate:"required_if=Mode signup,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SubmissionResponse acknowledges an accepted form
type SubmissionResponse struct {
	Accepted   bool   `json:"accepted"`
	Form       string `json:"form"`
	Message    string `json:"message"`
	DisplayFor string `json:"display_for"`
}
