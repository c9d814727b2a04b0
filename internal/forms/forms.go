// Package forms validates the site's outbound form submissions. Nothing is
// persisted: an accepted submission is logged and acknowledged.
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/travel-catalog/internal/models"
)

var ErrUnknownForm = errors.New("unknown form")

// Form names a submission endpoint
type Form string

const (
	FormContact    Form = "contact"
	FormFeedback   Form = "feedback"
	FormBooking    Form = "booking"
	FormNewsletter Form = "newsletter"
	FormAuth       Form = "auth"
)

// Defaults applied before validation
const (
	DefaultInquiryType = "General"
	DefaultTravelers   = 1
	DefaultBudget      = 8000
	DefaultAuthMode    = "login"
)

const dateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-.]{5,18}[0-9]$`)

// ParseForm resolves a form name
func ParseForm(name string) (Form, error) {
	switch f := Form(strings.ToLower(strings.TrimSpace(name))); f {
	case FormContact, FormFeedback, FormBooking, FormNewsletter, FormAuth:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
}

// ValidationError carries one message per offending field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks form payloads
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Validator with the phone and notpast rules registered
func New() *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag or nil func
	_ = v.validate.RegisterValidation("phone", validPhone)
	_ = v.validate.RegisterValidation("notpast", v.notPast)

	return v
}

// NewRequest returns an empty payload to decode a submission into
func NewRequest(f Form) (any, error) {
	switch f {
	case FormContact:
		return &models.ContactRequest{}, nil
	case FormFeedback:
		return &models.FeedbackRequest{}, nil
	case FormBooking:
		return &models.BookingRequest{}, nil
	case FormNewsletter:
		return &models.NewsletterRequest{}, nil
	case FormAuth:
		return &models.AuthRequest{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, f)
	}
}

// Validate applies defaults to req and checks it. A failure is returned as
// *ValidationError.
func (v *Validator) Validate(req any) error {
	applyDefaults(req)

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe)
		if _, seen := fields[key]; !seen {
			fields[key] = message(key, fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// Submit validates a payload and acknowledges it
func (v *Validator) Submit(ctx context.Context, f Form, req any) (models.SubmissionResponse, error) {
	if err := v.Validate(req); err != nil {
		return models.SubmissionResponse{}, err
	}

	resp := receipt(f, req)
	slog.InfoContext(ctx, "form submission accepted", "form", f, "display_for", resp.DisplayFor)
	return resp, nil
}

func applyDefaults(req any) {
	switch r := req.(type) {
	case *models.ContactRequest:
		if r.InquiryType == "" {
			r.InquiryType = DefaultInquiryType
		}
	case *models.BookingRequest:
		if r.Travelers == 0 {
			r.Travelers = DefaultTravelers
		}
		if r.Budget == 0 {
			r.Budget = DefaultBudget
		}
	case *models.AuthRequest:
		if r.Mode == "" {
			r.Mode = DefaultAuthMode
		}
	}
}

func receipt(f Form, req any) models.SubmissionResponse {
	resp := models.SubmissionResponse{Accepted: true, Form: string(f), DisplayFor: (5 * time.Second).String()}

	switch r := req.(type) {
	case *models.ContactRequest:
		resp.Message = "Thank you for your message! We will get back to you soon."
	case *models.FeedbackRequest:
		resp.Message = "Thank you! Your feedback brightens our journey."
		if r.Attachment != nil {
			resp.Message += " Our technical team will review the attached screenshot."
		}
	case *models.BookingRequest:
		resp.Message = "Thank you for trusting us!"
	case *models.NewsletterRequest:
		resp.Message = "Thank you for subscribing!"
		resp.DisplayFor = (3 * time.Second).String()
	case *models.AuthRequest:
		if r.Mode == "signup" {
			resp.Message = "Signing up " + r.Email
		} else {
			resp.Message = "Logging in " + r.Email
		}
	}
	return resp
}

func validPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// notPast accepts dates from today onwards. Unparseable values are left to
// the datetime rule.
func (v *Validator) notPast(fl validator.FieldLevel) bool {
	day, err := time.ParseInLocation(dateLayout, fl.Field().String(), time.Local)
	if err != nil {
		return true
	}
	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !day.Before(today)
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

var fieldMessages = map[string]string{
	"experience":              "Experience must be between 10-800 characters",
	"attachment.content_type": "Please upload a valid image (JPEG, PNG, JPG, WEBP)",
	"attachment.size":         "File size must be less than 5MB",
	"password":                "Password must be at least 6 characters",
}

func message(key string, fe validator.FieldError) string {
	if fe.Tag() == "required" || fe.Tag() == "required_if" {
		return "is required"
	}
	if msg, ok := fieldMessages[key]; ok {
		return msg
	}

	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "email":
		return "Please enter a valid email address"
	case "min":
		if text {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if text {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "phone":
		return "must be a valid phone number"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "notpast":
		return "must not be in the past"
	default:
		return "is invalid"
	}
}
