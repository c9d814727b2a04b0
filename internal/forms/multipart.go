package forms

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/terra-clan/travel-catalog/internal/models"
)

// MaxAttachmentSize is the largest accepted feedback screenshot
const MaxAttachmentSize = 5 << 20

const maxMultipartMemory = MaxAttachmentSize + 1<<20

// DecodeFeedbackMultipart reads a multipart feedback submission. The
// attachment's content type is sniffed from its bytes rather than trusted
// from the client; its content is discarded. A body rejected by a
// MaxBytesReader yields a *ValidationError on attachment.size.
func DecodeFeedbackMultipart(r *http.Request) (*models.FeedbackRequest, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		// a body cut off by http.MaxBytesReader means the attachment is too large
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ValidationError{Fields: map[string]string{
				"attachment.size": fieldMessages["attachment.size"],
			}}
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := &models.FeedbackRequest{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Experience:  r.FormValue("experience"),
		Suggestions: r.FormValue("suggestions"),
	}

	if raw := r.FormValue("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("rating: %w", err)
		}
		req.Rating = rating
	}

	if raw := strings.TrimSpace(r.FormValue("recommend")); raw != "" {
		recommend, err := parseYesNo(raw)
		if err != nil {
			return nil, err
		}
		req.Recommend = &recommend
	}

	file, header, err := r.FormFile("attachment")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		return nil, fmt.Errorf("attachment: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("detect attachment type: %w", err)
	}
	contentType, _, _ := strings.Cut(mtype.String(), ";")

	req.Attachment = &models.Attachment{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}
	return req, nil
}

func parseYesNo(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("recommend: %q is not yes or no", raw)
	}
	return b, nil
}
