package api

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/travel-catalog/internal/forms"
)

const maxFormBody = forms.MaxAttachmentSize + 2<<20

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseForm(chi.URLParam(r, "form"))
	if err != nil {
		respondDomainError(w, r, err, "submit form")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)

	var req any
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if form == forms.FormFeedback && mediaType == "multipart/form-data" {
		req, err = forms.DecodeFeedbackMultipart(r)
		var verr *forms.ValidationError
		switch {
		case errors.As(err, &verr):
			respondDomainError(w, r, err, "submit form")
			return
		case err != nil:
			respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	} else {
		req, err = forms.NewRequest(form)
		if err != nil {
			respondDomainError(w, r, err, "submit form")
			return
		}
		if !decodeJSON(w, r, req) {
			return
		}
	}

	resp, err := s.forms.Submit(r.Context(), form, req)
	if err != nil {
		respondDomainError(w, r, err, "submit form")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
