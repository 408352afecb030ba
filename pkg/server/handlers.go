package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/cardpress/pkg/buildinfo"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	cpio "github.com/matzehuels/cardpress/pkg/io"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type validateResponse struct {
	Valid  bool           `json:"valid"`
	Count  int            `json:"count,omitempty"`
	Issues []errors.Issue `json:"issues,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorBody      `json:"error"`
	Issues    []errors.Issue `json:"issues,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = cpio.WriteRecords(cards.SampleRecords(), w)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	records, err := s.readRecords(w, r)
	var verr *errors.ValidationError
	switch {
	case stderrors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Valid: false, Issues: verr.Issues})
	case err != nil:
		s.fail(w, r, err)
	default:
		writeJSON(w, http.StatusOK, validateResponse{Valid: true, Count: len(records)})
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := s.readRecords(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Render(r.Context(), records, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", sink.ContentType(res.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="business-cards%s"`, sink.Extension(res.Format)))
	w.Header().Set("X-Cardpress-Pages", strconv.Itoa(res.Info.Pages))
	w.Header().Set("X-Cardpress-Cards", strconv.Itoa(res.Info.Cards))
	w.Header().Set("X-Cardpress-Warnings", strconv.Itoa(len(res.Warnings)))
	w.Header().Set("X-Cardpress-Cache", strconv.FormatBool(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	tpl := s.tpl
	opts := pipeline.Options{
		Format:   q.Get("format"),
		Title:    q.Get("title"),
		Template: &tpl,
		BaseDir:  s.assetDir,
	}
	if v := q.Get("duplicate"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "duplicate must be an integer, got %q", v)
		}
		if err := pipeline.ValidateDuplicate(n); err != nil {
			return opts, err
		}
		opts.Duplicate = n
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// errBodyTooLarge marks a request body over the size limit.
var errBodyTooLarge = stderrors.New("request body too large")

// readRecords decodes and validates the request body.
func (s *Server) readRecords(w http.ResponseWriter, r *http.Request) ([]cards.Record, error) {
	raw, err := cpio.ReadRecords(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, errBodyTooLarge, "request body exceeds %d bytes", s.maxBody)
		}
		return nil, err
	}

	records, err := pipeline.ValidateRecords(r.Context(), raw)
	if err != nil {
		return nil, err
	}
	if err := confineLogos(records); err != nil {
		return nil, err
	}
	return records, nil
}

// confineLogos rejects logo paths that leave the asset directory.
func confineLogos(records []cards.Record) error {
	verr := errors.NewValidationError()
	for i, rec := range records {
		if rec.LogoPath != "" && !filepath.IsLocal(rec.LogoPath) {
			verr.Add(errors.Issue{
				Index:  i + 1,
				Field:  "logoPath",
				Reason: fmt.Sprintf("logo path %q must be relative to the asset directory", rec.LogoPath),
			})
		}
	}
	return verr.ErrOrNil()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	}

	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		writeJSON(w, status, errorResponse{
			Error:     errorBody{Code: string(errors.ErrCodeValidationFailed), Message: "validation failed"},
			Issues:    verr.Issues,
			RequestID: RequestID(r.Context()),
		})
		return
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeError(w, r, status, code, errors.UserMessage(err))
}

func statusFor(err error) int {
	if stderrors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:     errorBody{Code: code, Message: message},
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
