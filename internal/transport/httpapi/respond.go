package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError отображает виды ошибок сервисного слоя в HTTP-статусы:
// BadRequest → 400, NotFound → 404, всё остальное → 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsBadRequest(err):
		status = http.StatusBadRequest
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.WithField("component", "http-api").
			WithField("request_id", requestIDFrom(r.Context())).
			WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.BadRequestf("malformed request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, domain.BadRequestf("invalid id %q", raw)
	}
	return id, nil
}

// listFilter читает query/page/page_size из строки запроса.
func listFilter(r *http.Request) (domain.ListFilter, error) {
	filter := domain.ListFilter{Query: r.URL.Query().Get("query")}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return domain.ListFilter{}, domain.BadRequestf("invalid page %q", raw)
		}
		filter.Page = page
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return domain.ListFilter{}, domain.BadRequestf("invalid page_size %q", raw)
		}
		filter.PageSize = size
	}
	return filter, nil
}
