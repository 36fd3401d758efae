package item

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

const (
	maxJSONBodyBytes = 1 << 20
	maxFieldLength   = 255
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	i, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, i)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	input, ok := parseInput(w, r)
	if !ok {
		return
	}

	exists, err := h.repo.NameExists(r.Context(), input.Name)
	if err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "an item with this name already exists")
		return
	}

	i, err := h.repo.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			writeError(w, http.StatusBadRequest, "an item with this name already exists")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, i)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	input, ok := parseInput(w, r)
	if !ok {
		return
	}

	i, err := h.repo.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		if errors.Is(err, ErrDuplicateName) {
			writeError(w, http.StatusBadRequest, "an item with this name already exists")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	writeJSON(w, http.StatusOK, i)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseInput(w http.ResponseWriter, r *http.Request) (ItemInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	var input ItemInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return ItemInput{}, false
	}

	input.Category = strings.TrimSpace(input.Category)
	input.Subcategory = strings.TrimSpace(input.Subcategory)
	input.Name = strings.TrimSpace(input.Name)

	if message, ok := validateInput(input); !ok {
		writeError(w, http.StatusBadRequest, message)
		return ItemInput{}, false
	}

	return input, true
}

func validateInput(input ItemInput) (string, bool) {
	if input.Category == "" {
		return "category is required", false
	}
	if !utf8.ValidString(input.Category) || len(input.Category) > maxFieldLength {
		return "category is invalid", false
	}
	if input.Subcategory == "" {
		return "subcategory is required", false
	}
	if !utf8.ValidString(input.Subcategory) || len(input.Subcategory) > maxFieldLength {
		return "subcategory is invalid", false
	}
	if input.Name == "" {
		return "name is required", false
	}
	if !utf8.ValidString(input.Name) || len(input.Name) > maxFieldLength {
		return "name is invalid", false
	}
	if input.Amount < 0 {
		return "amount must be >= 0", false
	}

	return "", true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
