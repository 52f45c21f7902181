package server

import (
	"net/http"
	"strconv"
	"strings"
)

// The item endpoints return fixture data: persistence is an external
// collaborator that is not wired in yet. The shapes and ownership checks are
// real so a storage layer can be dropped in behind them.

type itemResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type itemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

const fixtureTimestamp = "2024-01-01T00:00:00Z"

func (s *Server) ListItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())

		items := []itemResponse{
			{ID: 1, Title: "Sample Item 1", Description: "This is a sample item", OwnerID: principal.ID, CreatedAt: fixtureTimestamp, UpdatedAt: fixtureTimestamp},
			{ID: 2, Title: "Sample Item 2", Description: "This is another sample item", OwnerID: principal.ID, CreatedAt: fixtureTimestamp, UpdatedAt: fixtureTimestamp},
		}

		if search := r.URL.Query().Get("search"); search != "" {
			filtered := items[:0]
			for _, item := range items {
				if strings.Contains(strings.ToLower(item.Title), strings.ToLower(search)) {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}

		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", 100)
		if skip > len(items) {
			skip = len(items)
		}
		end := skip + limit
		if end > len(items) {
			end = len(items)
		}

		writeJSON(w, http.StatusOK, items[skip:end])
	}
}

func (s *Server) CreateItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())

		var req itemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}

		writeJSON(w, http.StatusCreated, itemResponse{
			ID:          999,
			Title:       req.Title,
			Description: req.Description,
			OwnerID:     principal.ID,
			CreatedAt:   fixtureTimestamp,
			UpdatedAt:   fixtureTimestamp,
		})
	}
}

func (s *Server) GetItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid item id")
			return
		}

		writeJSON(w, http.StatusOK, itemResponse{
			ID:          id,
			Title:       "Item " + strconv.Itoa(id),
			Description: "Description for item " + strconv.Itoa(id),
			OwnerID:     principal.ID,
			CreatedAt:   fixtureTimestamp,
			UpdatedAt:   fixtureTimestamp,
		})
	}
}

func (s *Server) UpdateItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid item id")
			return
		}

		var req itemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Title == "" {
			req.Title = "Updated Item " + strconv.Itoa(id)
		}

		writeJSON(w, http.StatusOK, itemResponse{
			ID:          id,
			Title:       req.Title,
			Description: req.Description,
			OwnerID:     principal.ID,
			CreatedAt:   fixtureTimestamp,
			UpdatedAt:   "2024-01-01T12:00:00Z",
		})
	}
}

func (s *Server) DeleteItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := pathID(r); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid item id")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
