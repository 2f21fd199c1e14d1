package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendhq/tend/pkg/adapters/memapi"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// NewMockHandler exposes an in-memory backend over the same wire
// surface the real service speaks. Used by the client tests and by
// `tend serve --mock` for local development. When anonKey is
// non-empty, requests must carry it in the apikey header.
func NewMockHandler(api *memapi.API, anonKey string) http.Handler {
	s := &mockServer{api: api, key: anonKey}

	r := chi.NewRouter()
	r.Use(s.auth)
	r.Get("/rest/v1/all", s.fetchAll)
	r.Post("/rest/v1/habits", s.createHabit)
	r.Patch("/rest/v1/habit_logs", s.setCompletion)
	r.Delete("/rest/v1/habits/{id}", s.deleteHabit)
	r.Delete("/rest/v1/routines/{id}", s.deleteRoutine)
	r.Post("/functions/v1/{name}", s.invoke)
	return r
}

type mockServer struct {
	api *memapi.API
	key string
}

func (s *mockServer) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.key != "" && r.Header.Get(anonKeyHeader) != s.key {
			writeError(w, http.StatusUnauthorized, errorBody{Message: "invalid api key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}

// writeDomainError maps the backend error taxonomy onto wire statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusUnprocessableEntity, errorBody{Message: ve.Reason, Field: ve.Field})
		return
	}
	writeError(w, http.StatusBadGateway, errorBody{Message: err.Error()})
}

func (s *mockServer) fetchAll(w http.ResponseWriter, r *http.Request) {
	data, err := s.api.FetchAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Empty collections still marshal as arrays.
	if data.Routines == nil {
		data.Routines = []domain.Routine{}
	}
	if data.Habits == nil {
		data.Habits = []domain.Habit{}
	}
	if data.HabitLogs == nil {
		data.HabitLogs = []domain.HabitLog{}
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *mockServer) createHabit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string `json:"name"`
		RoutineID string `json:"routine_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}
	habit, err := s.api.CreateHabit(r.Context(), body.Name, body.RoutineID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

func (s *mockServer) setCompletion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HabitID   string      `json:"habit_id"`
		Date      domain.Date `json:"date"`
		Completed bool        `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}
	if err := s.api.SetHabitCompletion(r.Context(), body.HabitID, body.Date, body.Completed); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *mockServer) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteHabit(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *mockServer) deleteRoutine(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteRoutine(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *mockServer) invoke(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}
	res, err := s.api.InvokeFunction(r.Context(), chi.URLParam(r, "name"), payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var _ ports.RemoteAPI = (*memapi.API)(nil)
