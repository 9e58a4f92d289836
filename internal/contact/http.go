package contact

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"MiniAdmin/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store *Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Post("/", s.create)
	r.Delete("/{id}", s.remove)

	return r
}

// The inquiries page reads the list out of the data envelope, unlike the
// raw arrays the other list endpoints return.
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kit.WriteData(w, http.StatusOK, s.Store.List())
}

type createReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Message == "" {
		kit.WriteFail(w, http.StatusBadRequest, "name, email and message are required")
		return
	}

	in := Inquiry{
		ID:        "inq_" + uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	s.Store.Insert(in)

	if s.Log != nil {
		s.Log.Info("inquiry received", zap.String("id", in.ID), zap.String("email", in.Email))
	}
	kit.WriteData(w, http.StatusCreated, in)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if !s.Store.Remove(chi.URLParam(r, "id")) {
		kit.WriteFail(w, http.StatusNotFound, "Contact not found")
		return
	}
	kit.WriteMessage(w, http.StatusOK, "Contact deleted")
}
