package career

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"MiniAdmin/pkg/kit"
)

const maxBodyBytes = 1 << 20

const msgNotFound = "Career not found"

type Server struct {
	Store *Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Get("/all", s.list) // the dashboard loads the list from this path
	r.Post("/", s.create)
	r.Get("/{id}", s.get)
	r.Put("/toggle/{id}", s.toggle)
	r.Put("/{id}", s.update)
	r.Delete("/{id}", s.remove)

	return r
}

type postingReq struct {
	JobTitle         *string  `json:"JobTitle"`
	Field            *string  `json:"Field"`
	WorkType         *string  `json:"workType"`
	EmploymentType   *string  `json:"employmentType"`
	Description      *string  `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
}

func decodeReq(w http.ResponseWriter, r *http.Request) (postingReq, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req postingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return postingReq{}, false
	}
	return req, true
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.List())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Store.FindByID(chi.URLParam(r, "id"))
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}
	kit.WriteData(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReq(w, r)
	if !ok {
		return
	}

	if req.JobTitle == nil || *req.JobTitle == "" ||
		req.Description == nil || *req.Description == "" ||
		len(req.Requirements) == 0 {
		kit.WriteFail(w, http.StatusBadRequest, "JobTitle, description and requirements are required")
		return
	}

	p := Posting{
		ID:               "car_" + uuid.NewString(),
		JobTitle:         *req.JobTitle,
		Description:      *req.Description,
		Responsibilities: req.Responsibilities,
		Requirements:     req.Requirements,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}
	if req.Field != nil {
		p.Field = *req.Field
	}
	if req.WorkType != nil {
		p.WorkType = *req.WorkType
	}
	if req.EmploymentType != nil {
		p.EmploymentType = *req.EmploymentType
	}
	if p.Responsibilities == nil {
		p.Responsibilities = []string{}
	}

	s.Store.Insert(p)
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, ok := decodeReq(w, r)
	if !ok {
		return
	}

	prev, ok := s.Store.FindByID(id)
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	next := prev
	if req.JobTitle != nil {
		next.JobTitle = *req.JobTitle
	}
	if req.Field != nil {
		next.Field = *req.Field
	}
	if req.WorkType != nil {
		next.WorkType = *req.WorkType
	}
	if req.EmploymentType != nil {
		next.EmploymentType = *req.EmploymentType
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Responsibilities != nil {
		next.Responsibilities = req.Responsibilities
	}
	if req.Requirements != nil {
		next.Requirements = req.Requirements
	}

	updated, ok := s.Store.Replace(id, next)
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	kit.WriteData(w, http.StatusOK, updated)
}

// toggle flips isActive. The dashboard reads the flag straight off the
// response body, so it gets the bare record back.
func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Store.Toggle(chi.URLParam(r, "id"))
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !s.Store.Remove(id) {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	if s.Log != nil {
		s.Log.Info("career removed", zap.String("id", id))
	}
	kit.WriteMessage(w, http.StatusOK, "Career deleted")
}
