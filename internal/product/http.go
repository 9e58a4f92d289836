package product

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"MiniAdmin/internal/ident"
	"MiniAdmin/internal/upload"
	"MiniAdmin/pkg/kit"
)

const maxUploadBytes = 32 << 20

const msgNotFound = "Product not found"

type Server struct {
	Store Store
	Files *upload.Saver
	IDs   *ident.Minter
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Post("/", s.create)
	r.Get("/{id}", s.get)
	r.Put("/{id}", s.update)
	r.Delete("/{id}", s.remove)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.Log.Error("list products failed", zap.Error(err))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.FindByID(r.Context(), id)
	if err != nil {
		s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}
	kit.WriteData(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	name, _ := formValue(r, "name")
	description, _ := formValue(r, "description")
	priceRaw, hasPrice := formValue(r, "price")

	if name == "" || description == "" || !hasPrice {
		kit.WriteFail(w, http.StatusBadRequest, "name, description and price are required")
		return
	}

	price, err := cast.ToFloat64E(priceRaw)
	if err != nil {
		kit.WriteFail(w, http.StatusBadRequest, err.Error())
		return
	}

	p := Product{
		ID:          s.IDs.Next(),
		Name:        name,
		Description: description,
		Price:       price,
		Tags:        []string{},
		CreatedAt:   time.Now().UTC(),
	}

	if raw, ok := formValue(r, "oldPrice"); ok && raw != "" {
		old, err := cast.ToFloat64E(raw)
		if err != nil {
			kit.WriteFail(w, http.StatusBadRequest, err.Error())
			return
		}
		p.OldPrice = &old
	}
	if raw, ok := formValue(r, "isNew"); ok {
		p.IsNew = raw == "true"
	}
	if raw, ok := formValue(r, "tags"); ok {
		p.Tags = parseTags(raw)
	}

	if fh := formFile(r, "image"); fh != nil {
		rel, err := s.Files.Save(fh)
		if err != nil {
			s.Log.Error("store image failed", zap.Error(err))
			kit.WriteFail(w, http.StatusInternalServerError, "Failed to store image")
			return
		}
		p.ImagePath = rel
	}

	if err := s.Store.Insert(r.Context(), p); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			kit.WriteFail(w, http.StatusConflict, err.Error())
			return
		}
		s.Log.Error("insert product failed", zap.Error(err))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	prev, ok, err := s.Store.FindByID(r.Context(), id)
	if err != nil {
		s.Log.Error("resolve product failed", zap.Error(err), zap.String("id", id))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	var patch Patch

	if raw, ok := formValue(r, "name"); ok {
		patch.Name = &raw
	}
	if raw, ok := formValue(r, "description"); ok {
		patch.Description = &raw
	}
	if raw, ok := formValue(r, "price"); ok {
		price, err := cast.ToFloat64E(raw)
		if err != nil {
			kit.WriteFail(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.Price = &price
	}
	if raw, ok := formValue(r, "oldPrice"); ok && raw != "" {
		old, err := cast.ToFloat64E(raw)
		if err != nil {
			kit.WriteFail(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.OldPrice = &old
	}
	if raw, ok := formValue(r, "isNew"); ok {
		b := raw == "true"
		patch.IsNew = &b
	}
	if raw, ok := formValue(r, "tags"); ok {
		tags := parseTags(raw)
		patch.Tags = &tags
	}

	if fh := formFile(r, "image"); fh != nil {
		rel, err := s.Files.Save(fh)
		if err != nil {
			s.Log.Error("store image failed", zap.Error(err))
			kit.WriteFail(w, http.StatusInternalServerError, "Failed to store image")
			return
		}
		patch.ImagePath = &rel
	}

	// The record is resolved again inside Update under the store's write
	// lock; prev is only kept for the replaced-image cleanup below.
	updated, ok, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	if patch.ImagePath != nil && prev.ImagePath != "" && prev.ImagePath != *patch.ImagePath {
		if err := s.Files.Cleanup(prev.ImagePath); err != nil {
			s.Log.Warn("cleanup replaced image failed", zap.Error(err), zap.String("path", prev.ImagePath))
		}
	}

	kit.WriteData(w, http.StatusOK, updated)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, ok, err := s.Store.Remove(r.Context(), id)
	if err != nil {
		s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.Files.Cleanup(removed.ImagePath); err != nil {
		s.Log.Warn("cleanup deleted image failed", zap.Error(err), zap.String("path", removed.ImagePath))
	}

	kit.WriteMessage(w, http.StatusOK, "Product deleted")
}

// formValue distinguishes "field absent" from "field present but empty",
// which the merge semantics of update depend on.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vs, ok := r.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func formFile(r *http.Request, key string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	fhs := r.MultipartForm.File[key]
	if len(fhs) == 0 {
		return nil
	}
	return fhs[0]
}

func parseTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}
