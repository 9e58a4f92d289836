package blog

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniAdmin/internal/ident"
	"MiniAdmin/internal/upload"
	"MiniAdmin/pkg/kit"
)

const maxUploadBytes = 32 << 20

const msgNotFound = "Blog not found"

type Server struct {
	Store *Store
	Files *upload.Saver
	IDs   *ident.Minter
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Post("/", s.create)
	r.Get("/{id}", s.get)
	r.Get("/{id}/image", s.image)
	r.Put("/{id}", s.update)
	r.Delete("/{id}", s.remove)

	return r
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

// image sends the caller to the post's stored file. The public site embeds
// posts with <img src=".../api/blogs/{id}/image">, so this path has to
// resolve even though files live under /uploads.
func (s *Server) image(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Store.FindByID(chi.URLParam(r, "id"))
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if p.ImagePath == "" {
		kit.WriteFail(w, http.StatusNotFound, "Blog has no image")
		return
	}
	http.Redirect(w, r, "/"+p.ImagePath, http.StatusFound)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	title, _ := formValue(r, "title")
	author, _ := formValue(r, "author")
	content, _ := formValue(r, "content")

	if title == "" || author == "" || content == "" {
		kit.WriteFail(w, http.StatusBadRequest, "title, author and content are required")
		return
	}

	p := Post{
		ID:        s.IDs.Next(),
		Title:     title,
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	p.Subtitle, _ = formValue(r, "subtitle")
	p.Category, _ = formValue(r, "category")
	p.Date, _ = formValue(r, "date")
	p.ReadingTime, _ = formValue(r, "readingTime")
	p.Excerpt, _ = formValue(r, "excerpt")

	if fh := formFile(r, "image"); fh != nil {
		rel, err := s.Files.Save(fh)
		if err != nil {
			s.Log.Error("store image failed", zap.Error(err))
			kit.WriteFail(w, http.StatusInternalServerError, "Failed to store image")
			return
		}
		p.ImagePath = rel
	}

	s.Store.Insert(p)
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	prev, ok := s.Store.FindByID(id)
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	var patch Patch
	if raw, ok := formValue(r, "title"); ok {
		patch.Title = &raw
	}
	if raw, ok := formValue(r, "subtitle"); ok {
		patch.Subtitle = &raw
	}
	if raw, ok := formValue(r, "author"); ok {
		patch.Author = &raw
	}
	if raw, ok := formValue(r, "category"); ok {
		patch.Category = &raw
	}
	if raw, ok := formValue(r, "date"); ok {
		patch.Date = &raw
	}
	if raw, ok := formValue(r, "readingTime"); ok {
		patch.ReadingTime = &raw
	}
	if raw, ok := formValue(r, "excerpt"); ok {
		patch.Excerpt = &raw
	}
	if raw, ok := formValue(r, "content"); ok {
		patch.Content = &raw
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

	updated, ok := s.Store.Update(id, patch)
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
	removed, ok := s.Store.Remove(chi.URLParam(r, "id"))
	if !ok {
		kit.WriteFail(w, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.Files.Cleanup(removed.ImagePath); err != nil {
		s.Log.Warn("cleanup deleted image failed", zap.Error(err), zap.String("path", removed.ImagePath))
	}

	kit.WriteMessage(w, http.StatusOK, "Blog deleted")
}

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
