package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/siteoptz/siteoptz/internal/apperr"
)

// handleDownload serves the guide a download token grants.
func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	claims, err := s.signer.Verify(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "This download link is invalid or has expired.", http.StatusUnauthorized)
		return
	}

	guide, err := s.guides.Get(r.Context(), claims.Guide)
	if err != nil {
		downloadError(w, err)
		return
	}

	path, err := s.guides.Path(guide)
	if err != nil {
		downloadError(w, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("guide %s: %v", guide.Slug, err)
		http.Error(w, "guide not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", guide.Slug+".pdf"))
	http.ServeFile(w, r, path)
}

func downloadError(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.As(err); ok && appErr.Code < http.StatusInternalServerError {
		http.Error(w, appErr.Message, appErr.Code)
		return
	}
	log.Printf("download failed: %v", err)
	http.Error(w, "download failed", http.StatusInternalServerError)
}
