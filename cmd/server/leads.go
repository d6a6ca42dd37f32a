package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/siteoptz/siteoptz/internal/leads"
	"github.com/siteoptz/siteoptz/internal/respond"
)

type downloadGuideResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DownloadURL string `json:"downloadUrl"`
}

// leadHandler decodes a form of type T and hands it to capture.
func leadHandler[T any](capture func(context.Context, *T) (*leads.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, err)
			return
		}

		res, err := capture(r.Context(), &req)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Message: res.Message})
	}
}

func (s *server) handleDownloadGuide(w http.ResponseWriter, r *http.Request) {
	var req leads.GuideRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	slug := strings.TrimSpace(req.Guide)
	if slug == "" {
		slug = leads.DefaultGuide
	}
	guide, err := s.guides.Get(r.Context(), slug)
	if err != nil {
		respond.Error(w, err)
		return
	}
	req.Guide = guide.Slug

	res, err := s.leads.GuideDownload(r.Context(), &req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	token, err := s.signer.Issue(guide.Slug, res.Lead.Email)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, downloadGuideResponse{
		Success:     true,
		Message:     res.Message,
		DownloadURL: s.cfg.SiteURL + "/downloads/" + token,
	})
}
