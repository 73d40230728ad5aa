package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/shelfscanapp/shelfscan-server/internal/media/covers"
)

func (s *Server) registerCoverRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCoverMeta",
		Method:      http.MethodGet,
		Path:        "/api/v1/covers/{isbn}",
		Summary:     "Get cover metadata",
		Description: "Returns cached cover metadata including the BlurHash placeholder",
		Tags:        []string{"Covers"},
	}, s.handleGetCoverMeta)

	// Direct chi route for image streaming, outside the huma schema.
	s.router.Get("/covers/{isbn}", s.handleServeCover)
}

type GetCoverMetaInput struct {
	ISBN string `path:"isbn" doc:"Barcode the cover is keyed by"`
}

type CoverMetaResponse struct {
	ISBN        string `json:"isbn" doc:"Barcode"`
	ContentType string `json:"content_type" doc:"Image MIME type"`
	BlurHash    string `json:"blur_hash,omitempty" doc:"BlurHash placeholder"`
	Width       int    `json:"width,omitempty" doc:"Image width in pixels"`
	Height      int    `json:"height,omitempty" doc:"Image height in pixels"`
	Size        int64  `json:"size" doc:"Image size in bytes"`
	Source      string `json:"source,omitempty" doc:"Provider the image came from"`
}

type CoverMetaOutput struct {
	Body CoverMetaResponse
}

func (s *Server) handleGetCoverMeta(_ context.Context, input *GetCoverMetaInput) (*CoverMetaOutput, error) {
	cover, err := s.lookupCover(input.ISBN)
	if err != nil {
		return nil, err
	}

	return &CoverMetaOutput{Body: CoverMetaResponse{
		ISBN:        input.ISBN,
		ContentType: cover.ContentType,
		BlurHash:    cover.BlurHash,
		Width:       cover.Width,
		Height:      cover.Height,
		Size:        cover.Size,
		Source:      cover.Source,
	}}, nil
}

func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	cover, err := s.lookupCover(chi.URLParam(r, "isbn"))
	if err != nil {
		http.Error(w, "cover not found", http.StatusNotFound)
		return
	}

	contentType := cover.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(cover.Data); err != nil {
		s.logger.Debug("cover write aborted", "error", err)
	}
}

func (s *Server) lookupCover(isbn string) (*covers.Cover, error) {
	if s.covers == nil {
		return nil, huma.Error404NotFound("cover caching is disabled")
	}
	cover, err := s.covers.Get(isbn)
	if err != nil {
		return nil, err
	}
	if cover == nil {
		return nil, huma.Error404NotFound("no cover cached for this barcode")
	}
	return cover, nil
}
