package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/storage"
	"github.com/hyperjump/reelmatch/internal/validation"
)

const (
	maxBodyBytes       = 1 << 20
	defaultSearchLimit = 10
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSuggestGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.SuggestRequest{
		Query:  q.Get("query"),
		Mode:   q.Get("mode"),
		Enrich: parseBool(q.Get("enrich")),
	}
	if req.Query == "" {
		req.Query = q.Get("q")
	}
	s.suggest(w, r, &req)
}

func (s *Server) handleSuggestPost(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.suggest(w, r, &req)
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request, req *models.SuggestRequest) {
	if err := validation.ValidateStruct(req); err != nil {
		s.respondErr(w, err)
		return
	}
	mode, err := models.ParseMode(req.Mode, s.rec.DefaultMode())
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.logger.Debug("suggest request", zap.String("query", req.Query), zap.String("mode", mode.String()))
	res, err := s.rec.Suggest(r.Context(), req.Query, mode)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if req.Enrich {
		s.enricher.Enrich(r.Context(), res)
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "movie")
	if !ok {
		return
	}
	m, found := s.rec.Current().Catalog().Get(id)
	if !found {
		s.respondErr(w, storage.ErrMovieNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "movie")
	if !ok {
		return
	}
	mode, err := models.ParseMode(r.URL.Query().Get("mode"), s.rec.DefaultMode())
	if err != nil {
		s.respondErr(w, err)
		return
	}
	res, err := s.rec.SuggestByID(r.Context(), id, mode)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if parseBool(r.URL.Query().Get("enrich")) {
		s.enricher.Enrich(r.Context(), res)
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.respondError(w, http.StatusNotImplemented, "title search not enabled")
		return
	}
	q := r.URL.Query()
	req := models.SearchRequest{Query: q.Get("q")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		req.Limit = n
	}
	if err := validation.ValidateStruct(&req); err != nil {
		s.respondErr(w, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}
	hits, err := s.index.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.logger.Error("title search failed", zap.Error(err))
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": req.Query, "hits": hits})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "movie")
	if !ok {
		return
	}
	if _, found := s.rec.Current().Catalog().Get(id); !found {
		s.respondErr(w, storage.ErrMovieNotFound)
		return
	}
	d, err := s.provider.MovieDetail(r.Context(), id)
	if err != nil {
		s.logger.Warn("metadata lookup failed", zap.Int("id", id), zap.Error(err))
		s.respondErr(w, providerError{err})
		return
	}
	s.respondJSON(w, http.StatusOK, d)
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "person")
	if !ok {
		return
	}
	p, err := s.provider.PersonDetail(r.Context(), id)
	if err != nil {
		s.logger.Warn("person lookup failed", zap.Int("id", id), zap.Error(err))
		s.respondErr(w, providerError{err})
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	movies, err := s.provider.Trending(r.Context())
	if err != nil {
		s.logger.Warn("trending lookup failed", zap.Error(err))
		s.respondErr(w, providerError{err})
		return
	}
	if movies == nil {
		movies = []models.MovieSummary{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"movies": movies})
}

type breakerReporter interface {
	BreakerState() string
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"snapshot": s.rec.Stats(),
	}
	if s.index != nil {
		if n, err := s.index.DocCount(); err == nil {
			resp["title_index_docs"] = n
		}
	}
	if br, ok := s.provider.(breakerReporter); ok {
		resp["metadata_circuit"] = br.BreakerState()
	}

	cfg := s.config
	resp["config"] = map[string]interface{}{
		"corpus_path":       cfg.Corpus.Path,
		"top_cast":          cfg.Corpus.TopCast,
		"top_n":             cfg.Recommend.TopN,
		"default_mode":      cfg.Recommend.DefaultMode,
		"metadata_enabled":  cfg.Metadata.Enabled,
		"watch_enabled":     cfg.Watch.Enabled,
		"database_path":     cfg.Storage.DatabasePath,
		"bleve_index_path":  cfg.Storage.BleveIndexPath,
		"matrix_cache_path": cfg.Storage.MatrixCachePath,
	}
	if diskBytes, err := storage.DiskUsageBytes(
		cfg.Storage.DatabasePath,
		cfg.Storage.BleveIndexPath,
		cfg.Storage.MatrixCachePath,
	); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, kind string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid "+kind+" id")
		return 0, false
	}
	return id, true
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
