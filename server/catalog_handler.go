package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"soundcatalog/core/catalog"
	"soundcatalog/logger"
	"soundcatalog/model"

	"github.com/gorilla/mux"
)

// CatalogHandler 把 Provider 的查询暴露为 HTTP 接口
type CatalogHandler struct {
	provider *catalog.Provider

	mu           sync.RWMutex
	defaultQuery string
}

func NewCatalogHandler(provider *catalog.Provider, defaultQuery string) *CatalogHandler {
	return &CatalogHandler{provider: provider, defaultQuery: defaultQuery}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("[Server] 写入响应失败", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// SetDefaultQuery 请求未带 q 参数时使用的关键词
func (h *CatalogHandler) SetDefaultQuery(q string) {
	h.mu.Lock()
	h.defaultQuery = q
	h.mu.Unlock()
}

func (h *CatalogHandler) query(r *http.Request) string {
	if q, ok := r.URL.Query()["q"]; ok && len(q) > 0 {
		return q[0]
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.defaultQuery
}

// Routes 注册路由
func (h *CatalogHandler) Routes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog/status", h.HandleStatus).Methods(http.MethodGet)
	api.HandleFunc("/catalog/load", h.HandleLoad).Methods(http.MethodPost)
	api.HandleFunc("/catalog/refresh", h.HandleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/genres", h.HandleGenres).Methods(http.MethodGet)
	api.HandleFunc("/genres/{genre}/tracks", h.HandleTracksByGenre).Methods(http.MethodGet)
	api.HandleFunc("/tracks", h.HandleTracks).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id}", h.HandleTrack).Methods(http.MethodGet)
	api.HandleFunc("/tracks/{id}", h.HandleUpdateTrack).Methods(http.MethodPut)
	api.HandleFunc("/search", h.HandleSearch).Methods(http.MethodGet)
	api.HandleFunc("/favorites", h.HandleFavorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{id}", h.HandleFavorite).Methods(http.MethodGet, http.MethodPut, http.MethodDelete)
}

// HandleStatus 当前生命周期状态
func (h *CatalogHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Status())
}

// HandleLoad 确保目录已加载；未就绪时异步加载并返回 202
func (h *CatalogHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	if h.provider.IsInitialized() {
		writeJSON(w, http.StatusOK, h.provider.Status())
		return
	}
	q := h.query(r)
	h.provider.EnsureReady(q, func(success bool) {
		logger.Info("[Server] 目录加载结束", logger.String("query", q), logger.Bool("success", success))
	})
	writeJSON(w, http.StatusAccepted, h.provider.Status())
}

// HandleRefresh 用新的关键词重新加载
func (h *CatalogHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	q := h.query(r)
	h.provider.Refresh(q, func(success bool) {
		logger.Info("[Server] 目录刷新结束", logger.String("query", q), logger.Bool("success", success))
	})
	writeJSON(w, http.StatusAccepted, h.provider.Status())
}

func (h *CatalogHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Genres())
}

func (h *CatalogHandler) HandleTracksByGenre(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.TracksByGenre(mux.Vars(r)["genre"]))
}

func (h *CatalogHandler) HandleTracks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Tracks())
}

func (h *CatalogHandler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	track, ok := h.provider.TrackByID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// HandleUpdateTrack 替换已有曲目的元数据
func (h *CatalogHandler) HandleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	var track model.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeError(w, http.StatusBadRequest, "invalid track body")
		return
	}
	id := mux.Vars(r)["id"]
	if !h.provider.UpdateTrack(id, track) {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}
	updated, _ := h.provider.TrackByID(id)
	writeJSON(w, http.StatusOK, updated)
}

// HandleSearch ?field=title|album|artist&q=...
func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	field, err := catalog.ParseSearchField(r.URL.Query().Get("field"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Search(field, r.URL.Query().Get("q")))
}

func (h *CatalogHandler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Favorites())
}

// HandleFavorite GET 查询，PUT 收藏，DELETE 取消收藏
func (h *CatalogHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	switch r.Method {
	case http.MethodPut:
		h.provider.SetFavorite(id, true)
	case http.MethodDelete:
		h.provider.SetFavorite(id, false)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"favorite": h.provider.IsFavorite(id),
	})
}
