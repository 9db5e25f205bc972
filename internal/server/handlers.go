package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/SagarThayat/movie-explorer-app/internal/app/catalog"
	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/query"
	"github.com/SagarThayat/movie-explorer-app/internal/view"
)

const (
	formatJSON = "json"
	formatHTML = "html"
)

// listParams 是列表接口的查询参数。query 的语义校验由 query.ParseTerm 负责。
type listParams struct {
	Page   int    `validate:"gte=1,lte=500"`
	Format string `validate:"omitempty,oneof=json html"`
}

type historyResponse struct {
	RecentSearches []string `json:"recent_searches"`
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseListParams(w, r, false)
	if !ok {
		return
	}
	res, err := s.explorer.Trending(r.Context())
	s.respondList(w, r, p, res, err)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseListParams(w, r, true)
	if !ok {
		return
	}
	res, err := s.explorer.Search(r.Context(), r.URL.Query().Get("query"), p.Page)
	s.respondList(w, r, p, res, err)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseListParams(w, r, false)
	if !ok {
		return
	}
	d, err := s.explorer.Details(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	if p.Format == formatHTML {
		s.respondHTML(w, r, http.StatusOK, func(b *strings.Builder) error { return view.RenderDetailsHTML(b, d) })
		return
	}
	s.respondJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, historyResponse{RecentSearches: s.explorer.RecentSearches()})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.explorer.ClearHistory(r.Context())
	s.respondJSON(w, r, http.StatusOK, historyResponse{RecentSearches: []string{}})
}

func (s *Server) parseListParams(w http.ResponseWriter, r *http.Request, withPage bool) (listParams, bool) {
	q := r.URL.Query()
	p := listParams{Page: 1, Format: strings.ToLower(strings.TrimSpace(q.Get("format")))}
	if withPage {
		page, err := query.ParsePage(q.Get("page"))
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error())
			return listParams{}, false
		}
		p.Page = page
	}
	if err := s.validator.StructCtx(r.Context(), p); err != nil {
		s.logger.DebugContext(r.Context(), "参数校验失败", "request_id", RequestID(r.Context()), "err", err)
		s.respondError(w, r, http.StatusBadRequest, "参数校验失败："+describeValidation(err))
		return listParams{}, false
	}
	return p, true
}

func (s *Server) respondList(w http.ResponseWriter, r *http.Request, p listParams, res domain.ListResult, err error) {
	if err == nil {
		if p.Format == formatHTML {
			opts := view.ListOptions{Recent: s.explorer.RecentSearches()}
			s.respondHTML(w, r, http.StatusOK, func(b *strings.Builder) error { return view.RenderListHTML(b, res, opts) })
			return
		}
		s.respondJSON(w, r, http.StatusOK, res)
		return
	}

	var ue *catalog.UpstreamError
	if p.Format == formatHTML && errors.As(err, &ue) {
		// 上游不可用时，HTML 片段仍渲染为空列表 + 提示。
		empty := domain.ListResult{Kind: ue.Op, Page: 1, TotalPages: 1}
		empty.Finalize()
		opts := view.ListOptions{Recent: s.explorer.RecentSearches(), Notice: ue.Error()}
		s.respondHTML(w, r, http.StatusBadGateway, func(b *strings.Builder) error { return view.RenderListHTML(b, empty, opts) })
		return
	}
	s.respondFailure(w, r, err)
}

// respondFailure 把应用层错误映射为 HTTP 状态码。
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ie *query.InvalidError
		ue *catalog.UpstreamError
	)
	switch {
	case errors.As(err, &ie):
		s.respondError(w, r, http.StatusBadRequest, ie.Error())
	case errors.Is(err, catalog.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &ue):
		s.logger.WarnContext(r.Context(), "catalog 上游失败", "request_id", RequestID(r.Context()), "op", ue.Op, "err", ue.Err)
		s.respondError(w, r, http.StatusBadGateway, ue.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, r, http.StatusServiceUnavailable, "请求已取消或超时")
	default:
		s.logger.ErrorContext(r.Context(), "未分类错误", "request_id", RequestID(r.Context()), "err", err)
		s.respondError(w, r, http.StatusInternalServerError, "内部错误")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.ErrorContext(r.Context(), "编码 JSON 响应失败", "path", r.URL.Path, "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondHTML 先完整渲染再写出，模板出错时仍能返回 JSON 错误。
func (s *Server) respondHTML(w http.ResponseWriter, r *http.Request, status int, render func(*strings.Builder) error) {
	var b strings.Builder
	if err := render(&b); err != nil {
		s.logger.ErrorContext(r.Context(), "渲染 HTML 失败", "path", r.URL.Path, "err", err)
		s.respondError(w, r, http.StatusInternalServerError, "内部错误")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(b.String()))
}

func describeValidation(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fmt.Sprintf("%s 不满足 %s", strings.ToLower(fe.Field()), strings.TrimSpace(fe.Tag()+" "+fe.Param())))
	}
	return strings.Join(msgs, "; ")
}
