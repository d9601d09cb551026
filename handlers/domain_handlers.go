package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vit0-9/domain_lookup/models"
	"github.com/vit0-9/domain_lookup/pkg/storage"
	"github.com/vit0-9/domain_lookup/pkg/utils/domain"
)

const searchTimeout = 30 * time.Second

// HistoryStore is the persistence the handlers need for search history.
type HistoryStore interface {
	Save(ctx context.Context, sessionID, domainName string, result domain.DomainRecord, source domain.Source) (*storage.SearchHistory, error)
	List(ctx context.Context, sessionID string, limit int) ([]storage.SearchHistory, error)
	Delete(ctx context.Context, id, sessionID string) (bool, error)
	Clear(ctx context.Context, sessionID string) (int64, error)
	Stats(ctx context.Context, sessionID string) (storage.Stats, error)
	DomainSearchCount(ctx context.Context, domainName string) (int64, error)
}

// DomainHandlers serves domain availability searches.
type DomainHandlers struct {
	internal domain.Lookuper
	external domain.Lookuper
	history  HistoryStore
	log      *zap.Logger
}

func NewDomainHandlers(internal, external domain.Lookuper, history HistoryStore, log *zap.Logger) *DomainHandlers {
	return &DomainHandlers{internal: internal, external: external, history: history, log: log}
}

// SearchHandler godoc
// @Summary      Look up a domain
// @Description  Reports whether a domain is available and, when registered, its registrar, dates and name servers. The internal source queries WHOIS directly and caches results; the external source asks WhoisFreaks with WhoAPI as fallback.
// @Tags         Domain
// @Produce      json
// @Param        domain query string true "Domain to look up" example(example.com)
// @Param        source query string false "Lookup source" Enums(internal, external) default(internal)
// @Success      200 {object} domain.DomainRecord "Lookup result, possibly a fallback record"
// @Failure      400 {object} models.ErrorResponse "Missing or malformed domain, or unknown source"
// @Failure      429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure      500 {object} models.ErrorResponse "Lookup failed"
// @Router       /domain/search [get]
func (h *DomainHandlers) SearchHandler(c *gin.Context) {
	var query models.DomainSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	source, ok := domain.ParseSource(query.Source)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "source must be internal or external"})
		return
	}

	lookuper := h.internal
	if source == domain.SourceExternal {
		lookuper = h.external
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), searchTimeout)
	defer cancel()

	record, err := lookuper.Lookup(ctx, query.Domain)
	if err != nil {
		h.log.Error("domain search failed",
			zap.String("domain", query.Domain), zap.String("source", string(source)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	h.saveHistory(c, query.Domain, record, source)
	c.JSON(http.StatusOK, record)
}

// saveHistory never fails the search; a lost history entry is only logged.
func (h *DomainHandlers) saveHistory(c *gin.Context, domainName string, record domain.DomainRecord, source domain.Source) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 5*time.Second)
	defer cancel()

	if _, err := h.history.Save(ctx, SessionID(c), domainName, record, source); err != nil {
		h.log.Warn("failed to save search history", zap.String("domain", domainName), zap.Error(err))
		return
	}
	if !h.log.Core().Enabled(zap.DebugLevel) {
		return
	}
	count, err := h.history.DomainSearchCount(ctx, domainName)
	if err != nil {
		h.log.Debug("search history saved", zap.String("domain", domainName), zap.NamedError("count_error", err))
		return
	}
	h.log.Debug("search history saved", zap.String("domain", domainName), zap.Int64("total_searches", count))
}
