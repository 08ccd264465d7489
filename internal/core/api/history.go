package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/solatis/regosift/internal/core/auth"
	"github.com/solatis/regosift/internal/types"
)

// FilterRequestRecord is an audit row returned by the history endpoints.
type FilterRequestRecord struct {
	RequestID    string         `db:"request_id" json:"request_id"`
	TenantID     string         `db:"tenant_id" json:"-"`
	PolicySHA256 string         `db:"policy_sha256" json:"policy_sha256"`
	GroupCount   int            `db:"group_count" json:"group_count"`
	ClauseCount  int            `db:"clause_count" json:"clause_count"`
	Outcome      string         `db:"outcome" json:"outcome"`
	ErrorMessage sql.NullString `db:"error_message" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`

	// Error is the JSON view of ErrorMessage, empty on success.
	Error string `db:"-" json:"error,omitempty"`
}

// handleListRequests returns the tenant's recent filter requests,
// newest first, bounded by the configured history limit.
func (s *FilterAPIService) handleListRequests(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantIDFromContext(r.Context())

	var records []FilterRequestRecord
	err := s.queries.Select("list-filter-requests", &records, tenantID, s.cfg.HistoryLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list filter requests")
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}

	for i := range records {
		if records[i].ErrorMessage.Valid {
			records[i].Error = records[i].ErrorMessage.String
		}
	}

	// Empty history serializes as [] rather than null
	if records == nil {
		records = []FilterRequestRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"requests": records})
}

// handleGetRequest returns a single audit row by request_id, scoped to
// the authenticated tenant. Another tenant's request_id yields 404, not
// 403, so ids cannot be probed.
func (s *FilterAPIService) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantIDFromContext(r.Context())

	requestID, err := types.ParseRequestID(r.PathValue("request_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request_id")
		return
	}

	var record FilterRequestRecord
	err = s.queries.Get("get-filter-request", &record, string(requestID), tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to get filter request")
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}

	if record.ErrorMessage.Valid {
		record.Error = record.ErrorMessage.String
	}

	writeJSON(w, http.StatusOK, record)
}
