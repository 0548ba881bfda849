// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/middleware"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// usageResponse is the GET /api/v1/usage body. A period with no recorded
// usage reports zeros rather than 404 so clients can poll it unconditionally.
type usageResponse struct {
	Period   string `json:"period"`
	Tokens   int64  `json:"tokens"`
	Requests int64  `json:"requests"`
}

// Usage handles GET /api/v1/usage. The optional period query parameter
// ("2026-08") selects a past month; the default is the current one.
func (a *API) Usage(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromCtx(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = models.PeriodKey(time.Now())
	} else {
		ts, err := time.Parse("2006-01", period)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "period must look like 2026-08.")
			return
		}
		period = models.PeriodKey(ts)
	}

	row, err := a.usage.PeriodForTenant(r.Context(), tenant.ID, period)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	resp := usageResponse{Period: period}
	if row != nil {
		resp.Tokens = row.Tokens
		resp.Requests = row.Requests
	}
	writeJSON(w, http.StatusOK, resp)
}
