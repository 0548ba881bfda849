// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError emits the API error envelope. Mirrors the handler layer's
// format so clients see one shape regardless of which layer rejected them.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
