// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// the workflow services, and encode; business policy stays out of here.
package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses so all
// endpoints share one JSON error envelope. Internal failure details never
// reach the client.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	body := map[string]string{"error": string(code)}
	if msg := dErrors.Message(err); msg != "" && code != dErrors.CodeInternal {
		body["error_description"] = msg
	}
	writeJSON(w, status, body)
}
