package httpapi

import (
	"net/http"

	"jobtrack-engine/internal/secrets"
)

type SecretsHandler struct{}

// SetAPIToken writes the caller's API token into the OS keychain. Token
// enforcement itself is the Owner middleware's job.
func (h SecretsHandler) SetAPIToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenReq
	if !decodeJSON(w, r, &req) {
		return
	}

	owner := OwnerFrom(r.Context())
	if err := secrets.SetAPIToken(owner, req.Token); err != nil {
		http.Error(w, "failed to store token: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
