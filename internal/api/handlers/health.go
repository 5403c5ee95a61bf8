package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eburton/receiptmatch/internal/api/dto"
)

// Health reports liveness. It needs no store, so it is a plain func
// rather than a handler struct.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.NewHealthResponse())
}
