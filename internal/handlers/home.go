package handlers

import (
	"encoding/json"
	"net/http"
)

// HandleHome is the health endpoint.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Server is running!"})
}
