package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the raw response body. The record API's contract is
// plain shapes on the wire: arrays for lists, the record itself for reads
// and writes, and literal null for an invisible record.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the record API's error shape: {"error": message}.
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, map[string]string{"error": message})
}
