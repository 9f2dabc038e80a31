package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the body shape for every error and for simple
// acknowledgments. The frontend only reads the message field.
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func JSONMessage(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, MessageResponse{Message: message})
}

func JSONError(w http.ResponseWriter, statusCode int, message string) {
	JSONMessage(w, statusCode, message)
}
