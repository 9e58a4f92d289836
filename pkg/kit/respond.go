package kit

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wrapper the admin UI expects on lookup and mutation
// endpoints: {"success":true,"data":...} or {"success":false,"message":...}.
// List and create endpoints respond with the raw value instead.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Envelope{Success: true, Message: msg})
}

func WriteFail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Envelope{Success: false, Message: msg})
}
