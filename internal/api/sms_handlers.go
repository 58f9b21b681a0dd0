package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (s *Server) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	if s.sms == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "sms gateway is not configured"})
		return
	}

	var in struct {
		Recipient string `json:"recipient"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	if strings.TrimSpace(in.Recipient) == "" || strings.TrimSpace(in.Message) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "recipient and message are required"})
		return
	}

	if err := s.sms.Send(r.Context(), in.Recipient, in.Message); err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "SMS sent successfully"})
}
