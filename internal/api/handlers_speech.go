package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/dgallion1/mediai/internal/patient"
	"github.com/dgallion1/mediai/internal/speech"
)

type speechResponse struct {
	Text           string `json:"text"`
	LanguageTag    string `json:"language_tag"`
	AudioAvailable bool   `json:"audio_available"`
}

func speechFor(req markdownRequest) speechResponse {
	return speechResponse{
		Text:        interpret.Interpret(req.Markdown).Speech,
		LanguageTag: speech.LanguageTag(patient.ParseLanguage(req.Language)),
	}
}

// handleSpeechText returns the speakable summary of a response.
func (s *Server) handleSpeechText(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMarkdown(w, r)
	if !ok {
		return
	}
	resp := speechFor(req)
	resp.AudioAvailable = s.speech.Available()
	writeJSON(w, http.StatusOK, resp)
}

// handleSpeechAudio synthesizes the speakable summary on the server.
func (s *Server) handleSpeechAudio(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMarkdown(w, r)
	if !ok {
		return
	}
	if !s.speech.Available() {
		jsonError(w, speech.ErrUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}
	resp := speechFor(req)
	var audio bytes.Buffer
	if err := s.speech.Synthesize(r.Context(), resp.Text, resp.LanguageTag, &audio); err != nil {
		s.log.Error("speech synthesis failed", "error", err)
		jsonError(w, "speech synthesis failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.speech.ContentType())
	w.Write(audio.Bytes())
}
