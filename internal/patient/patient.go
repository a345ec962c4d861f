// Package patient holds the patient-reported input for one analysis.
package patient

import (
	"strings"
)

// Gender as offered on the intake form.
type Gender string

const (
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
	GenderOther        Gender = "Other"
	GenderPreferNotSay Gender = "Prefer not to say"
	GenderUnspecified  Gender = ""
)

// Language is the preferred response language.
type Language string

const (
	LanguageAuto      Language = "Auto"
	LanguageEnglish   Language = "English"
	LanguageHindi     Language = "Hindi"
	LanguageKannada   Language = "Kannada"
	LanguageTelugu    Language = "Telugu"
	LanguageTamil     Language = "Tamil"
	LanguageMarathi   Language = "Marathi"
	LanguageBengali   Language = "Bengali"
	LanguageGujarati  Language = "Gujarati"
	LanguageMalayalam Language = "Malayalam"
	LanguageOdia      Language = "Odia"
)

// Languages lists every supported language in form order.
var Languages = []Language{
	LanguageAuto, LanguageEnglish, LanguageHindi, LanguageKannada, LanguageTelugu,
	LanguageTamil, LanguageMarathi, LanguageBengali, LanguageGujarati,
	LanguageMalayalam, LanguageOdia,
}

// ParseGender matches a form value case-insensitively. Unrecognized values
// become GenderUnspecified.
func ParseGender(s string) Gender {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotSay} {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g
		}
	}
	return GenderUnspecified
}

// ParseLanguage matches a form value case-insensitively. Empty or
// unrecognized values become LanguageAuto.
func ParseLanguage(s string) Language {
	for _, l := range Languages {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l
		}
	}
	return LanguageAuto
}

// Data is one intake form submission.
type Data struct {
	Age               string   `json:"age"`
	Sex               Gender   `json:"sex"`
	PreferredLanguage Language `json:"preferred_language"`
	Duration          string   `json:"duration"`
	Conditions        string   `json:"conditions"`
	Medications       string   `json:"medications"`
	Symptoms          string   `json:"symptoms"`
	IncludeAyurveda   bool     `json:"include_ayurveda"`
}

// Validation messages shown inline on the intake form.
const (
	MsgAgeRequired      = "Please provide your Age."
	MsgSymptomsRequired = "Please describe your symptoms in text or record audio."
)

// ValidationError is a user-facing input problem caught before analysis.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the required fields. hasAudio reports whether a voice
// recording accompanies the submission, which can stand in for symptom text.
func (d Data) Validate(hasAudio bool) error {
	if strings.TrimSpace(d.Age) == "" {
		return &ValidationError{Field: "age", Message: MsgAgeRequired}
	}
	if strings.TrimSpace(d.Symptoms) == "" && !hasAudio {
		return &ValidationError{Field: "symptoms", Message: MsgSymptomsRequired}
	}
	return nil
}
