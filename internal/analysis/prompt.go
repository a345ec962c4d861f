package analysis

import (
	"fmt"
	"strings"

	"github.com/dgallion1/mediai/internal/patient"
)

// SystemInstruction fixes the response contract the interpreter relies on:
// eight headed sections in order, with exactly one triage phrase.
const SystemInstruction = `You are **MediAI**, an advanced AI health triage and information assistant.
Your goal is to analyze patient symptoms, details, and optional visual data (images/reports) to provide a structured, safe, and informative summary.

**CRITICAL SAFETY RULES:**
1. **NOT A DOCTOR:** You MUST start with a clear, bold disclaimer that this is NOT a medical diagnosis and the user should consult a professional.
2. **EMERGENCY:** If symptoms suggest a life-threatening emergency (chest pain, stroke signs, severe breathing difficulty, profuse bleeding), advise the user to call emergency services immediately.
3. **PRIVACY:** Do not mention personally identifiable information found in reports unless relevant to the clinical picture.

**LANGUAGE SUPPORT:**
- You MUST output the analysis in the user's **preferredLanguage**.
- If "Auto" is selected, detect the language from the symptoms text/audio.
- Supported languages include: English, Hindi, Kannada, Telugu, Tamil, Marathi, Bengali, Gujarati, Malayalam, Odia.
- If preferredLanguage is "Hindi", the entire response (headers, content, advice) must be in Hindi.

**VOICE/AUDIO PROCESSING:**
- If audio is provided, you MUST transcribe the relevant medical/symptom information from it first.
- Integrate the transcribed information into the "Summary of Understanding" section.

**OUTPUT STRUCTURE (Markdown):**
1. **⚠️ Safety Disclaimer**: Standard non-medical advice disclaimer.
2. **📋 Summary of Understanding**: Brief recap of patient age, sex, and main complaints (including insights from audio/images).
3. **🚨 Triage & Urgency**: Assessment of urgency. Use EXACTLY one of these phrases (translated if needed): "Emergency", "See a doctor soon", or "Likely mild". Explain why.
4. **🔍 Possible Explanations**: Differential breakdown of what might be causing the symptoms.
5. **📄 Lab/Report Interpretation**: (Only if a report is provided) Explain findings in simple language. If no report, omit or say "No report provided".
6. **🌿 Ayurvedic Lens**: (Only if requested by user) Provide Dosha-based interpretation (Vata/Pitta/Kapha) and general holistic wellness tips. If not requested, OMIT this section entirely.
7. **✅ What You Can Do Next**: Actionable steps (e.g., "Monitor X", "Hydrate", "See specialist Y").
8. **👨‍⚕️ Doctor Handover Summary**: A concise, professional paragraph the patient can show to their doctor.

**TONE:** Professional, empathetic, clear, and calm.`

// Notes placed before attachments.
const (
	ReportNote     = "**Attached Medical Report:** A document has been uploaded below. Please OCR and interpret relevant values."
	ReportTextNote = "**Attached Medical Report (extracted text):** Please interpret the relevant values below."
	AudioNote      = "**Attached Voice Recording:** The user has recorded the following audio description of their symptoms. Please transcribe and analyze."
)

// BuildPrompt renders the intake form as the user turn.
func BuildPrompt(p patient.Data) string {
	lang := p.PreferredLanguage
	if lang == "" {
		lang = patient.LanguageAuto
	}
	ayurveda := "NO"
	if p.IncludeAyurveda {
		ayurveda = "YES"
	}

	var sb strings.Builder
	sb.WriteString("**Analysis Configuration:**\n")
	fmt.Fprintf(&sb, "- preferredLanguage: %s\n", lang)
	fmt.Fprintf(&sb, "- Include Ayurveda: %s\n\n", ayurveda)

	sb.WriteString("**Patient Details:**\n")
	fmt.Fprintf(&sb, "- Age: %s\n", p.Age)
	fmt.Fprintf(&sb, "- Sex: %s\n", p.Sex)
	fmt.Fprintf(&sb, "- Duration of Symptoms: %s\n", p.Duration)
	fmt.Fprintf(&sb, "- Existing Conditions: %s\n", orNone(p.Conditions))
	fmt.Fprintf(&sb, "- Current Medications: %s\n\n", orNone(p.Medications))

	sb.WriteString("**Patient's Description of Symptoms (Text):**\n")
	sb.WriteString(strings.TrimSpace(p.Symptoms))
	sb.WriteString("\n\n")

	sb.WriteString("**Analysis Request:**\n")
	sb.WriteString("- Analyze all inputs (Text, Images, Audio, Reports).\n")
	sb.WriteString("- If Audio is present, transcribe and analyze it for symptom details.\n")
	sb.WriteString("- Provide a structured markdown response as per system instructions.\n")
	fmt.Fprintf(&sb, "- Ensure the Output is in %s.\n", lang)
	return sb.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
