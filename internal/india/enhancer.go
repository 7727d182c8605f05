package india

import (
	"fmt"
	"strings"
)

// Enhancer decorates outgoing queries and prompts with regional context so
// the remote model answers with an Indian frame of reference.
type Enhancer struct {
	language string
	city     string
}

// NewEnhancer creates an enhancer for the given preferred language and home
// city. Empty values fall back to English and Mumbai.
func NewEnhancer(language, city string) *Enhancer {
	if language == "" {
		language = "English"
	}
	if city == "" {
		city = "Mumbai"
	}
	return &Enhancer{language: language, city: city}
}

// EnhanceQuery wraps a chat query with regional framing.
func (e *Enhancer) EnhanceQuery(query string) string {
	var b strings.Builder
	b.WriteString(query)
	b.WriteString("\n\n[Context: answer for an audience in India")
	if e.city != "" {
		fmt.Fprintf(&b, ", based in %s", e.city)
	}
	fmt.Fprintf(&b, ". Use INR for money, IST for times, and %s for the reply", e.language)
	b.WriteString(". Prefer Indian examples, brands and units.]")
	return b.String()
}

// EnhanceImagePrompt grounds an image prompt in Indian visual context.
func (e *Enhancer) EnhanceImagePrompt(prompt, style string) string {
	enhanced := fmt.Sprintf("%s, set in India with authentic Indian aesthetics", prompt)
	if style != "" && style != "realistic" {
		enhanced = fmt.Sprintf("%s, %s style", enhanced, style)
	}
	return enhanced
}

// Metadata returns the regional metadata attached to SDK responses.
func (e *Enhancer) Metadata() map[string]string {
	return map[string]string{
		"region":   "IN",
		"timezone": "Asia/Kolkata",
		"currency": "INR",
		"language": e.language,
		"city":     e.city,
	}
}
