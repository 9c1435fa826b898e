// Package prompts holds the German prompt templates for the platform's AI
// content generation.
package prompts

import (
	"fmt"
)

// SystemPersona is prepended to every generation request.
const SystemPersona = "Du bist ein kreativer AI-Assistent für die 'Jagd auf den Bitcoin' Plattform. " +
	"Erstelle deutschen Content mit Humor und Meme-Vibes."

// ForContentType wraps the user's prompt in the template for the requested
// content type. Unknown types pass the prompt through unchanged.
func ForContentType(contentType, userPrompt string) string {
	switch contentType {
	case "meme":
		return fmt.Sprintf("Erstelle einen lustigen Meme-Text für: %s. Verwende deutschen Humor und Bitcoin/Crypto-Bezug.", userPrompt)
	case "comic":
		return fmt.Sprintf("Erstelle eine kurze Comic-Story für: %s. Fokus auf Action und Jagd-Thema.", userPrompt)
	case "story":
		return fmt.Sprintf("Erstelle eine spannende Story-Episode für: %s. Thema: Bitcoin-Jagd mit Murat als Hauptfigur.", userPrompt)
	default:
		return userPrompt
	}
}

// ForConsequence builds the prompt that turns an applied story choice into a
// short consequence text.
func ForConsequence(chapterTitle, choiceText string) string {
	return fmt.Sprintf(`Du bist der Erzähler der interaktiven Story "Jagd auf den Bitcoin".

Kapitel: %s
Entscheidung des Spielers: %s

Schreibe in 1-2 Sätzen die unmittelbare Konsequenz dieser Entscheidung. Spannend, auf Deutsch, ohne Vorgriff auf kommende Kapitel.`, chapterTitle, choiceText)
}
