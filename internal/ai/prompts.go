package ai

import "fmt"

// GrammarPrompt asks for a corrected version of content with no preamble.
func GrammarPrompt(content string) string {
	return fmt.Sprintf("Correct the grammar and spelling mistakes in the following text. "+
		"Preserve the original meaning and tone. Only output the corrected text, "+
		"without any introductory phrases like \"Here is the corrected text:\":\n\n\"%s\"", content)
}

// TranslateTitlePrompt asks for a translation of a story title into language.
func TranslateTitlePrompt(title, language string) string {
	return fmt.Sprintf("Translate the following story title accurately to %s. "+
		"Output only the translated title:\n\"%s\"", language, title)
}

// TranslateContentPrompt asks for a translation of a story body into language.
func TranslateContentPrompt(content, language string) string {
	return fmt.Sprintf("Translate the following story content accurately to %s. "+
		"Output only the translated content:\n\"%s\"", language, content)
}
