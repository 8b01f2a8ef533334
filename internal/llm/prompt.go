package llm

import "fmt"

const (
	minRelated = 6
	maxRelated = 8
)

// Prompt is the instruction sent for a subject word.
func Prompt(word string) string {
	return fmt.Sprintf("Provide %d to %d unique words or very short phrases (max 2 words) that are "+
		"conceptually or contextually related to %q. Focus on diverse associations, including "+
		"scientific, cultural, metaphorical, and unexpected but logical connections.",
		minRelated, maxRelated, word)
}
