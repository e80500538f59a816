package valueobjects

import "strings"

// TryOnPrompt is the instruction sent ahead of the person and clothing images, in that order.
var TryOnPrompt = strings.Join([]string{
	"You are a virtual try-on AI. I'm giving you two images:",
	"1. First image: A photo of a person",
	"2. Second image: A clothing item",
	"",
	"Your task: Generate a new image showing the person from image 1 wearing the clothing from image 2.",
	"",
	"Requirements:",
	"- Keep the person's face, body, pose, skin tone, and hair exactly the same",
	"- Replace their current clothing with the clothing from image 2",
	"- The clothing should fit naturally on the person's body",
	"- Maintain realistic lighting and shadows",
	"- Keep the same background as the original person photo",
	"- Output only the final edited image, no text explanation needed",
}, "\n")
