package copilot

import (
	"fmt"
	"strings"
)

// CursorMarker marks the insertion point inside the prompt.
const CursorMarker = "<|cursor|>"

// Prompt is a system/user message pair sent to a chat model.
type Prompt struct {
	System string
	User   string
}

var modeInstructions = map[string]string{
	ModeInsert:   "Insert code at the cursor that fits between the code before and after it. Do not repeat the surrounding code.",
	ModeComplete: "Complete the current statement or block at the cursor.",
	ModeContinue: "Continue writing code from the cursor.",
}

// BuildPrompt renders the system and user messages for meta.
func BuildPrompt(meta CompletionMetadata) Prompt {
	language := meta.Language
	if language == "" {
		language = "code"
	}
	stack := language
	if len(meta.Technologies) > 0 {
		stack = strings.Join(meta.Technologies, ", ") + " " + language
	}

	system := fmt.Sprintf("You are an expert %s programmer acting as an editor auto-completion engine. "+
		"Reply with only the code to insert at %s. Never wrap the reply in markdown fences, never explain, "+
		"and never repeat code that already exists before or after the cursor.", stack, CursorMarker)

	var user strings.Builder
	instruction, ok := modeInstructions[meta.EditorState.CompletionMode]
	if !ok {
		instruction = modeInstructions[ModeContinue]
	}
	user.WriteString(instruction)
	user.WriteString("\n\n")
	if meta.Filename != "" {
		fmt.Fprintf(&user, "File: %s\n", meta.Filename)
	}
	fmt.Fprintf(&user, "Language: %s\n", language)
	for _, f := range meta.RelatedFiles {
		fmt.Fprintf(&user, "\nRelated file %s:\n%s\n", f.Path, f.Content)
	}
	user.WriteString("\nCode:\n")
	user.WriteString(meta.TextBeforeCursor)
	user.WriteString(CursorMarker)
	user.WriteString(meta.TextAfterCursor)

	return Prompt{System: system, User: user.String()}
}

// CleanCompletion strips a surrounding markdown code fence and any echoed
// cursor marker from a model reply.
func CleanCompletion(text string) string {
	text = strings.ReplaceAll(text, CursorMarker, "")
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	lines := strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return strings.Trim(trimmed, "`")
	}
	closing := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			closing = i
			break
		}
	}
	return strings.Join(lines[1:closing], "\n")
}
