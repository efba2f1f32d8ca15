package summarizer

import "fmt"

const summaryPrompt = `Summarize the following excerpt of a video transcript.

Requirements:
- Write between %d and %d words of plain prose
- Respond in the same language as the transcript
- Keep names, numbers and technical terms exactly as they appear
- No headings, no bullet points, no remarks about the transcript itself

Transcript:
---
%s
---`

func buildPrompt(text string, minLength, maxLength int) string {
	return fmt.Sprintf(summaryPrompt, minLength, maxLength, text)
}
