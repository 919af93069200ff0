package insights

import "strings"

// Sections lists what every insights response covers, in order.
var Sections = []string{
	"A short summary.",
	"Action items with responsible people.",
	"Sentiment of the overall meeting.",
	"Key insights or decisions made during the meeting.",
	"Number of participants.",
	"Any follow-up questions or topics that need further discussion.",
}

const exampleFormat = `**1. Summary:** The meeting discussed YouTube's content recommendation algorithm. The speaker argues that the algorithm reflects current global trends and individual user interests, aiming for diversity while prioritizing relevance. A disagreement exists regarding the algorithm's transparency and control over content selection.

**2. Action Items:** None explicitly stated in the transcript.

**3. Sentiment:** The overall sentiment is a mix of explanatory and slightly defensive regarding the YouTube algorithm. There's an underlying tension between the algorithm's design goals and concerns about content control and transparency.

**4. Key Insights/Decisions:** No concrete decisions were made. The key insight is the speaker's perspective on the algorithm's design philosophy: prioritizing relevance and reflecting real-world trends over strict content selection.

**5. Number of Participants:** The transcript indicates at least two participants, one speaking and at least one listening. The exact number is unknown.

**6. Follow-up Questions/Topics:**
* Deeper discussion on balancing diversity and relevance in the algorithm.
* Addressing concerns about the algorithm's lack of transparency and control for content creators.
* Exploring methods to improve the algorithm's responsiveness to user feedback.
`

// BuildPrompt embeds the transcript verbatim in the fixed insights request.
func BuildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Here is a meeting transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nProvide:\n")
	for i, s := range Sections {
		b.WriteString(string(rune('1' + i)))
		b.WriteString(". ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString("Please ensure the response is concise and structured.\n\n")
	b.WriteString("Example response format:\n\n")
	b.WriteString(exampleFormat)
	return b.String()
}
