package llm

// Prompts for the capture and digest capabilities. Fixed on purpose: the
// pipeline treats the model as an opaque summarizer, not a configurable one.

const linkSummaryPrompt = "Summarize the following web page content in 5-7 concise bullet points. " +
	"Make it easy to skim and focus on key ideas or takeaways only."

const videoSummaryPrompt = "Summarize this video in 5-6 bullet points for internal reference. " +
	"Highlight key ideas, events, or insights. Skip sponsor messages or intros."

const imageDescriptionPrompt = "Describe the image and extract any text present. " +
	"Provide a concise description and include any readable text found within the image."

const entriesSummaryPrompt = "Please summarize the following entries into a concise list of bullet points. " +
	"Each bullet point should represent one entry and be a single sentence:"
