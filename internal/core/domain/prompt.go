package domain

import "strings"

// DefaultExtractionPrompt returns the system prompt that asks a language model
// for the ten biomarkers as a JSON object. The key list is generated from
// AllBiomarkers so the prompt and the decoder never disagree.
func DefaultExtractionPrompt() string {
	var keys strings.Builder
	for _, b := range AllBiomarkers() {
		keys.WriteString("- ")
		keys.WriteString(b.String())
		keys.WriteString(" (")
		keys.WriteString(b.Unit())
		keys.WriteString(")\n")
	}

	return `You are an assistant that parses unstructured lab reports and extracts relevant information.
The lab report will be provided in the next message. Extract the following values from the report:
` + keys.String() + `
The keys must be exactly as listed above, without units. The values must be the numeric values from the report.
Look for common alternative names for these results, such as 'lymphocyte' for 'lymphocyte_percent' or 'CRP' for 'c_reactive_protein', but only use the names above in your answer.
If a value is not in the report, use null. Never guess a value, including age.

Respond with a JSON object containing the extracted values, using the keys exactly as specified above in lowercase with underscores.
Your response should start with "{" and end with "}".`
}
