package prompts

// AnalysisFile holds the job posting extraction instructions.
const AnalysisFile = "analysis.json"

// JobPostingInstruction returns the fixed instruction sent with every screenshot.
// english selects the English wording; the requested JSON shape is identical.
func JobPostingInstruction(english bool) string {
	key := "extract-job-posting"
	if english {
		key = "extract-job-posting-en"
	}
	return Format(MustGet(AnalysisFile, key), map[string]string{
		"Shape": MustGet(AnalysisFile, "record-shape"),
	})
}
