package journal

// Question is one of the fixed reflective prompts answered per entry.
type Question struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// Question ids, in display order.
const (
	QuestionFlaw   = "flaw"
	QuestionPower  = "power"
	QuestionOrder  = "order"
	QuestionArt    = "art"
	QuestionModern = "modern"
)

var questions = []Question{
	{ID: QuestionFlaw, Label: "Kind of flaw", Prompt: "What flaw of gods or humans shows in this episode?"},
	{ID: QuestionPower, Label: "Power structure", Prompt: "Who holds what kind of power over whom?"},
	{ID: QuestionOrder, Label: "How order is made", Prompt: "How is order created, kept and broken?"},
	{ID: QuestionArt, Label: "Depicted in art", Prompt: "Which paintings, sculptures or works depict this story?"},
	{ID: QuestionModern, Label: "Modern connection", Prompt: "Which present-day phenomena or structures does it connect to?"},
}

// Questions returns the reflective questions in display order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// IsQuestion reports whether id names one of the reflective questions.
func IsQuestion(id string) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
