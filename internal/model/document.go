package model

// Metadata keys every Document carries.
const (
	MetaTitle     = "title"
	MetaService   = "service"
	MetaCategory  = "category"
	MetaSourceURL = "source_url"
	MetaType      = "type"
)

// Document is a raw text document produced by a document source.
type Document struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Source returns the document origin, falling back to its title.
func (d Document) Source() string {
	if src := d.Metadata[MetaSourceURL]; src != "" {
		return src
	}
	return d.Metadata[MetaTitle]
}

// Chunk is a bounded slice of a Document's text. Metadata is a copy of the
// parent document's metadata; Index is the chunk's position in that document.
type Chunk struct {
	Text     string            `json:"text"`
	Index    int               `json:"index"`
	Metadata map[string]string `json:"metadata"`
}

// RetrievalResult is one scored hit of a similarity query.
type RetrievalResult struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Score    float32           `json:"score"`
}

// ConversationTurn is a prior exchange supplied with a chat request.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QuizQuestion is one multiple-choice question parsed from model output.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}
