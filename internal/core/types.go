package core

const (
	AppName          = "PDFChat"
	AppUserAgent     = "PDFChat/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/pdfchat"
	AppVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Page is the extracted text of a single PDF page.
type Page struct {
	Source string
	Number int
	Text   string
}

// Segment is a bounded span of document text, the unit of indexing and retrieval.
// Segments are never mutated after the splitter creates them.
type Segment struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Page       int    `json:"page"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
}

// Turn is one answered question.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Route is the router's decision for a single question.
type Route string

const (
	RouteRetrieve Route = "vectorstore"
	RouteMemory   Route = "memory"
)

func (r Route) Valid() bool {
	return r == RouteRetrieve || r == RouteMemory
}
