package driven

// MarkdownRenderer converts issue markdown into ticket HTML.
type MarkdownRenderer interface {
	// Render returns the HTML for body. An empty body renders as "".
	Render(body string) (string, error)
}
