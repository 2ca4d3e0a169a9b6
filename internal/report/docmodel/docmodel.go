package docmodel

// This file defines the declarative document-definition structures emitted by
// the synthesizer. The tree only carries structural and styling instructions;
// pagination and layout are the downstream renderer's job.
// Pointers are used for optional fields. Required fields use value types.

// ContentType is the declared media type of a serialized document definition.
const ContentType = "application/json"

// Document is the root of a renderable document definition.
type Document struct {
	Info         *Info             `json:"info,omitempty"`
	PageSize     string            `json:"pageSize,omitempty"`
	PageMargins  []int             `json:"pageMargins,omitempty"`
	DefaultStyle *Style            `json:"defaultStyle,omitempty"`
	Styles       map[string]*Style `json:"styles,omitempty"`
	Content      []*Node           `json:"content"`
	Footer       *Node             `json:"footer,omitempty"`
}

// Info carries document metadata for the renderer's output container.
type Info struct {
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Style is a reusable set of text attributes, referenced by name from nodes.
type Style struct {
	FontSize  int    `json:"fontSize,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italics   bool   `json:"italics,omitempty"`
	Color     string `json:"color,omitempty"`
	Fill      string `json:"fillColor,omitempty"`
	Alignment string `json:"alignment,omitempty"`
	Margin    []int  `json:"margin,omitempty"`
}

// Node is one content element. Exactly one of the content fields (Text,
// Stack, Columns, Items, Table, Image) is normally set; the remaining fields
// are inline style overrides.
type Node struct {
	Text      string  `json:"text,omitempty"`
	Stack     []*Node `json:"stack,omitempty"`
	Columns   []*Node `json:"columns,omitempty"`
	Items     []*Node `json:"ul,omitempty"`
	Table     *Table  `json:"table,omitempty"`
	Image     string  `json:"image,omitempty"`
	Style     string  `json:"style,omitempty"`
	Color     string  `json:"color,omitempty"`
	Fill      string  `json:"fillColor,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	FontSize  int     `json:"fontSize,omitempty"`
	Alignment string  `json:"alignment,omitempty"`
	Margin    []int   `json:"margin,omitempty"`
	Width     string  `json:"width,omitempty"`
	// PageBreak is "before" or "after" when a break is forced at this node.
	PageBreak string `json:"pageBreak,omitempty"`
}

// Table holds tabular content as rows of cells.
type Table struct {
	Widths     []string  `json:"widths,omitempty"`
	HeaderRows int       `json:"headerRows,omitempty"`
	Body       [][]*Node `json:"body"`
}

// Txt is a convenience constructor for a plain text node.
func Txt(text string) *Node {
	return &Node{Text: text}
}

// Styled is a convenience constructor for a text node with a named style.
func Styled(text, style string) *Node {
	return &Node{Text: text, Style: style}
}
