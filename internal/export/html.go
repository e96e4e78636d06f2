package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/inamate/artboard/internal/document"
)

// HTML writes a standalone page that lays the elements out with absolute
// positioning inside a fixed-size artboard.
func HTML(w io.Writer, board document.Board, elements []document.Element) error {
	sorted := make([]document.Element, len(elements))
	copy(sorted, elements)
	document.SortByZ(sorted)

	artboard := element(atom.Div, "artboard", style(
		"position", "relative",
		"width", px(board.Width),
		"height", px(board.Height),
		"background", cssColor(board.Background, "#ffffff"),
		"overflow", "hidden",
	))
	for _, el := range sorted {
		artboard.AppendChild(elementNode(el))
	}

	title := element(atom.Title, "", "")
	title.AppendChild(&html.Node{Type: html.TextNode, Data: boardTitle(board)})

	head := element(atom.Head, "", "")
	meta := element(atom.Meta, "", "")
	meta.Attr = append(meta.Attr, html.Attribute{Key: "charset", Val: "utf-8"})
	head.AppendChild(meta)
	head.AppendChild(title)

	body := element(atom.Body, "", "margin:0")
	body.AppendChild(artboard)

	root := element(atom.Html, "", "")
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func elementNode(el document.Element) *html.Node {
	decl := []string{
		"position", "absolute",
		"left", px(el.X),
		"top", px(el.Y),
		"width", px(el.Width),
		"height", px(el.Height),
		"z-index", strconv.Itoa(el.ZIndex),
		"transform-origin", "center",
	}
	if el.Rotation != 0 {
		decl = append(decl, "transform", "rotate("+num(el.Rotation)+"deg)")
	}

	var n *html.Node
	switch el.Kind {
	case document.KindText:
		decl = append(decl,
			"color", cssColor(el.TextColor, "#111827"),
			"font-size", px(el.FontSize),
			"white-space", "pre-wrap",
			"overflow", "hidden",
		)
		n = element(atom.Div, "element text", style(decl...))
		n.AppendChild(&html.Node{Type: html.TextNode, Data: el.Content})
	default:
		decl = append(decl, "background", cssColor(el.FillColor, "#3b82f6"))
		n = element(atom.Div, "element rectangle", style(decl...))
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "data-id", Val: el.ID})
	return n
}

func element(a atom.Atom, class, css string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	if css != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: css})
	}
	return n
}

// style joins property/value pairs into a declaration list.
func style(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(pairs[i])
		b.WriteByte(':')
		b.WriteString(pairs[i+1])
	}
	return b.String()
}

func px(v float64) string {
	return num(v) + "px"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boardTitle(b document.Board) string {
	if b.Name != "" {
		return b.Name
	}
	return "Artboard"
}
