// Package export renders generated articles as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gomutex/godocx"
)

// DocxContentType is the MIME type of the rendered document.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	headingLevel = 1
	bulletStyle  = "List Bullet"
)

// Document is the content of an exported news document.
type Document struct {
	Headline  string
	Brief     string
	Narrative string
}

// Filename returns noticia_tiempo_YYYY_MM_DD.docx for date.
func Filename(date time.Time) string {
	return "noticia_tiempo_" + date.Format("2006_01_02") + ".docx"
}

// RenderDocx writes doc as a word document: the headline as Heading 1, a blank
// line, the brief as a bold bullet, a blank line and the narrative as a plain
// paragraph.
func RenderDocx(w io.Writer, doc Document) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx: %w", err)
	}

	if _, err := document.AddHeading(doc.Headline, headingLevel); err != nil {
		return fmt.Errorf("add heading: %w", err)
	}
	document.AddParagraph("")

	bullet := document.AddParagraph("")
	bullet.Style(bulletStyle)
	brief := bullet.AddText(doc.Brief)
	brief.Bold(true)

	document.AddParagraph("")
	document.AddParagraph(doc.Narrative)

	if err := document.Write(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Docx renders doc into memory.
func Docx(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderDocx(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
