package word

import (
	"archive/zip"
	"bytes"
)

// Placeholders replaced in the generated template
const (
	placeholderRunID   = "{{RunID}}"
	placeholderDate    = "{{Date}}"
	placeholderSheet   = "{{DataSheet}}"
	placeholderResult  = "{{Result}}"
	placeholderContent = "{{Content}}"
)

var templateParts = []struct {
	name string
	body string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	// Required by some parsers
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Sheet Verification Report</w:t></w:r></w:p>
<w:p><w:r><w:t>Run: {{RunID}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Date: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Data Sheet: {{DataSheet}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Result: {{Result}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`},
}

// buildTemplate returns a minimal .docx holding the report placeholders
func buildTemplate() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, part := range templateParts {
		fw, err := w.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
