package report

import (
	"archive/zip"
	"fmt"
	"io"
)

// Template parts for a minimal WordprocessingML package. The body
// carries the placeholders the Word writer replaces.
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
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Merge Repair Summary</w:t></w:r></w:p>
<w:p><w:r><w:t>Date: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Workbook: {{Workbook}}</w:t></w:r></w:p>
<w:p><w:r><w:t>Worksheets: {{TotalSheets}}</w:t></w:r></w:p>
<w:p><w:r><w:t>{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`},
}

// WriteTemplate writes the built-in summary template as a docx
// package. Used when no custom template is configured, and by
// gentemplate to emit a template file for customization.
func WriteTemplate(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, part := range templateParts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}

	return zw.Close()
}
