package spreadsheet

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"

	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

// ReadODS parses the first table of an OpenDocument spreadsheet
func ReadODS(r io.ReaderAt, size int64) (*Table, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open ods: %w", err)
	}

	var content *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "mimetype":
			if err := checkMimeType(f); err != nil {
				return nil, err
			}
		case "content.xml":
			content = f
		}
	}
	if content == nil {
		return nil, fmt.Errorf("%w: ods without content.xml", ErrUnsupportedFormat)
	}

	rc, err := content.Open()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open content.xml: %w", err)
	}
	defer rc.Close()

	return parseODSContent(rc)
}

func checkMimeType(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("spreadsheet: read mimetype: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, 256))
	if err != nil {
		return fmt.Errorf("spreadsheet: read mimetype: %w", err)
	}
	if got := strings.TrimSpace(string(b)); got != odsMimeType {
		return fmt.Errorf("%w: mimetype %q", ErrUnsupportedFormat, got)
	}
	return nil
}

// odsSheet accumulates rows of the first table while content.xml is streamed
type odsSheet struct {
	name         string
	rows         [][]string
	pendingEmpty int
	cells        int
}

// addRow appends a row repeat times. Repeated copies share one backing
// slice; the total number of stored cells is capped at maxCells.
func (s *odsSheet) addRow(cells []string, repeat int) error {
	if len(cells) == 0 {
		s.pendingEmpty = min(s.pendingEmpty+repeat, maxRows)
		return nil
	}
	for ; s.pendingEmpty > 0 && len(s.rows) < maxRows; s.pendingEmpty-- {
		s.rows = append(s.rows, nil)
	}
	s.pendingEmpty = 0

	n := min(repeat, maxRows-len(s.rows))
	if n <= 0 {
		return nil
	}
	if n > (maxCells-s.cells)/len(cells) {
		return fmt.Errorf("%w: %q exceeds %d cells", ErrSheetTooLarge, s.name, maxCells)
	}
	s.cells += n * len(cells)

	row := append([]string(nil), cells...)
	for i := 0; i < n; i++ {
		s.rows = append(s.rows, row)
	}
	return nil
}

func parseODSContent(r io.Reader) (*Table, error) {
	dec := xml.NewDecoder(r)

	var (
		sheet     *odsSheet
		inTable   bool
		tables    int
		cells     []string
		rowRepeat int
		emptyRun  int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("spreadsheet: parse content.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != nsTable {
				continue
			}
			switch t.Name.Local {
			case "table":
				tables++
				if tables == 1 {
					inTable = true
					sheet = &odsSheet{name: attr(t, nsTable, "name")}
				}
			case "table-row":
				if inTable {
					cells = cells[:0]
					emptyRun = 0
					rowRepeat = repeatAttr(t, "number-rows-repeated")
				}
			case "table-cell", "covered-table-cell":
				if !inTable {
					if err := dec.Skip(); err != nil {
						return nil, err
					}
					continue
				}
				value, err := readODSCell(dec, t)
				if err != nil {
					return nil, err
				}
				repeat := repeatAttr(t, "number-columns-repeated")
				if value == "" {
					emptyRun += repeat
					continue
				}
				for ; emptyRun > 0 && len(cells) < maxColumns; emptyRun-- {
					cells = append(cells, "")
				}
				emptyRun = 0
				for i := 0; i < repeat && len(cells) < maxColumns; i++ {
					cells = append(cells, value)
				}
			}
		case xml.EndElement:
			if t.Name.Space != nsTable || !inTable {
				continue
			}
			switch t.Name.Local {
			case "table-row":
				if err := sheet.addRow(cells, rowRepeat); err != nil {
					return nil, err
				}
			case "table":
				return newTable(sheet.name, sheet.rows), nil
			}
		}
	}

	if sheet == nil {
		return nil, ErrNoSheet
	}
	return newTable(sheet.name, sheet.rows), nil
}

// readODSCell consumes a cell element and returns its value. Typed numeric,
// date and boolean cells yield their machine value; everything else yields
// the displayed text.
func readODSCell(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var typed string
	switch attr(start, nsOffice, "value-type") {
	case "float", "percentage", "currency":
		typed = attr(start, nsOffice, "value")
	case "date":
		typed = attr(start, nsOffice, "date-value")
	case "time":
		typed = attr(start, nsOffice, "time-value")
	case "boolean":
		typed = attr(start, nsOffice, "boolean-value")
	}

	var (
		text       strings.Builder
		paragraphs int
		depth      = 1
	)
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("spreadsheet: parse cell: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == nsOffice && t.Name.Local == "annotation" {
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("spreadsheet: parse cell: %w", err)
				}
				continue
			}
			depth++
			if t.Name.Space != nsText {
				continue
			}
			switch t.Name.Local {
			case "p":
				if paragraphs > 0 {
					text.WriteByte('\n')
				}
				paragraphs++
			case "s":
				n := 1
				if c, err := strconv.Atoi(attr(t, nsText, "c")); err == nil && c > 0 {
					n = c
				}
				text.WriteString(strings.Repeat(" ", n))
			case "tab":
				text.WriteByte('\t')
			case "line-break":
				text.WriteByte('\n')
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth > 1 {
				text.Write(t)
			}
		}
	}

	if typed != "" {
		return typed, nil
	}
	return text.String(), nil
}

func attr(el xml.StartElement, space, local string) string {
	for _, a := range el.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func repeatAttr(el xml.StartElement, local string) int {
	n, err := strconv.Atoi(attr(el, nsTable, local))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxRows)
}
