package document

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Loader loads report and transcript files and splits their text into
// overlapping chunks for LLM consumption.
type Loader struct {
	chunkSize    int
	chunkOverlap int
}

// NewLoader creates a loader with the given chunking parameters. Values of
// zero or less fall back to the defaults (1000/200).
func NewLoader(chunkSize, chunkOverlap int) *Loader {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 200
		if chunkOverlap >= chunkSize {
			chunkOverlap = chunkSize / 5
		}
	}
	return &Loader{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// LoadPDF extracts text from a PDF file row by row and splits it.
func (l *Loader) LoadPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var text strings.Builder
	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for _, word := range row.Content {
				text.WriteString(word.S)
			}
			text.WriteByte('\n')
		}
	}

	chunks := l.SplitText(text.String())
	log.Printf("Loaded PDF: %s (%d chunks)", path, len(chunks))
	return chunks, nil
}

// LoadText reads a plain text file and splits it.
func (l *Loader) LoadText(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file %s: %w", path, err)
	}

	chunks := l.SplitText(string(data))
	log.Printf("Loaded text: %s (%d chunks)", path, len(chunks))
	return chunks, nil
}

// LoadXLSX flattens all sheets of a spreadsheet into tab-separated rows and
// splits the result. Quarterly results are often published as spreadsheets.
func (l *Loader) LoadXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	var text strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			log.Printf("Failed to read sheet %s of %s: %v", sheet, path, err)
			continue
		}
		text.WriteString(sheet)
		text.WriteString("\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteByte('\n')
		}
		text.WriteString("\n")
	}

	chunks := l.SplitText(text.String())
	log.Printf("Loaded spreadsheet: %s (%d chunks)", path, len(chunks))
	return chunks, nil
}

// LoadDirectory loads every file with the given extension from a directory.
// Files that fail to load are skipped with a warning so one corrupt report
// does not discard the rest.
func (l *Loader) LoadDirectory(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s: %w", dir, err)
	}

	var allChunks []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		chunks, err := l.LoadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		allChunks = append(allChunks, chunks...)
	}

	log.Printf("Loaded %d total chunks from %s", len(allChunks), dir)
	return allChunks, nil
}

// LoadFile dispatches to the loader matching the file extension.
func (l *Loader) LoadFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.LoadPDF(path)
	case ".xlsx":
		return l.LoadXLSX(path)
	default:
		return l.LoadText(path)
	}
}
