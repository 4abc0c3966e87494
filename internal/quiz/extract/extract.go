package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
	"github.com/nchandra/eduquest/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Extraction")

// Extraction is the text pulled out of an uploaded file, before chunking.
type Extraction struct {
	Text        string
	PageCount   int
	ContentType commonModels.DocType
}

type rawPage struct {
	Number  int
	Content string
}

// File extracts plain text from a PDF, DOCX, TXT or RTF file on disk.
// Returns quizModel.ErrEmptyDocument when nothing usable comes out.
func File(path string) (Extraction, error) {
	docType := DocTypeOf(path)
	if docType == commonModels.ERR {
		return Extraction{}, fmt.Errorf("%w: %s", quizModel.ErrUnsupportedDocument, filepath.Ext(path))
	}

	var pages []rawPage
	var err error
	switch docType {
	case commonModels.PDF:
		pages, err = extractPDF(path)
	default:
		pages, err = extractdocxTxtRtf(path)
	}
	if err != nil {
		return Extraction{}, err
	}

	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page.Content)
		sb.WriteString("\n")
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return Extraction{}, quizModel.ErrEmptyDocument
	}

	return Extraction{
		Text:        text,
		PageCount:   len(pages),
		ContentType: docType,
	}, nil
}

func DocTypeOf(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}
