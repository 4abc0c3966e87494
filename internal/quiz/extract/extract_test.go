package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
)

func writeTempFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestDocTypeOf(t *testing.T) {
	cases := []struct {
		path string
		want commonModels.DocType
	}{
		{"notes.pdf", commonModels.PDF},
		{"Notes.PDF", commonModels.PDF},
		{"essay.docx", commonModels.DOCX},
		{"plain.txt", commonModels.DOCX},
		{"doc.rtf", commonModels.DOCX},
		{"image.png", commonModels.ERR},
		{"no_extension", commonModels.ERR},
	}
	for _, c := range cases {
		if got := DocTypeOf(c.path); got != c.want {
			t.Errorf("DocTypeOf(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestFileExtractsPlainText(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "Photosynthesis converts light into chemical energy.")

	extraction, err := File(path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if extraction.PageCount != 1 {
		t.Errorf("expected 1 page, got %d", extraction.PageCount)
	}
	if extraction.ContentType != commonModels.DOCX {
		t.Errorf("unexpected content type %v", extraction.ContentType)
	}
	if want := "Photosynthesis"; len(extraction.Text) == 0 || !strings.Contains(extraction.Text, want) {
		t.Errorf("extracted text missing %q: %q", want, extraction.Text)
	}
}

func TestFileEmptyDocument(t *testing.T) {
	path := writeTempFile(t, "blank.txt", "   \n\t\n  ")

	_, err := File(path)
	if !errors.Is(err, quizModel.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestFileUnsupportedType(t *testing.T) {
	path := writeTempFile(t, "image.png", "not a document")

	_, err := File(path)
	if !errors.Is(err, quizModel.ErrUnsupportedDocument) {
		t.Fatalf("expected ErrUnsupportedDocument, got %v", err)
	}
}

func TestFileCorruptPDFIsNotACallerError(t *testing.T) {
	path := writeTempFile(t, "broken.pdf", "this is not a pdf payload")

	_, err := File(path)
	if err == nil {
		t.Fatal("expected an error for a corrupt pdf")
	}
	// A corrupt but supported file is an extraction failure, distinct from
	// the sentinels the handler maps to 400.
	if errors.Is(err, quizModel.ErrEmptyDocument) || errors.Is(err, quizModel.ErrUnsupportedDocument) {
		t.Fatalf("corrupt pdf misclassified as a caller error: %v", err)
	}
}
