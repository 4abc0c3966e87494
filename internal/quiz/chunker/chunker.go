package chunker

import (
	"strings"

	"github.com/nchandra/eduquest/internal/adapter/utils"
	"github.com/nchandra/eduquest/internal/domain/commonModels"
	"github.com/nchandra/eduquest/internal/domain/quizModel"
)

// Chunk splits document text into ordered retrieval units. Pure transform:
// identical input and limits always give identical spans.
func Chunk(doc commonModels.Document, text string, targetSize int, overlap int) ([]commonModels.DocChunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, quizModel.ErrEmptyDocument
	}

	spans := Split(text, targetSize, overlap)

	chunks := make([]commonModels.DocChunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, commonModels.DocChunk{
			Doc:      doc,
			ChunkId:  utils.GetNewUUID(),
			Chunk:    span,
			PageNum:  1,
			Position: i,
		})
	}
	return chunks, nil
}

// Split cuts text into pieces of at most limit characters, preferring
// paragraph, newline, sentence and word boundaries in that order. A single
// unit longer than limit gets hard character cuts. Adjacent pieces share
// overlap characters so a later query does not lose context at the seam.
func Split(text string, limit int, overlap int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " "}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		return hardCut(text, limit, overlap)
	}

	var chunks []string
	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	// Split consumed one separator between every pair of parts; each must
	// reappear in some chunk or concatenation cannot reconstruct the text.
	owedSep := false

	for _, part := range parts {
		// A single unit can still be oversized (one giant paragraph).
		if len(part) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
				currentChunk.Reset()
			}
			pieces := hardCut(part, limit, overlap)
			if owedSep {
				pieces[0] = splitChar + pieces[0]
			}
			chunks = append(chunks, pieces...)
			owedSep = true
			continue
		}

		// If adding the part exceeds the limit
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// Handle overlap: start the next chunk with the end of the previous one
			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 || owedSep {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
		owedSep = true
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

func hardCut(text string, limit int, overlap int) []string {
	if overlap >= limit {
		overlap = limit / 2
	}
	var chunks []string
	step := limit - overlap
	for start := 0; start < len(text); start += step {
		end := start + limit
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

// CleanText collapses runs of whitespace and strips bullet glyphs left over
// from PDF extraction.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "•", "")
	return strings.Join(strings.Fields(text), " ")
}
