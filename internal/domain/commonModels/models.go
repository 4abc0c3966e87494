package commonModels

import "time"

type Document struct {
	Id          string    `json:"source_doc_id"`
	Name        string    `json:"doc_name"`
	PageCount   int       `json:"page_count"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ContentType DocType   `json:"contentType"`
}

// DocChunk is one retrieval unit of a document. Position is the 0-based order
// of the chunk within the document; ties in retrieval scoring are broken by it.
type DocChunk struct {
	Doc      Document
	ChunkId  string `json:"chunk_id"`
	Chunk    string `json:"content"`
	PageNum  int    `json:"page_num"`
	Position int    `json:"chunk_order"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var RAW DocType = "RAW" //text posted directly, no source file
var ERR DocType = "ERROR"
