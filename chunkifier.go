package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveChunkifier splits text on the coarsest separator that occurs in it
// and recurses with finer separators into pieces that are still too long.
// Small pieces are merged back into chunks of at most chunkSize characters,
// consecutive chunks sharing up to chunkOverlap characters. Separators stay
// at the start of the piece that follows them and chunks are trimmed.
type RecursiveChunkifier struct {
	splitter textsplitter.RecursiveCharacter
}

func NewRecursiveChunkifier(chunkSize, chunkOverlap int) *RecursiveChunkifier {
	return &RecursiveChunkifier{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(defaultSeparators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
			textsplitter.WithKeepSeparator(true),
		),
	}
}

func (c *RecursiveChunkifier) Chunkify(text string) ([]string, error) {
	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	return chunks, nil
}
