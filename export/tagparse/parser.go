// Package tagparse reads the tagged text documents written by package export.
package tagparse

import (
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_OPEN = iota
	TOKEN_CLOSE
	TOKEN_WORD
	TOKEN_NEWLINE
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`<[a-zA-Z_][a-zA-Z0-9_]*>`), getToken(TOKEN_OPEN))
	lexer.Add([]byte(`</[a-zA-Z_][a-zA-Z0-9_]*>`), getToken(TOKEN_CLOSE))
	lexer.Add([]byte(`(\n|\r|\r\n)+`), getToken(TOKEN_NEWLINE))
	lexer.Add([]byte(`( |\t)+`), skip)
	lexer.Add([]byte(`[^ \t\r\n<]+`), getToken(TOKEN_WORD))
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type Line struct {
	Number int
	Fields []string
}

type Block struct {
	Tag   string
	Line  int
	Lines []Line
}

type Document struct {
	Blocks []*Block
}

// Find returns every block tagged tag in document order.
func (d *Document) Find(tag string) []*Block {
	blocks := make([]*Block, 0)
	for _, b := range d.Blocks {
		if b.Tag == tag {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// First returns the first block tagged tag or nil.
func (d *Document) First(tag string) *Block {
	for _, b := range d.Blocks {
		if b.Tag == tag {
			return b
		}
	}
	return nil
}

// Parse splits data into tagged blocks. Blocks do not nest and every value
// must be inside a block.
func Parse(data []byte) (*Document, error) {
	scanner, err := lexer.Scanner(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	doc := &Document{Blocks: make([]*Block, 0, 16)}
	var current *Block
	var line *Line

	endLine := func() {
		if line != nil {
			current.Lines = append(current.Lines, *line)
			line = nil
		}
	}

	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := Itok.(*lexmachine.Token)
		lexeme := string(tok.Lexeme)

		switch tok.Type {
		case TOKEN_OPEN:
			if current != nil {
				return nil, errors.Errorf("Nested tag %s inside <%s> on line %v", lexeme, current.Tag, tok.StartLine)
			}
			current = &Block{Tag: lexeme[1 : len(lexeme)-1], Line: tok.StartLine}
		case TOKEN_CLOSE:
			tag := lexeme[2 : len(lexeme)-1]
			if current == nil || current.Tag != tag {
				return nil, errors.Errorf("Unexpected %s on line %v", lexeme, tok.StartLine)
			}
			endLine()
			doc.Blocks = append(doc.Blocks, current)
			current = nil
		case TOKEN_WORD:
			if current == nil {
				return nil, errors.Errorf("Value %q outside of any tag on line %v", lexeme, tok.StartLine)
			}
			if line == nil {
				line = &Line{Number: tok.StartLine}
			}
			line.Fields = append(line.Fields, lexeme)
		case TOKEN_NEWLINE:
			if current != nil {
				endLine()
			}
		}
	}

	if current != nil {
		return nil, errors.Errorf("Tag <%s> opened on line %v is not closed", current.Tag, current.Line)
	}
	return doc, nil
}
