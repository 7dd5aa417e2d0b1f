package parser

import (
	"fmt"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// grammarPool is a fixed-capacity pool of parsers sharing one grammar.
// Idle parsers sit in a buffered channel; new ones are created on demand
// until capacity, after which acquire blocks on a release.
type grammarPool struct {
	idle     chan *ts.Parser
	grammar  unsafe.Pointer
	capacity int

	mu      sync.Mutex
	created int
}

func newGrammarPool(grammar unsafe.Pointer, capacity int) *grammarPool {
	return &grammarPool{
		idle:     make(chan *ts.Parser, capacity),
		grammar:  grammar,
		capacity: capacity,
	}
}

func (p *grammarPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.capacity {
		parser := ts.NewParser()
		if parser == nil {
			p.mu.Unlock()
			return nil, fmt.Errorf("create parser")
		}
		if err := parser.SetLanguage(ts.NewLanguage(p.grammar)); err != nil {
			parser.Close()
			p.mu.Unlock()
			return nil, fmt.Errorf("set grammar: %w", err)
		}
		p.created++
		p.mu.Unlock()
		return parser, nil
	}
	p.mu.Unlock()

	// Every parser is in use; wait for one to come back.
	return <-p.idle, nil
}

func (p *grammarPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
	}
}

func (p *grammarPool) close() {
	close(p.idle)
	for parser := range p.idle {
		parser.Close()
	}
}
