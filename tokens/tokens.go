// Package tokens counts BPE tokens so document conversions can report
// how much context-window budget they save.
package tokens

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Supported tokenizer encodings.
const (
	EncodingCL100K = "cl100k_base"
	EncodingO200K  = "o200k_base"

	DefaultEncoding = EncodingO200K
)

// Counter counts tokens under one fixed encoding. It is safe for
// concurrent use.
type Counter struct {
	name string

	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewCounter returns a counter for the named encoding. The tokenizer
// tables load lazily on first count, so construction never touches the
// network.
func NewCounter(encoding string) (*Counter, error) {
	switch encoding {
	case EncodingCL100K, EncodingO200K:
		return &Counter{name: encoding}, nil
	case "":
		return &Counter{name: DefaultEncoding}, nil
	default:
		return nil, fmt.Errorf("tokens: unsupported encoding %q", encoding)
	}
}

// Encoding returns the encoding name.
func (c *Counter) Encoding() string {
	return c.name
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) (int, error) {
	enc, err := c.encoder()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

func (c *Counter) encoder() (*tiktoken.Tiktoken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc != nil {
		return c.enc, nil
	}
	enc, err := tiktoken.GetEncoding(c.name)
	if err != nil {
		return nil, fmt.Errorf("tokens: load encoding %s: %w", c.name, err)
	}
	c.enc = enc
	return enc, nil
}

// Comparison reports token counts for a document before and after
// conversion.
type Comparison struct {
	Encoding string
	Source   int
	Output   int
}

// Compare counts both texts under the counter's encoding.
func (c *Counter) Compare(source, output string) (Comparison, error) {
	src, err := c.Count(source)
	if err != nil {
		return Comparison{}, err
	}
	out, err := c.Count(output)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Encoding: c.name, Source: src, Output: out}, nil
}

// Savings returns the fractional token reduction, negative when the
// output costs more than the source.
func (cmp Comparison) Savings() float64 {
	if cmp.Source == 0 {
		return 0
	}
	return 1 - float64(cmp.Output)/float64(cmp.Source)
}

// String formats the comparison for terminal output.
func (cmp Comparison) String() string {
	return fmt.Sprintf("%s: %d -> %d tokens (%.1f%% saved)",
		cmp.Encoding, cmp.Source, cmp.Output, cmp.Savings()*100)
}
