package interp

import "github.com/msto63/kthxbye/internal/lolcode/token"

// cursor walks a token slice forward. Past the end it yields an EOF token
// on the last source line.
type cursor struct {
	tokens []token.Token
	pos    int
	eof    token.Token
	prev   token.Token
}

func newCursor(tokens []token.Token) *cursor {
	line := 1
	if n := len(tokens); n > 0 {
		line = tokens[n-1].Line()
	}
	return &cursor{tokens: tokens, eof: token.New(token.EOF, "", line)}
}

func (c *cursor) current() token.Token {
	return c.at(c.pos)
}

func (c *cursor) lookahead() token.Token {
	return c.at(c.pos + 1)
}

// previous returns the last consumed token
func (c *cursor) previous() token.Token {
	return c.prev
}

func (c *cursor) at(i int) token.Token {
	if i < len(c.tokens) {
		return c.tokens[i]
	}
	return c.eof
}

func (c *cursor) advance() {
	c.prev = c.current()
	if c.pos < len(c.tokens) {
		c.pos++
	}
}
