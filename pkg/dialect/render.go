package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/block/recon/pkg/expr"
)

type style struct {
	quote    string // opening identifier quote
	quoteEnd string // closing identifier quote
	pipes    bool   // concatenate with || instead of CONCAT(...)
}

var styles = map[Dialect]style{
	Snowflake:  {quote: `"`, quoteEnd: `"`},
	Databricks: {quote: "`", quoteEnd: "`"},
	Oracle:     {quote: `"`, quoteEnd: `"`, pipes: true},
	MySQL:      {quote: "`", quoteEnd: "`"},
	PostgreSQL: {quote: `"`, quoteEnd: `"`, pipes: true},
	TSQL:       {quote: "[", quoteEnd: "]"},
}

var bareIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var errNilNode = errors.New("cannot render a nil expression")

// Render implements Provider.
func (Standard) Render(n expr.Node, d Dialect) (string, error) {
	s, ok := styles[d]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, d)
	}
	var b strings.Builder
	if err := s.write(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// QuoteIdentifier returns name as written in dialect d. Simple names are left
// bare, anything else is quoted with the dialect's identifier quotes.
func QuoteIdentifier(name string, d Dialect) string {
	return styles[d].ident(name)
}

func (s style) ident(name string) string {
	if bareIdentifier.MatchString(name) {
		return name
	}
	if s.quote == "" {
		s = style{quote: `"`, quoteEnd: `"`}
	}
	escaped := strings.ReplaceAll(name, s.quoteEnd, s.quoteEnd+s.quoteEnd)
	return s.quote + escaped + s.quoteEnd
}

func (s style) write(b *strings.Builder, n expr.Node) error {
	switch v := n.(type) {
	case nil:
		return errNilNode
	case expr.Column:
		b.WriteString(s.ident(v.Name))
	case expr.Literal:
		if v.Kind == expr.NumberLiteral {
			b.WriteString(v.Value)
			return nil
		}
		b.WriteString("'" + strings.ReplaceAll(v.Value, "'", "''") + "'")
	case expr.Raw:
		b.WriteString(v.SQL)
	case expr.Func:
		b.WriteString(v.Name)
		b.WriteString("(")
		if err := s.writeList(b, v.Args, ", "); err != nil {
			return err
		}
		b.WriteString(")")
	case expr.Cast:
		b.WriteString("CAST(")
		if err := s.write(b, v.Expr); err != nil {
			return err
		}
		b.WriteString(" AS " + v.Type + ")")
	case expr.Collate:
		if err := s.writeOperand(b, v.Expr); err != nil {
			return err
		}
		b.WriteString(" COLLATE " + v.Collation)
	case expr.Concat:
		return s.writeConcat(b, v)
	case expr.Alias:
		if err := s.write(b, v.Expr); err != nil {
			return err
		}
		b.WriteString(" AS " + s.ident(v.Name))
	case expr.Select:
		b.WriteString("SELECT ")
		if err := s.writeList(b, v.Fields, ", "); err != nil {
			return err
		}
		b.WriteString(" FROM " + v.From)
		if where := strings.TrimSpace(v.Where); where != "" {
			b.WriteString(" WHERE " + where)
		}
	default:
		return fmt.Errorf("cannot render expression of type %T", n)
	}
	return nil
}

func (s style) writeList(b *strings.Builder, nodes []expr.Node, sep string) error {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(sep)
		}
		if err := s.write(b, n); err != nil {
			return err
		}
	}
	return nil
}

func (s style) writeConcat(b *strings.Builder, c expr.Concat) error {
	if len(c.Args) == 1 {
		return s.write(b, c.Args[0])
	}
	if !s.pipes {
		b.WriteString("CONCAT(")
		if err := s.writeList(b, c.Args, ", "); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	}
	for i, n := range c.Args {
		if i > 0 {
			b.WriteString(" || ")
		}
		if err := s.writeOperand(b, n); err != nil {
			return err
		}
	}
	return nil
}

// writeOperand writes n as the operand of an infix operator. User supplied
// fragments may contain operators of lower precedence, so they are
// parenthesized.
func (s style) writeOperand(b *strings.Builder, n expr.Node) error {
	if _, raw := n.(expr.Raw); !raw {
		return s.write(b, n)
	}
	b.WriteString("(")
	if err := s.write(b, n); err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}
