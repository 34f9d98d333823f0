// Package parser implements vm-calc's recursive-descent, precedence
// climbing expression grammar. It produces a spanned ast.Node per
// top-level statement and simultaneously maintains the compile-time Table
// used to disambiguate by-name function calls (full vs. partial
// application) and to validate delete targets.
package parser

import (
	"vm-calc/ast"
	"vm-calc/builtins"
	"vm-calc/lexer"
	"vm-calc/token"
)

// Parser turns a token stream into top-level AST nodes. ReplMode relaxes
// the statement-terminator rule: an expression with no trailing ";"/":" is
// wrapped in an implicit Output instead of being an error.
type Parser struct {
	lex      *lexer.Lexer
	cur      token.Token
	peek     token.Token
	table    *Table
	ReplMode bool
}

// New creates a Parser over src. table may be nil, in which case a fresh
// one is created; pass the same *Table across successive REPL lines to
// preserve declared variables/functions between them.
func New(src string, table *Table) *Parser {
	if table == nil {
		table = NewTable()
	}
	p := &Parser{lex: lexer.New(src), table: table}
	p.advance()
	p.advance()
	return p
}

// Table returns the parser's compile-time symbol table.
func (p *Parser) Table() *Table { return p.table }

func (p *Parser) advance() {
	p.cur = p.peek
	tok, err := p.lex.Next()
	if err == lexer.ErrEOF {
		p.peek = token.Token{Type: token.EOF}
		return
	}
	if err != nil {
		// Surface the lex error as an ILLEGAL token whose lexeme carries
		// the error text; callers that hit ILLEGAL report it directly.
		p.peek = token.Token{Type: token.ILLEGAL, Lexeme: err.Error(), Span: lexErrSpan(err)}
		return
	}
	p.peek = tok
}

func lexErrSpan(err error) token.Span {
	if le, ok := err.(*lexer.Error); ok {
		return le.Span
	}
	return token.Span{}
}

// ParseProgram parses every top-level statement until end of input. It
// stops at the first error: outside the REPL, a parse error aborts
// compilation of the current submission entirely; inside the REPL, the
// caller simply discards the (partial) result and the session continues
// on the next line, so returning eagerly here is sufficient for both
// cases.
func (p *Parser) ParseProgram() ([]ast.Node, error) {
	var nodes []ast.Node
	for p.cur.Type != token.EOF {
		if p.cur.Type == token.ILLEGAL {
			return nodes, errInvalidStatement(p.cur.Span, p.cur.Lexeme)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, stmt)
	}
	if len(nodes) == 0 {
		return nil, &Error{Kind: NoResult, Span: token.Span{}, Msg: "empty input"}
	}
	return nodes, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case token.SEMICOLON:
		p.advance()
		return expr, nil
	case token.COLON:
		sp := token.Join(expr.Span(), p.cur.Span)
		p.advance()
		return ast.NewOutput(sp, expr), nil
	case token.EOF:
		if p.ReplMode {
			return ast.NewOutput(expr.Span(), expr), nil
		}
		return nil, errUnexpectedEOF(expr.Span(), "statement terminator")
	default:
		if p.ReplMode {
			return ast.NewOutput(expr.Span(), expr), nil
		}
		return nil, errInvalidStatement(p.cur.Span, "expected ';' or ':' to terminate a statement")
	}
}

// --- precedence climbing -------------------------------------------------

func (p *Parser) parseExpression() (ast.Node, error) { return p.parseBitOr() }

func (p *Parser) parseBitOr() (ast.Node, error) {
	return p.leftAssoc(p.parseBitXor, token.PIPE)
}

func (p *Parser) parseBitXor() (ast.Node, error) {
	return p.leftAssoc(p.parseBitAnd, token.CARET)
}

func (p *Parser) parseBitAnd() (ast.Node, error) {
	return p.leftAssoc(p.parseBitShift, token.AMP)
}

func (p *Parser) parseBitShift() (ast.Node, error) {
	return p.leftAssoc(p.parseTerm, token.SHL, token.SHR)
}

func (p *Parser) parseTerm() (ast.Node, error) {
	return p.leftAssoc(p.parseFactor, token.PLUS, token.MINUS)
}

func (p *Parser) parseFactor() (ast.Node, error) {
	return p.leftAssoc(p.parseExponent, token.STAR, token.SLASH, token.PERCENT)
}

func (p *Parser) parseExponent() (ast.Node, error) {
	return p.leftAssoc(p.parseUnary, token.STARSTAR)
}

// leftAssoc implements one left-associative precedence layer: parse a
// sub-expression via next, then while the current token is one of ops,
// consume it and fold in another sub-expression.
func (p *Parser) leftAssoc(next func() (ast.Node, error), ops ...token.Type) (ast.Node, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for p.matches(ops...) {
		opTok := p.cur
		p.advance()
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(token.Join(lhs.Span(), rhs.Span()), lhs, rhs, ast.OperatorFor(opTok.Type))
	}
	return lhs, nil
}

func (p *Parser) matches(ops ...token.Type) bool {
	for _, op := range ops {
		if p.cur.Type == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		opTok := p.cur
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(token.Join(opTok.Span, rhs.Span()), rhs, ast.OperatorFor(opTok.Type)), nil
	}
	return p.parseIndexLevel()
}

func (p *Parser) parseIndexLevel() (ast.Node, error) {
	node, err := p.parseCallLevel()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.LBRACKET {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RBRACKET {
			return nil, errExpected(p.cur.Span, "]", p.cur)
		}
		sp := token.Join(node.Span(), p.cur.Span)
		p.advance()
		node = ast.NewIndex(sp, node, idx)
	}
	return node, nil
}

func (p *Parser) parseCallLevel() (ast.Node, error) {
	node, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.LPAREN {
		args, closeSp, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		node = ast.NewFunctionCall(token.Join(node.Span(), closeSp), node, args)
	}
	return node, nil
}

// parseArgList consumes "(" [expr {"," expr}] ")"; the leading "(" must be
// the current token on entry.
func (p *Parser) parseArgList() ([]ast.Node, token.Span, error) {
	p.advance() // consume '('
	var args []ast.Node
	if p.cur.Type != token.RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, token.Span{}, err
			}
			args = append(args, arg)
			if p.cur.Type == token.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	if p.cur.Type != token.RPAREN {
		return nil, token.Span{}, errExpected(p.cur.Span, ")", p.cur)
	}
	closeSp := p.cur.Span
	p.advance()
	return args, closeSp, nil
}

func (p *Parser) parseBase() (ast.Node, error) {
	switch p.cur.Type {
	case token.NUMBER:
		tok := p.cur
		p.advance()
		return ast.NewNumber(tok.Span, tok.Literal.(float64)), nil
	case token.STRING:
		tok := p.cur
		p.advance()
		return ast.NewString(tok.Span, tok.Literal.(string)), nil
	case token.NULL:
		tok := p.cur
		p.advance()
		return ast.NewNull(tok.Span), nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RPAREN {
			return nil, errExpected(p.cur.Span, ")", p.cur)
		}
		p.advance()
		return inner, nil
	case token.LET:
		return p.parseLet()
	case token.DELETE:
		return p.parseDelete()
	case token.TYPEOF:
		sp := p.cur.Span
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewTypeOf(token.Join(sp, inner.Span()), inner), nil
	case token.IDENTIFIER:
		return p.parseIdentifier()
	case token.EOF:
		return nil, errUnexpectedEOF(p.cur.Span, "expression")
	}
	return nil, errExpected(p.cur.Span, "an expression", p.cur)
}

func (p *Parser) parseArrayLiteral() (ast.Node, error) {
	openSp := p.cur.Span
	p.advance() // consume '['
	var elems []ast.Node
	if p.cur.Type != token.RBRACKET {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur.Type == token.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	if p.cur.Type != token.RBRACKET {
		return nil, errExpected(p.cur.Span, "]", p.cur)
	}
	sp := token.Join(openSp, p.cur.Span)
	p.advance()
	return ast.NewArray(sp, elems), nil
}

func (p *Parser) parseLet() (ast.Node, error) {
	sp := p.cur.Span
	p.advance() // consume 'let'
	if p.cur.Type != token.IDENTIFIER {
		return nil, errExpected(p.cur.Span, "an identifier", p.cur)
	}
	name := p.cur.Lexeme
	if builtins.IsReserved(name) {
		return nil, errBuiltinOverwrite(p.cur.Span, name)
	}
	p.advance()

	if p.cur.Type == token.IDENTIFIER {
		var args []string
		for p.cur.Type == token.IDENTIFIER {
			args = append(args, p.cur.Lexeme)
			p.advance()
		}
		if len(args) == 1 && args[0] == "_" {
			args = nil
		}
		if p.cur.Type != token.ASSIGN {
			return nil, errExpected(p.cur.Span, "=", p.cur)
		}
		p.advance()

		snapshot := p.table.Snapshot()
		for _, a := range args {
			if a != "_" {
				p.table.DeclareVariable(a)
			}
		}
		body, err := p.parseExpression()
		p.table.Restore(snapshot)
		if err != nil {
			return nil, err
		}
		p.table.DeclareFunction(name, len(args))
		return ast.NewFunctionDecl(token.Join(sp, body.Span()), name, args, body), nil
	}

	if p.cur.Type == token.ASSIGN {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.table.DeclareVariable(name)
		return ast.NewDeclareAssign(token.Join(sp, value.Span()), name, value), nil
	}

	p.table.DeclareVariable(name)
	return ast.NewDeclare(sp, name), nil
}

func (p *Parser) parseDelete() (ast.Node, error) {
	sp := p.cur.Span
	p.advance() // consume 'delete'
	if p.cur.Type != token.IDENTIFIER {
		return nil, errExpected(p.cur.Span, "an identifier", p.cur)
	}
	name := p.cur.Lexeme
	nameSp := p.cur.Span
	p.advance()
	if builtins.IsReserved(name) {
		return nil, errBuiltinOverwrite(nameSp, name)
	}
	if !p.table.Remove(name) {
		return nil, errUnknownSymbolToDelete(nameSp, name)
	}
	return ast.NewDelete(token.Join(sp, nameSp), name), nil
}

func (p *Parser) parseIdentifier() (ast.Node, error) {
	nameTok := p.cur
	name := nameTok.Lexeme
	p.advance()

	switch p.cur.Type {
	case token.ASSIGN:
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(token.Join(nameTok.Span, value.Span()), name, value), nil

	case token.LBRACKET:
		return p.parseIndexOrAssignIndex(nameTok)

	case token.LPAREN:
		return p.parseNamedCall(nameTok)
	}

	if op, ok := ast.OperatorForCompoundAssign(p.cur.Type); ok {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignOp(token.Join(nameTok.Span, value.Span()), name, op, value), nil
	}

	return ast.NewIdentifier(nameTok.Span, name), nil
}

// parseIndexOrAssignIndex handles "NAME ( '[' expr ']' )+" which is either
// a chained read (ordinary Index nodes) or, if an assignment operator
// follows the bracket chain, an AssignIndex.
func (p *Parser) parseIndexOrAssignIndex(nameTok token.Token) (ast.Node, error) {
	name := nameTok.Lexeme
	var indices []ast.Node
	var node ast.Node = ast.NewIdentifier(nameTok.Span, name)

	for p.cur.Type == token.LBRACKET {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RBRACKET {
			return nil, errExpected(p.cur.Span, "]", p.cur)
		}
		closeSp := p.cur.Span
		p.advance()
		indices = append(indices, idx)
		node = ast.NewIndex(token.Join(node.Span(), closeSp), node, idx)
	}

	if p.cur.Type == token.ASSIGN {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignIndex(token.Join(nameTok.Span, value.Span()), name, indices, ast.AssignEq, value), nil
	}
	if op, ok := ast.OperatorForCompoundAssign(p.cur.Type); ok {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignIndex(token.Join(nameTok.Span, value.Span()), name, indices, op, value), nil
	}
	return node, nil
}

// parseNamedCall parses "NAME(args)" and applies the arity disambiguation
// rules: builtins must match arity exactly, declared user functions with
// too few args become PartialCall, too many is an ArityMismatch, and
// unknown names defer resolution to runtime (they might be a variable
// holding a Function value).
func (p *Parser) parseNamedCall(nameTok token.Token) (ast.Node, error) {
	name := nameTok.Lexeme
	args, closeSp, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	sp := token.Join(nameTok.Span, closeSp)
	argc := len(args)

	if name == "print" {
		return ast.NewPrint(sp, args), nil
	}
	if b, ok := builtins.Lookup(name); ok {
		if argc != b.Arity {
			return nil, errArityMismatch(nameTok.Span, name, b.Arity, argc)
		}
		return ast.NewFunctionCall(sp, ast.NewName(nameTok.Span, name), args), nil
	}
	if arity, ok := p.table.LookupFunction(name); ok {
		if argc < arity {
			return ast.NewPartialCall(sp, name, args), nil
		}
		if argc > arity {
			return nil, errArityMismatch(nameTok.Span, name, arity, argc)
		}
		return ast.NewFunctionCall(sp, ast.NewName(nameTok.Span, name), args), nil
	}
	return ast.NewFunctionCall(sp, ast.NewName(nameTok.Span, name), args), nil
}
