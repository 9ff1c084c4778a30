// Package prettyprinter renders an AST back to source code.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/iclc/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Binding strength, loosest first. Constructs that read as statements
// (if, while, fn) rank with assignment so they are parenthesized as operands.
const (
	precLowest = iota
	precAssign
	precOr
	precAnd
	precCompare
	precSum
	precProduct
	precPrefix
	precPostfix
	precAtom
)

var operatorPrecedence = map[ast.Operator]int{
	ast.OpOr:  precOr,
	ast.OpAnd: precAnd,
	ast.OpEq:  precCompare,
	ast.OpNe:  precCompare,
	ast.OpLt:  precCompare,
	ast.OpLte: precCompare,
	ast.OpGt:  precCompare,
	ast.OpGte: precCompare,
	ast.OpAdd: precSum,
	ast.OpSub: precSum,
	ast.OpMul: precProduct,
	ast.OpDiv: precProduct,
}

func precedence(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.Assign, *ast.IfExpression, *ast.WhileExpression, *ast.FunctionLiteral:
		return precAssign
	case *ast.InfixExpression:
		return operatorPrecedence[e.Operator]
	case *ast.PrefixExpression, *ast.NewExpression:
		return precPrefix
	case *ast.CallExpression, *ast.FieldAccess:
		return precPostfix
	}
	return precAtom
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders program.
func Print(program *ast.Program) string {
	p := NewCodePrinter()
	p.PrintProgram(program)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// PrintProgram writes one statement per line. The result expression, if
// any, goes last without a terminating semicolon.
func (p *CodePrinter) PrintProgram(n *ast.Program) {
	for _, stmt := range n.Body.Statements {
		p.printStatement(stmt)
		p.write(";\n")
	}
	if !isEmpty(n.Body.Result) {
		p.printExpr(n.Body.Result, precLowest, false)
		p.write("\n")
	}
}

func isEmpty(expr ast.Expression) bool {
	_, ok := expr.(*ast.Empty)
	return ok || expr == nil
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Declaration:
		p.write("let ")
		if s.Mutable {
			p.write("mut ")
		}
		p.write(s.Name.Value)
		if s.Annotation != nil {
			p.write(": ")
			p.printType(s.Annotation)
		}
		p.write(" = ")
		p.printExpr(s.Value, precLowest, false)
	case *ast.TypeDeclaration:
		p.write("type ")
		p.write(s.Name.Value)
		p.write(" = ")
		p.printType(s.Type)
	case *ast.ExpressionStatement:
		p.printExpr(s.Expression, precLowest, false)
	default:
		p.write("<???>")
	}
}

// printExpr prints an expression, adding parentheses only if needed.
// Binary operators associate to the left, so an operand on the right with
// the parent's precedence is parenthesized.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	prec := precedence(expr)
	needParens := prec < parentPrec || (isRight && prec == parentPrec && prec != precAssign)
	if needParens {
		p.write("(")
		defer p.write(")")
	}

	switch e := expr.(type) {
	case nil:
		p.write("<???>")
	case *ast.Empty:
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.NumberLiteral:
		p.write(formatNumber(e))
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.StringLiteral:
		p.write(quote(e.Value))
	case *ast.Assign:
		p.write(e.Name.Value)
		p.write(" := ")
		p.printExpr(e.Value, precAssign, false)
	case *ast.InfixExpression:
		p.printExpr(e.Left, prec, false)
		p.write(" " + string(e.Operator) + " ")
		p.printExpr(e.Right, prec, true)
	case *ast.PrefixExpression:
		p.write(e.Operator.Symbol())
		p.printExpr(e.Right, precPrefix, false)
	case *ast.NewExpression:
		p.write("new ")
		p.printExpr(e.Value, precPrefix, false)
	case *ast.Scope:
		p.printScope(e)
	case *ast.IfExpression:
		for i, branch := range e.Branches {
			if i > 0 {
				p.write(" else ")
			}
			p.write("if ")
			p.printExpr(branch.Condition, precLowest, false)
			p.write(" ")
			p.printScope(branch.Body)
		}
		if e.Else != nil {
			p.write(" else ")
			p.printScope(e.Else)
		}
	case *ast.WhileExpression:
		p.write("while ")
		p.printExpr(e.Condition, precLowest, false)
		p.write(" ")
		p.printScope(e.Body)
	case *ast.FunctionLiteral:
		p.write("fn(")
		for i, param := range e.Parameters {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name.Value)
			p.write(": ")
			p.printType(param.Type)
		}
		p.write(") ")
		if e.ReturnType != nil {
			p.write("-> ")
			p.printType(e.ReturnType)
			p.write(" ")
		}
		p.printScope(e.Body)
	case *ast.CallExpression:
		p.printExpr(e.Function, precPostfix, false)
		p.printArguments(e.Arguments)
	case *ast.BuiltinCall:
		p.write(e.Name)
		p.printArguments(e.Arguments)
	case *ast.PrintExpression:
		if e.Newline {
			p.write("println")
		} else {
			p.write("print")
		}
		p.write("(")
		p.printExpr(e.Value, precLowest, false)
		p.write(")")
	case *ast.RecordLiteral:
		p.write("{")
		for i, f := range e.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name.Value)
			p.write(": ")
			p.printExpr(f.Value, precLowest, false)
		}
		p.write("}")
	case *ast.FieldAccess:
		p.printExpr(e.Record, precPostfix, false)
		p.write(".")
		p.write(e.Field.Value)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printArguments(args []ast.Expression) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, precLowest, false)
	}
	p.write(")")
}

// printScope keeps a scope holding a single simple result on one line.
func (p *CodePrinter) printScope(s *ast.Scope) {
	if len(s.Statements) == 0 {
		if isEmpty(s.Result) {
			p.write("{}")
			return
		}
		if precedence(s.Result) > precAssign {
			if _, nested := s.Result.(*ast.Scope); !nested {
				p.write("{ ")
				p.printExpr(s.Result, precLowest, false)
				p.write(" }")
				return
			}
		}
	}

	p.write("{\n")
	p.indent++
	for _, stmt := range s.Statements {
		p.writeIndent()
		p.printStatement(stmt)
		p.write(";\n")
	}
	if !isEmpty(s.Result) {
		p.writeIndent()
		p.printExpr(s.Result, precLowest, false)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printType(t ast.TypeExpr) {
	switch t := t.(type) {
	case *ast.NamedType:
		p.write(t.Name)
	case *ast.RefType:
		p.write("ref ")
		p.printType(t.Target)
	case *ast.FunctionType:
		p.write("fn(")
		for i, param := range t.Parameters {
			if i > 0 {
				p.write(", ")
			}
			p.printType(param)
		}
		p.write(") -> ")
		p.printType(t.ReturnType)
	case *ast.RecordType:
		p.write("{")
		for i, f := range t.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name.Value)
			p.write(": ")
			p.printType(f.Type)
		}
		p.write("}")
	default:
		p.write("<???>")
	}
}

func formatNumber(n *ast.NumberLiteral) string {
	if n.Token.Lexeme != "" {
		return n.Token.Lexeme
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}
