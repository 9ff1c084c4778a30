package codegen

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

// FrameID indexes Context's frame arena.
type FrameID int

// NoFrame is the parent of the root frame.
const NoFrame FrameID = -1

type FrameField struct {
	SourceName string
	Type       typesystem.Type
	FieldName  string
	Descriptor string
}

// Frame describes the runtime object of one lexical scope.
type Frame struct {
	ID        FrameID
	Name      string
	Parent    FrameID
	Fields    []FrameField
	finalized bool
}

// Field returns the field bound to a source name.
func (f *Frame) Field(source string) (FrameField, bool) {
	for _, field := range f.Fields {
		if field.SourceName == source {
			return field, true
		}
	}
	return FrameField{}, false
}

// NewFrame allocates an empty frame nested in parent.
func (c *Context) NewFrame(parent FrameID) *Frame {
	f := &Frame{ID: FrameID(len(c.frames)), Name: c.Generate(NsFrame), Parent: parent}
	c.frames = append(c.frames, f)
	return f
}

func (c *Context) Frame(id FrameID) *Frame {
	if id < 0 || int(id) >= len(c.frames) {
		invariantf("no frame %d", id)
	}
	return c.frames[id]
}

// AddField appends a binding to a frame that is still open.
func (c *Context) AddField(id FrameID, source string, t typesystem.Type) FrameField {
	f := c.Frame(id)
	if f.finalized {
		invariantf("frame %s is finalized", f.Name)
	}
	if _, dup := f.Field(source); dup {
		invariantf("%s declared twice in frame %s", source, f.Name)
	}
	field := FrameField{SourceName: source, Type: t, FieldName: c.Generate(NsVar), Descriptor: c.Descriptor(t)}
	f.Fields = append(f.Fields, field)
	return field
}

// Finalize closes a frame. Frames are assembled in finalize order.
func (c *Context) Finalize(id FrameID) {
	f := c.Frame(id)
	if f.finalized {
		invariantf("frame %s finalized twice", f.Name)
	}
	f.finalized = true
	c.finalized = append(c.finalized, id)
}

// Frames returns the finalized frames in the order they were closed.
func (c *Context) Frames() []*Frame {
	out := make([]*Frame, len(c.finalized))
	for i, id := range c.finalized {
		out[i] = c.frames[id]
	}
	return out
}

// ParentDescriptor is the descriptor of f's parent field.
func (c *Context) ParentDescriptor(f *Frame) string {
	if f.Parent == NoFrame {
		return bytecode.ObjectDescriptor(config.ObjectClass)
	}
	return bytecode.ObjectDescriptor(c.Frame(f.Parent).Name)
}

// Lookup is a resolved variable: the frame that owns it, its field, and
// how many parent links separate it from the frame active at the use.
type Lookup struct {
	Frame FrameID
	Field FrameField
	Depth int
}

// Environment is the output of BuildEnvironment.
type Environment struct {
	Root FrameID

	// Frames maps every *ast.Scope to its frame and every
	// *ast.FunctionLiteral to the frame holding its arguments.
	Frames map[ast.Node]FrameID

	// Lookups maps every *ast.Identifier read, *ast.Assign and
	// *ast.Declaration to the binding it touches.
	Lookups map[ast.Node]Lookup
}

// FrameOf returns the frame built for a scope or function literal.
func (env *Environment) FrameOf(node ast.Node) FrameID {
	id, ok := env.Frames[node]
	if !ok {
		contractf(node, "no frame for %T", node)
	}
	return id
}

// LookupOf returns the resolved binding of a variable use.
func (env *Environment) LookupOf(node ast.Node) Lookup {
	l, ok := env.Lookups[node]
	if !ok {
		contractf(node, "unresolved variable")
	}
	return l
}

// BuildEnvironment creates the frame of every scope and function literal in
// program and resolves every variable use.
func BuildEnvironment(ctx *Context, program *ast.Program, types map[ast.Node]typesystem.Type) (env *Environment, err error) {
	defer catch(&err)
	return buildEnvironment(ctx, program, types), nil
}

func buildEnvironment(ctx *Context, program *ast.Program, types map[ast.Node]typesystem.Type) *Environment {
	b := &envBuilder{
		ctx:     ctx,
		types:   types,
		visible: make(map[FrameID]int),
		env: &Environment{
			Frames:  make(map[ast.Node]FrameID),
			Lookups: make(map[ast.Node]Lookup),
		},
	}
	b.env.Root = b.scope(program.Body, NoFrame)
	return b.env
}

type envBuilder struct {
	ctx   *Context
	types map[ast.Node]typesystem.Type
	env   *Environment

	// visible counts the leading fields of each frame declared so far, so
	// a use only sees bindings declared before it.
	visible map[FrameID]int
	active  FrameID
}

func (b *envBuilder) typeOf(node ast.Node) typesystem.Type {
	t, ok := b.types[node]
	if !ok || t == nil {
		contractf(node, "untyped %T", node)
	}
	return t
}

// scope builds the frame of s. Fields for all declarations of s itself are
// allocated up front; nested scopes and function bodies get their own frames.
func (b *envBuilder) scope(s *ast.Scope, parent FrameID) FrameID {
	frame := b.ctx.NewFrame(parent)
	b.env.Frames[s] = frame.ID
	for _, stmt := range s.Statements {
		if decl, ok := stmt.(*ast.Declaration); ok {
			b.ctx.AddField(frame.ID, decl.Name.Value, b.typeOf(decl.Value))
		}
	}

	outer := b.active
	b.active = frame.ID
	for _, stmt := range s.Statements {
		b.statement(stmt, frame)
	}
	b.expression(s.Result)
	b.active = outer

	b.ctx.Finalize(frame.ID)
	return frame.ID
}

func (b *envBuilder) statement(stmt ast.Statement, frame *Frame) {
	switch stmt := stmt.(type) {
	case *ast.Declaration:
		b.expression(stmt.Value)
		field, _ := frame.Field(stmt.Name.Value)
		b.env.Lookups[stmt] = Lookup{Frame: frame.ID, Field: field}
		b.visible[frame.ID]++
	case *ast.TypeDeclaration:
	case *ast.ExpressionStatement:
		b.expression(stmt.Expression)
	default:
		contractf(stmt, "unknown statement %T", stmt)
	}
}

// resolve walks the frame chain from the active frame.
func (b *envBuilder) resolve(node ast.Node, name string) Lookup {
	depth := 0
	for id := b.active; id != NoFrame; id = b.ctx.Frame(id).Parent {
		f := b.ctx.Frame(id)
		for _, field := range f.Fields[:b.visible[id]] {
			if field.SourceName == name {
				return Lookup{Frame: id, Field: field, Depth: depth}
			}
		}
		depth++
	}
	contractf(node, "undeclared variable %s", name)
	return Lookup{}
}

func (b *envBuilder) function(lit *ast.FunctionLiteral) {
	fnType, ok := b.typeOf(lit).(typesystem.Function)
	if !ok || len(fnType.Args) != len(lit.Parameters) {
		contractf(lit, "function literal has type %v", b.typeOf(lit))
	}

	args := b.ctx.NewFrame(b.active)
	b.env.Frames[lit] = args.ID
	for i, p := range lit.Parameters {
		b.ctx.AddField(args.ID, p.Name.Value, fnType.Args[i])
	}
	b.visible[args.ID] = len(lit.Parameters)

	outer := b.active
	b.active = args.ID
	b.scope(lit.Body, args.ID)
	b.active = outer

	b.ctx.Finalize(args.ID)
}

func (b *envBuilder) expression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.BooleanLiteral, *ast.StringLiteral, *ast.Empty:
	case *ast.Identifier:
		b.env.Lookups[e] = b.resolve(e, e.Value)
	case *ast.Assign:
		b.expression(e.Value)
		b.env.Lookups[e] = b.resolve(e, e.Name.Value)
	case *ast.InfixExpression:
		b.expression(e.Left)
		b.expression(e.Right)
	case *ast.PrefixExpression:
		b.expression(e.Right)
	case *ast.NewExpression:
		b.expression(e.Value)
	case *ast.Scope:
		b.scope(e, b.active)
	case *ast.IfExpression:
		for _, br := range e.Branches {
			b.expression(br.Condition)
			b.scope(br.Body, b.active)
		}
		if e.Else != nil {
			b.scope(e.Else, b.active)
		}
	case *ast.WhileExpression:
		b.expression(e.Condition)
		b.scope(e.Body, b.active)
	case *ast.FunctionLiteral:
		b.function(e)
	case *ast.CallExpression:
		b.expression(e.Function)
		for _, arg := range e.Arguments {
			b.expression(arg)
		}
	case *ast.BuiltinCall:
		for _, arg := range e.Arguments {
			b.expression(arg)
		}
	case *ast.PrintExpression:
		b.expression(e.Value)
	case *ast.RecordLiteral:
		for _, f := range e.Fields {
			b.expression(f.Value)
		}
	case *ast.FieldAccess:
		b.expression(e.Record)
	default:
		contractf(expr, "unknown expression %T", expr)
	}
}
