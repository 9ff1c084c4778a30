package codegen

import (
	"fmt"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

// Assemble renders every artifact registered in ctx as a class. run is the
// compiled body of Main.run. The result is ordered: Main, frames in
// finalize order, then interfaces, records, references and closures in
// name order.
func Assemble(ctx *Context, run *bytecode.Method) []*bytecode.Class {
	var classes []*bytecode.Class
	add := func(c *bytecode.Class) {
		ctx.MarkCompiled(c.Name)
		classes = append(classes, c)
	}

	add(entryClass(run))
	for _, f := range ctx.Frames() {
		add(frameClass(ctx, f))
	}
	for _, fi := range ctx.Functions() {
		add(interfaceClass(fi))
	}
	for _, r := range ctx.Records() {
		add(dataClass(r.Name, bytecode.KindRecord, r.Fields))
	}
	for _, r := range ctx.References() {
		add(dataClass(r.Name, bytecode.KindReference, []bytecode.Field{{Name: config.ValueFieldName, Descriptor: r.ValueDescriptor}}))
	}
	for _, cl := range ctx.Closures() {
		add(closureClass(ctx, cl))
	}
	return classes
}

// constructor is the no-argument <init> every concrete class gets.
func constructor() *bytecode.Method {
	return &bytecode.Method{
		Name:       config.CtorMethodName,
		Descriptor: "()V",
		MaxStack:   1,
		MaxLocals:  1,
		Code: []bytecode.Instr{
			bytecode.Local(bytecode.ALOAD, 0),
			bytecode.Member(bytecode.INVOKESPECIAL, config.ObjectClass, config.CtorMethodName, "()V"),
			bytecode.Simple(bytecode.RETURN),
		},
	}
}

func entryClass(run *bytecode.Method) *bytecode.Class {
	_, ret, err := bytecode.ParseMethodDescriptor(run.Descriptor)
	if err != nil {
		invariantf("entry run method: %v", err)
	}
	code := []bytecode.Instr{bytecode.Member(bytecode.INVOKESTATIC, config.EntryClassName, config.EntryRunMethod, run.Descriptor)}
	switch {
	case ret == "V":
	case bytecode.IsWide(ret):
		code = append(code, bytecode.Simple(bytecode.POP2))
	default:
		code = append(code, bytecode.Simple(bytecode.POP))
	}
	code = append(code, bytecode.Simple(bytecode.RETURN))

	main := &bytecode.Method{
		Name:       config.EntryMainMethod,
		Descriptor: config.EntryMainDesc,
		Static:     true,
		MaxLocals:  1,
		Code:       code,
	}
	setMaxStack(main)
	return &bytecode.Class{
		Name:    config.EntryClassName,
		Kind:    bytecode.KindEntry,
		Super:   config.ObjectClass,
		Methods: []*bytecode.Method{constructor(), main, run},
	}
}

func frameClass(ctx *Context, f *Frame) *bytecode.Class {
	fields := make([]bytecode.Field, 0, len(f.Fields)+1)
	fields = append(fields, bytecode.Field{Name: config.ParentFieldName, Descriptor: ctx.ParentDescriptor(f)})
	for _, v := range f.Fields {
		fields = append(fields, bytecode.Field{Name: v.FieldName, Descriptor: v.Descriptor})
	}
	return &bytecode.Class{
		Name:    f.Name,
		Kind:    bytecode.KindFrame,
		Super:   config.ObjectClass,
		Fields:  fields,
		Methods: []*bytecode.Method{constructor()},
	}
}

func interfaceClass(fi *FunctionInterface) *bytecode.Class {
	return &bytecode.Class{
		Name:  fi.Name,
		Kind:  bytecode.KindInterface,
		Super: config.ObjectClass,
		Methods: []*bytecode.Method{{
			Name:       config.CallMethodName,
			Descriptor: fi.CallDescriptor,
			Abstract:   true,
		}},
	}
}

func dataClass(name string, kind bytecode.Kind, fields []bytecode.Field) *bytecode.Class {
	return &bytecode.Class{
		Name:    name,
		Kind:    kind,
		Super:   config.ObjectClass,
		Fields:  append([]bytecode.Field(nil), fields...),
		Methods: []*bytecode.Method{constructor()},
	}
}

func closureClass(ctx *Context, cl *Closure) *bytecode.Class {
	if cl.Call == nil {
		invariantf("closure %s has no call method", cl.Name)
	}
	return &bytecode.Class{
		Name:       cl.Name,
		Kind:       bytecode.KindClosure,
		Super:      config.ObjectClass,
		Interfaces: []string{cl.Interface.Name},
		Fields: []bytecode.Field{{
			Name:       config.FrameFieldName,
			Descriptor: bytecode.ObjectDescriptor(ctx.Frame(cl.Captured).Name),
		}},
		Methods: []*bytecode.Method{constructor(), cl.Call},
	}
}

// Validate checks that classes form a closed set: every class named by an
// instruction, a descriptor, a super class or an implemented interface is
// either in the set or a runtime class.
func Validate(classes []*bytecode.Class) error {
	known := make(map[string]bool, len(classes)+len(config.RuntimeClasses))
	for _, name := range config.RuntimeClasses {
		known[name] = true
	}
	entries := 0
	for _, c := range classes {
		if known[c.Name] {
			return &Error{Kind: ErrInvariant, Msg: fmt.Sprintf("class %s defined twice", c.Name)}
		}
		known[c.Name] = true
		if c.Name == config.EntryClassName {
			entries++
		}
	}
	if entries != 1 {
		return &Error{Kind: ErrInvariant, Msg: fmt.Sprintf("expected one entry class, found %d", entries)}
	}

	for _, c := range classes {
		check := func(ref, where string) error {
			if ref == "" || known[ref] {
				return nil
			}
			return &Error{Kind: ErrInvariant, Msg: fmt.Sprintf("%s: %s references unknown class %s", c.Name, where, ref)}
		}
		checkDesc := func(desc, where string) error {
			for _, ref := range bytecode.ReferencedClasses(desc) {
				if err := check(ref, where); err != nil {
					return err
				}
			}
			return nil
		}

		if err := check(c.Super, "super"); err != nil {
			return err
		}
		for _, iface := range c.Interfaces {
			if err := check(iface, "implements"); err != nil {
				return err
			}
		}
		for _, f := range c.Fields {
			if err := checkDesc(f.Descriptor, "field "+f.Name); err != nil {
				return err
			}
		}
		for _, m := range c.Methods {
			where := "method " + m.Name
			if err := checkDesc(m.Descriptor, where); err != nil {
				return err
			}
			for _, in := range m.Code {
				if err := check(in.Owner, where); err != nil {
					return err
				}
				if err := checkDesc(in.Desc, where); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
