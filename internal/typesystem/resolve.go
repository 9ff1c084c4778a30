package typesystem

// AliasLookup returns the declared body of an alias visible at some point.
type AliasLookup func(name string) (Type, bool)

// Resolve replaces every Alias inside t by its declared body, recursively.
// Alias bodies are resolved lazily, so an alias may name another alias.
// A chain that revisits an alias fails with *CyclicAliasError.
func Resolve(t Type, lookup AliasLookup) (Type, error) {
	return resolve(t, lookup, nil)
}

func resolve(t Type, lookup AliasLookup, visiting []string) (Type, error) {
	switch t := t.(type) {
	case Alias:
		for i, name := range visiting {
			if name == t.Name {
				path := append(append([]string{}, visiting[i:]...), t.Name)
				return nil, &CyclicAliasError{Path: path}
			}
		}
		body, ok := lookup(t.Name)
		if !ok {
			return nil, &UndefinedTypeError{Name: t.Name}
		}
		return resolve(body, lookup, append(visiting, t.Name))

	case Reference:
		target, err := resolve(t.Target, lookup, visiting)
		if err != nil {
			return nil, err
		}
		return Reference{Target: target}, nil

	case Function:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			r, err := resolve(a, lookup, visiting)
			if err != nil {
				return nil, err
			}
			args[i] = r
		}
		ret, err := resolve(t.Ret, lookup, visiting)
		if err != nil {
			return nil, err
		}
		return Function{Args: args, Ret: ret}, nil

	case Record:
		fields := make(map[string]Type, len(t.Fields))
		for _, name := range t.FieldNames() {
			r, err := resolve(t.Fields[name], lookup, visiting)
			if err != nil {
				return nil, err
			}
			fields[name] = r
		}
		return Record{Fields: fields}, nil
	}
	return t, nil
}
