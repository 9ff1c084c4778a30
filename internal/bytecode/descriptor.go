package bytecode

import (
	"fmt"
	"strings"
)

// ParseMethodDescriptor splits "(DLfoo;I)V" into its argument descriptors and
// its return descriptor.
func ParseMethodDescriptor(desc string) ([]string, string, error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, "", fmt.Errorf("method descriptor %q does not start with (", desc)
	}
	var args []string
	rest := desc[1:]
	for {
		if rest == "" {
			return nil, "", fmt.Errorf("method descriptor %q is not closed", desc)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		field, n, err := nextFieldDescriptor(rest)
		if err != nil {
			return nil, "", fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		args = append(args, field)
		rest = rest[n:]
	}

	if rest == "V" {
		return args, rest, nil
	}
	if rest == "" {
		return nil, "", fmt.Errorf("method descriptor %q has no return type", desc)
	}
	ret, n, err := nextFieldDescriptor(rest)
	if err != nil || n != len(rest) {
		return nil, "", fmt.Errorf("method descriptor %q has a malformed return type", desc)
	}
	return args, ret, nil
}

func nextFieldDescriptor(s string) (string, int, error) {
	if s == "" {
		return "", 0, fmt.Errorf("missing descriptor")
	}
	switch s[0] {
	case 'I', 'D', 'Z', 'J', 'F', 'B', 'C', 'S':
		return s[:1], 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated class descriptor %q", s)
		}
		return s[:end+1], end + 1, nil
	case '[':
		elem, n, err := nextFieldDescriptor(s[1:])
		if err != nil {
			return "", 0, err
		}
		return "[" + elem, n + 1, nil
	}
	return "", 0, fmt.Errorf("unknown descriptor %q", s[:1])
}

// ClassOf returns the class named by an object descriptor such as "Lrecord_0;".
func ClassOf(desc string) (string, bool) {
	if len(desc) > 2 && desc[0] == 'L' && desc[len(desc)-1] == ';' {
		return desc[1 : len(desc)-1], true
	}
	return "", false
}

// ObjectDescriptor returns "L<class>;".
func ObjectDescriptor(class string) string {
	return "L" + class + ";"
}

// IsWide reports whether a value of this descriptor takes two slots.
func IsWide(desc string) bool {
	return desc == "D" || desc == "J"
}

// ArgSlots counts the local slots taken by args.
func ArgSlots(args []string) int {
	n := 0
	for _, a := range args {
		if IsWide(a) {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ReferencedClasses returns every class named by a descriptor, in order.
func ReferencedClasses(desc string) []string {
	var out []string
	for i := 0; i < len(desc); i++ {
		if desc[i] != 'L' {
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			break
		}
		out = append(out, desc[i+1:i+end])
		i += end
	}
	return out
}
