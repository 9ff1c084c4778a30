package typesystem

import (
	"fmt"
	"strings"
)

// UndefinedTypeError indicates an alias name with no declaration in scope.
type UndefinedTypeError struct {
	Name string
}

func (e *UndefinedTypeError) Error() string {
	return fmt.Sprintf("undeclared type: %s", e.Name)
}

// CyclicAliasError reports an alias that refers back to itself. Path lists
// the aliases visited, ending with the repeated one.
type CyclicAliasError struct {
	Path []string
}

func (e *CyclicAliasError) Error() string {
	return fmt.Sprintf("cyclic type alias: %s", strings.Join(e.Path, " -> "))
}
