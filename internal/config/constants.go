package config

// Version is reported by `iclc version` and stamped into build manifests.
const Version = "0.4.0"

const SourceFileExt = ".icl"

// Artifact file names
const (
	BundleFileExt     = ".icb"
	AssemblyFileExt   = ".j"
	BundleFileName    = "program" + BundleFileExt
	ManifestFileName  = "manifest.yaml"
	ProjectFileName   = "iclc.yaml"
	HistoryFileName   = ".iclc_history"
	DefaultOutputDir  = "out"
	DefaultDatabase   = "iclc.db"
	DefaultMaxDepth   = 2048
	DefaultJobs       = 4
	BundleFormatMagic = "ICLB"
)

// Entry artifact
const (
	EntryClassName  = "Main"
	EntryMainMethod = "main"
	EntryRunMethod  = "run"
	EntryMainDesc   = "([Ljava/lang/String;)V"
	CallMethodName  = "call"
	CtorMethodName  = "<init>"
	ParentFieldName = "parent"
	FrameFieldName  = "frame"
	ValueFieldName  = "value"
)

// Local slots. Main.run keeps the active frame in EntryFrameSlot. A closure's
// call method holds `this` in slot 0 and its arguments from FirstArgSlot on;
// the active frame follows the arguments.
const (
	EntryFrameSlot  = 1
	ClosureSelfSlot = 0
	FirstArgSlot    = 1
)

// Runtime classes provided by the target, never generated.
const (
	ObjectClass      = "java/lang/Object"
	StringClass      = "java/lang/String"
	MathClass        = "java/lang/Math"
	SystemClass      = "java/lang/System"
	PrintStreamClass = "java/io/PrintStream"
)

// RuntimeClasses lists every class an artifact may reference without generating it.
var RuntimeClasses = []string{ObjectClass, StringClass, MathClass, SystemClass, PrintStreamClass}

// Built-in function names
const (
	PrintFuncName   = "print"
	PrintlnFuncName = "println"
	SinFuncName     = "sin"
	CosFuncName     = "cos"
	TanFuncName     = "tan"
	SqrtFuncName    = "sqrt"
	AbsFuncName     = "abs"
	PowFuncName     = "pow"
	MaxFuncName     = "max"
	MinFuncName     = "min"
	RandFuncName    = "rand"
	PiFuncName      = "pi"
)

// Arity describes how many Number arguments a builtin accepts.
// Max < 0 means variadic.
type Arity struct {
	Min, Max int
}

// Builtins maps every builtin math function to its arity.
var Builtins = map[string]Arity{
	SinFuncName:  {1, 1},
	CosFuncName:  {1, 1},
	TanFuncName:  {1, 1},
	SqrtFuncName: {1, 1},
	AbsFuncName:  {1, 1},
	PowFuncName:  {2, 2},
	MaxFuncName:  {2, -1},
	MinFuncName:  {2, -1},
	RandFuncName: {0, 0},
	PiFuncName:   {0, 0},
}

// IsBuiltin reports whether name is a builtin function.
func IsBuiltin(name string) bool {
	_, ok := Builtins[name]
	return ok
}
