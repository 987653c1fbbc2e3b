package grammar

// Grammar supplies the root token and a blank entity for each run.
//
// Implementations must be reusable across runs: every call to RootToken and
// BlankEntity returns fresh values, and neither call mutates the grammar.
// Grammars shared by concurrent runs must treat their own state as read-only.
type Grammar[T any] interface {
	RootToken() Token[T]
	BlankEntity() T
}

// Funcs adapts a pair of constructors to the Grammar interface.
type Funcs[T any] struct {
	Root  func() Token[T]
	Blank func() T
}

// RootToken calls f.Root.
func (f Funcs[T]) RootToken() Token[T] {
	return f.Root()
}

// BlankEntity calls f.Blank, or returns the zero T if Blank is nil.
func (f Funcs[T]) BlankEntity() T {
	if f.Blank == nil {
		var zero T
		return zero
	}
	return f.Blank()
}
