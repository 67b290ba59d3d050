// Package std defines the builtin functions available in the Monkey
// language: the fixed registry shared by both execution backends. The
// evaluator resolves builtins by name when an identifier is bound nowhere
// in the scope chain; the compiler resolves them to registry indices and
// the VM fetches them back with the GetBuiltin instruction — so the order
// of the Builtins slice is part of the bytecode contract and must not
// change between compiling and running.
package std

import (
	"fmt"
	"io"

	"github.com/monkeylang/monkey/objects"
)

// CallbackFunc is the function signature for builtin functions. It takes
// the engine's output writer (so puts is capturable in tests and
// redirectable by the REPL) and the evaluated arguments, returning the
// result object or an error object.
type CallbackFunc func(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject

// Builtin represents a builtin function with a name and its implementation
// callback. Builtins are themselves objects: both backends can push them
// around, compare them, and call them.
type Builtin struct {
	Name     string       // The name of the builtin function (e.g., "len")
	Callback CallbackFunc // The function that implements the builtin behavior
}

// GetType returns the type of the Builtin object.
func (b *Builtin) GetType() objects.MonkeyType {
	return objects.BuiltinType
}

// ToString returns an opaque placeholder naming the builtin.
func (b *Builtin) ToString() string {
	return "<builtin: " + b.Name + ">"
}

// ToObject returns the detailed representation of the builtin.
func (b *Builtin) ToObject() string {
	return b.ToString()
}

// Builtins is the registry, addressable by stable index. Indices are
// baked into compiled bytecode via GetBuiltin; only append here.
var Builtins = []*Builtin{
	{Name: "len", Callback: builtinLen},     // 0
	{Name: "first", Callback: builtinFirst}, // 1
	{Name: "last", Callback: builtinLast},   // 2
	{Name: "rest", Callback: builtinRest},   // 3
	{Name: "push", Callback: builtinPush},   // 4
	{Name: "puts", Callback: builtinPuts},   // 5
}

// GetBuiltinByName returns the registry entry with the given name, or nil.
func GetBuiltinByName(name string) *Builtin {
	for _, b := range Builtins {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// createError builds a Monkey error object for builtin misuse.
func createError(format string, a ...interface{}) *objects.Error {
	return &objects.Error{Message: fmt.Sprintf(format, a...)}
}

// builtinLen returns the length of a string or array.
//
// Syntax: len(x)
//
//	len("hello")    -> 5
//	len([1, 2, 3])  -> 3
func builtinLen(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject {
	if len(args) != 1 {
		return createError("ERROR: wrong number of arguments to `len`: got %d, want 1", len(args))
	}

	switch arg := args[0].(type) {
	case *objects.String:
		return &objects.Integer{Value: int64(len(arg.Value))}
	case *objects.Array:
		return &objects.Integer{Value: int64(len(arg.Elements))}
	default:
		return createError("ERROR: argument to `len` not supported, got %s", args[0].GetType())
	}
}

// builtinFirst returns the first element of an array, or null when the
// array is empty.
//
// Syntax: first(arr)
func builtinFirst(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject {
	if len(args) != 1 {
		return createError("ERROR: wrong number of arguments to `first`: got %d, want 1", len(args))
	}
	arr, ok := args[0].(*objects.Array)
	if !ok {
		return createError("ERROR: argument to `first` must be array, got %s", args[0].GetType())
	}

	if len(arr.Elements) == 0 {
		return objects.NULL
	}
	return arr.Elements[0]
}

// builtinLast returns the last element of an array, or null when the array
// is empty.
//
// Syntax: last(arr)
func builtinLast(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject {
	if len(args) != 1 {
		return createError("ERROR: wrong number of arguments to `last`: got %d, want 1", len(args))
	}
	arr, ok := args[0].(*objects.Array)
	if !ok {
		return createError("ERROR: argument to `last` must be array, got %s", args[0].GetType())
	}

	if len(arr.Elements) == 0 {
		return objects.NULL
	}
	return arr.Elements[len(arr.Elements)-1]
}

// builtinRest returns a new array holding all but the first element, or
// null when the array is empty. The input array is not mutated.
//
// Syntax: rest(arr)
func builtinRest(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject {
	if len(args) != 1 {
		return createError("ERROR: wrong number of arguments to `rest`: got %d, want 1", len(args))
	}
	arr, ok := args[0].(*objects.Array)
	if !ok {
		return createError("ERROR: argument to `rest` must be array, got %s", args[0].GetType())
	}

	length := len(arr.Elements)
	if length == 0 {
		return objects.NULL
	}

	rest := make([]objects.MonkeyObject, length-1)
	copy(rest, arr.Elements[1:])
	return &objects.Array{Elements: rest}
}

// builtinPush returns a new array with the element appended. The input
// array is not mutated.
//
// Syntax: push(arr, x)
func builtinPush(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject {
	if len(args) != 2 {
		return createError("ERROR: wrong number of arguments to `push`: got %d, want 2", len(args))
	}
	arr, ok := args[0].(*objects.Array)
	if !ok {
		return createError("ERROR: first argument to `push` must be array, got %s", args[0].GetType())
	}

	length := len(arr.Elements)
	elements := make([]objects.MonkeyObject, length+1)
	copy(elements, arr.Elements)
	elements[length] = args[1]
	return &objects.Array{Elements: elements}
}

// builtinPuts prints each argument's display form followed by a newline
// and returns null.
//
// Syntax: puts(x, ...)
func builtinPuts(writer io.Writer, args ...objects.MonkeyObject) objects.MonkeyObject {
	for _, arg := range args {
		fmt.Fprintln(writer, arg.ToString())
	}
	return objects.NULL
}
