// Package dsl offers fluent constructors for flatbin schemas:
//
//	ty := dsl.Object().
//		Field("a", dsl.Int()).
//		Field("b", dsl.Array(dsl.String())).
//		MustBuild()
package dsl

import "github.com/reoring/flatbin"

// Null returns the null schema node.
func Null() *flatbin.Ty { return flatbin.NullType() }

// Bool returns the bool schema node.
func Bool() *flatbin.Ty { return flatbin.BoolType() }

// Int returns the 64-bit signed integer schema node.
func Int() *flatbin.Ty { return flatbin.IntType() }

// Float returns the 64-bit float schema node.
func Float() *flatbin.Ty { return flatbin.FloatType() }

// String returns the string schema node.
func String() *flatbin.Ty { return flatbin.StringType() }

// Array returns the schema node for a homogeneous sequence of elem.
func Array(elem *flatbin.Ty) *flatbin.Ty { return flatbin.ArrayOf(elem) }

// Object starts an object schema builder. Chain Field calls in the wire
// order you want, then Build or MustBuild.
func Object() *objectBuilder {
	return &objectBuilder{}
}

type objectBuilder struct {
	fields []flatbin.Field
}

// Field appends one field. Declaration order becomes wire order.
func (b *objectBuilder) Field(name string, ty *flatbin.Ty) *objectBuilder {
	b.fields = append(b.fields, flatbin.Field{Name: name, Ty: ty})
	return b
}

// Build finalizes the object schema, rejecting duplicate field names.
func (b *objectBuilder) Build() (*flatbin.Ty, error) {
	return flatbin.ObjectOf(b.fields...)
}

// MustBuild is Build but panics on error. Intended for package-level schema
// variables and tests.
func (b *objectBuilder) MustBuild() *flatbin.Ty {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
