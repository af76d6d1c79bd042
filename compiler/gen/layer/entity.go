package layer

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/schema/field"
)

// genEntity generates the entity file ({entity}.go).
func genEntity(h gen.GeneratorHelper, t *gen.Type) ([]*gen.Artifact, error) {
	f := h.NewFile(entityPkg(t), t.PackageName(), gen.KindBase)
	genEntityStruct(h, f, t)
	genAccessors(h, f, t)
	genEqual(f, t)
	genHash(f, t)
	genString(f, t)
	return []*gen.Artifact{
		source(t, Entity, gen.KindBase, f, t.PackageName(), fileName("", t, "")),
	}, nil
}

func genEntityStruct(h gen.GeneratorHelper, f *jen.File, t *gen.Type) {
	f.Commentf("%s is the model entity for the %s schema.", t.Name, t.Name)
	f.Type().Id(t.Name).StructFunc(func(group *jen.Group) {
		for _, fd := range t.Fields {
			group.Id(fd.StructField()).Add(h.GoType(fd)).Tag(h.StructTags(fd))
		}
	})

	f.Commentf("TableName returns the table name of %s.", t.Name)
	f.Func().Params(jen.Id(t.Name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(t.Table())),
	)
}

// genAccessors generates a getter and a setter per field. Getters are
// safe to call on a nil entity.
func genAccessors(h gen.GeneratorHelper, f *jen.File, t *gen.Type) {
	r := t.Receiver()
	for _, fd := range t.Fields {
		f.Commentf("%s returns the value of the %q field.", fd.Getter(), fd.Name)
		f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id(fd.Getter()).Params().Add(h.GoType(fd)).Block(
			jen.If(jen.Id(r).Op("==").Nil()).Block(
				jen.Return(h.ZeroValue(fd)),
			),
			jen.Return(jen.Id(r).Dot(fd.StructField())),
		)

		f.Commentf("%s sets the value of the %q field.", fd.Setter(), fd.Name)
		f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id(fd.Setter()).Params(jen.Id("v").Add(h.GoType(fd))).Block(
			jen.Id(r).Dot(fd.StructField()).Op("=").Id("v"),
		)
	}
}

// genEqual generates the field-wise equality of two entities.
func genEqual(f *jen.File, t *gen.Type) {
	r := t.Receiver()
	f.Commentf("Equal reports whether %s and other hold the same values in all fields.", r)
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("Equal").Params(jen.Id("other").Op("*").Id(t.Name)).Bool().Block(
		jen.If(jen.Id(r).Op("==").Nil().Op("||").Id("other").Op("==").Nil()).Block(
			jen.Return(jen.Id(r).Op("==").Id("other")),
		),
		jen.Return(fieldsEqual(t, jen.Id(r), jen.Id("other"))),
	)
}

// fieldsEqual returns the conjunction of the field comparisons of a and b.
func fieldsEqual(t *gen.Type, a, b *jen.Statement) *jen.Statement {
	var expr *jen.Statement
	for _, fd := range t.Fields {
		left, right := jen.Add(a).Dot(fd.StructField()), jen.Add(b).Dot(fd.StructField())
		var cmp *jen.Statement
		if valueEqual(fd) {
			cmp = left.Dot("Equal").Call(right)
		} else {
			cmp = left.Op("==").Add(right)
		}
		if expr == nil {
			expr = cmp
			continue
		}
		expr = expr.Op("&&").Line().Add(cmp)
	}
	return expr
}

// genHash generates a hash consistent with Equal: equal entities hash to
// the same value.
func genHash(f *jen.File, t *gen.Type) {
	r := t.Receiver()
	f.Comment("Hash returns the FNV-64a hash of all fields.")
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("Hash").Params().Uint64().BlockFunc(func(group *jen.Group) {
		group.If(jen.Id(r).Op("==").Nil()).Block(jen.Return(jen.Lit(0)))
		group.Id("hasher").Op(":=").Qual("hash/fnv", "New64a").Call()
		for _, fd := range t.Fields {
			group.Qual("fmt", "Fprintf").Call(jen.Id("hasher"), jen.Lit("%v\x00"), hashValue(jen.Id(r).Dot(fd.StructField()), fd))
		}
		group.Return(jen.Id("hasher").Dot("Sum64").Call())
	})
}

// hashValue returns the hashed representation of a field, canonical with
// respect to the equality of the field type.
func hashValue(v *jen.Statement, fd *gen.Field) jen.Code {
	switch t := fd.Type.Type; {
	case fd.Type.Fallback:
		return v
	case t.Temporal():
		return v.Dot("UnixNano").Call()
	case t == field.TypeBigDecimal:
		return v.Dot("String").Call()
	case t == field.TypeDouble || t == field.TypeFloat:
		// Folds -0 into 0.
		return v.Op("+").Lit(0)
	default:
		return v
	}
}

// genString generates the string representation listing all fields in
// declaration order.
func genString(f *jen.File, t *gen.Type) {
	r := t.Receiver()
	parts := make([]string, len(t.Fields))
	for i, fd := range t.Fields {
		parts[i] = fd.Name + "=%v"
	}
	f.Comment("String implements the fmt.Stringer interface.")
	f.Func().Params(jen.Id(r).Op("*").Id(t.Name)).Id("String").Params().String().Block(
		jen.If(jen.Id(r).Op("==").Nil()).Block(
			jen.Return(jen.Lit(t.Name+"(nil)")),
		),
		jen.Return(jen.Qual("fmt", "Sprintf").CallFunc(func(group *jen.Group) {
			group.Lit(t.Name + "{" + strings.Join(parts, ", ") + "}")
			for _, fd := range t.Fields {
				group.Id(r).Dot(fd.StructField())
			}
		})),
	)
}

// valueEqual reports if the Go type of the field is compared with its
// Equal method.
func valueEqual(fd *gen.Field) bool {
	return !fd.Type.Fallback && (fd.Type.Type.Temporal() || fd.Type.Type == field.TypeBigDecimal)
}
