package layer

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/schema/field"
)

// genServiceTest generates a test of the base service under the test root,
// backed by an in-memory repository. Like other extensible artifacts it is
// written once.
func genServiceTest(h gen.GeneratorHelper, t *gen.Type) ([]*gen.Artifact, error) {
	f := h.NewFile(serviceBasePkg(t)+"_test", "base_test", gen.KindExtensible)
	mem := "memory" + t.RepositoryName()
	genMemoryRepository(h, f, t, mem)
	genServiceTestFunc(f, t, mem)
	a := source(t, ServiceTest, gen.KindExtensible, f, "base_test", "service", "base", fileName("base_", t, "_service_impl_test"))
	a.Root = gen.RootTest
	return []*gen.Artifact{a}, nil
}

func genMemoryRepository(h gen.GeneratorHelper, f *jen.File, t *gen.Type, mem string) {
	recv := jen.Id("m").Op("*").Id(mem)
	key := func(v jen.Code) jen.Code { return jen.Qual("fmt", "Sprint").Call(v) }
	notFound := errNotFound(t)

	f.Commentf("%s is an in-memory %s for tests.", mem, t.RepositoryName())
	f.Type().Id(mem).Struct(
		jen.Id("entities").Map(jen.String()).Add(entityPtr(t)),
	)
	f.Func().Id("newM" + mem[1:]).Params().Op("*").Id(mem).Block(
		jen.Return(jen.Op("&").Id(mem).Values(jen.Dict{
			jen.Id("entities"): jen.Map(jen.String()).Add(entityPtr(t)).Values(),
		})),
	)

	scan := func(cond func(e *jen.Statement) jen.Code, match []jen.Code, after []jen.Code) []jen.Code {
		return append([]jen.Code{
			jen.For(jen.List(jen.Id("_"), jen.Id("e")).Op(":=").Range().Id("m").Dot("entities")).Block(
				jen.If(cond(jen.Id("e"))).Block(match...),
			),
		}, after...)
	}

	f.Func().Params(recv).Id("FindAll").Params(jen.Id("_").Qual("context", "Context")).Add(listResults(t)).Block(
		jen.Id("entities").Op(":=").Make(jen.Index().Add(entityPtr(t)), jen.Lit(0), jen.Len(jen.Id("m").Dot("entities"))),
		jen.For(jen.List(jen.Id("_"), jen.Id("e")).Op(":=").Range().Id("m").Dot("entities")).Block(
			jen.Id("entities").Op("=").Append(jen.Id("entities"), jen.Id("e")),
		),
		jen.Return(jen.Id("entities"), jen.Nil()),
	)
	f.Func().Params(recv).Id("FindByID").Params(jen.Id("_").Qual("context", "Context"), jen.Id("id").Add(h.IDType(t))).Add(oneResults(t)).Block(
		jen.List(jen.Id("e"), jen.Id("ok")).Op(":=").Id("m").Dot("entities").Index(key(jen.Id("id"))),
		jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), notFound)),
		jen.Return(jen.Id("e"), jen.Nil()),
	)
	f.Func().Params(recv).Id("ExistsByID").Params(jen.Id("_").Qual("context", "Context"), jen.Id("id").Add(h.IDType(t))).Add(existsResults()).Block(
		jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id("m").Dot("entities").Index(key(jen.Id("id"))),
		jen.Return(jen.Id("ok"), jen.Nil()),
	)
	f.Func().Params(recv).Id("Save").Params(jen.Id("_").Qual("context", "Context"), jen.Id("entity").Add(entityPtr(t))).Add(oneResults(t)).Block(
		jen.Id("m").Dot("entities").Index(key(jen.Id("entity").Dot(t.ID.Getter()).Call())).Op("=").Id("entity"),
		jen.Return(jen.Id("entity"), jen.Nil()),
	)
	f.Func().Params(recv).Id("DeleteByID").Params(jen.Id("_").Qual("context", "Context"), jen.Id("id").Add(h.IDType(t))).Error().Block(
		jen.Delete(jen.Id("m").Dot("entities"), key(jen.Id("id"))),
		jen.Return(jen.Nil()),
	)
	for _, fd := range t.UniqueFields() {
		arg := fd.Var()
		eq := func(e *jen.Statement) jen.Code { return jen.Add(e).Dot(fd.StructField()).Op("==").Id(arg) }
		f.Func().Params(recv).Id(fd.FinderName()).Params(jen.Id("_").Qual("context", "Context"), jen.Id(arg).Add(h.GoType(fd))).Add(oneResults(t)).Block(
			scan(eq, []jen.Code{jen.Return(jen.Id("e"), jen.Nil())}, []jen.Code{jen.Return(jen.Nil(), notFound)})...,
		)
		f.Func().Params(recv).Id(fd.ExistsName()).Params(jen.Id("_").Qual("context", "Context"), jen.Id(arg).Add(h.GoType(fd))).Add(existsResults()).Block(
			scan(eq, []jen.Code{jen.Return(jen.True(), jen.Nil())}, []jen.Code{jen.Return(jen.False(), jen.Nil())})...,
		)
	}
	if fd, ok := t.ActiveField(); ok {
		arg := fd.Var()
		f.Func().Params(recv).Id("FindAllBy"+fd.StructField()).Params(jen.Id("_").Qual("context", "Context"), jen.Id(arg).Bool()).Add(listResults(t)).Block(
			jen.Var().Id("entities").Index().Add(entityPtr(t)),
			jen.For(jen.List(jen.Id("_"), jen.Id("e")).Op(":=").Range().Id("m").Dot("entities")).Block(
				jen.If(jen.Id("e").Dot(fd.StructField()).Op("==").Id(arg)).Block(
					jen.Id("entities").Op("=").Append(jen.Id("entities"), jen.Id("e")),
				),
			),
			jen.Return(jen.Id("entities"), jen.Nil()),
		)
	}
	f.Var().Id("_").Qual(repositoryPkg(t), t.RepositoryName()).Op("=").Parens(jen.Op("*").Id(mem)).Parens(jen.Nil())
}

func genServiceTestFunc(f *jen.File, t *gen.Type, mem string) {
	base := serviceBasePkg(t)
	require := func(fn string, args ...jen.Code) jen.Code {
		return jen.Qual(requirePkg, fn).Call(append([]jen.Code{jen.Id("t")}, args...)...)
	}
	assert := func(fn string, args ...jen.Code) jen.Code {
		return jen.Qual(assertPkg, fn).Call(append([]jen.Code{jen.Id("t")}, args...)...)
	}
	id := jen.Id("created").Dot(t.ID.Getter()).Call()
	f.Func().Id("Test"+t.BaseServiceName()).Params(jen.Id("t").Op("*").Qual("testing", "T")).BlockFunc(func(group *jen.Group) {
		group.Id("ctx").Op(":=").Qual("context", "Background").Call()
		group.Id("svc").Op(":=").Qual(base, "New"+t.BaseServiceName()).Call(jen.Id("newM" + mem[1:]).Call())
		group.Line()
		group.Id("entity").Op(":=").Op("&").Qual(entityPkg(t), t.Name).Values()
		for _, fd := range t.IDs {
			group.Id("entity").Dot(fd.Setter()).Call(sampleValue(fd))
		}
		group.List(jen.Id("created"), jen.Err()).Op(":=").Id("svc").Dot("Create").Call(jen.Id("ctx"), jen.Id("entity"))
		group.Add(require("NoError", jen.Err()))
		group.List(jen.Id("found"), jen.Err()).Op(":=").Id("svc").Dot("FindByID").Call(jen.Id("ctx"), id)
		group.Add(require("NoError", jen.Err()))
		group.Add(assert("True", jen.Id("created").Dot("Equal").Call(jen.Id("found"))))
		group.List(jen.Id("all"), jen.Err()).Op(":=").Id("svc").Dot("FindAll").Call(jen.Id("ctx"))
		group.Add(require("NoError", jen.Err()))
		group.Add(assert("Len", jen.Id("all"), jen.Lit(1)))
		group.Line()
		group.Id("incoming").Op(":=").Op("&").Qual(entityPkg(t), t.Name).Values()
		if fields := t.NonIDFields(); len(fields) > 0 {
			fd := fields[0]
			group.Id("value").Op(":=").Add(sampleValue(fd))
			group.Id("incoming").Dot(fd.Setter()).Call(jen.Id("value"))
			group.List(jen.Id("updated"), jen.Err()).Op(":=").Id("svc").Dot("Update").Call(jen.Id("ctx"), id, jen.Id("incoming"))
			group.Add(require("NoError", jen.Err()))
			group.Add(assert("Equal", jen.Id("value"), jen.Id("updated").Dot(fd.Getter()).Call()))
		} else {
			group.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("Update").Call(jen.Id("ctx"), id, jen.Id("incoming"))
			group.Add(require("NoError", jen.Err()))
		}
		group.Line()
		group.Add(require("NoError", jen.Id("svc").Dot("DeleteByID").Call(jen.Id("ctx"), id)))
		group.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("FindByID").Call(jen.Id("ctx"), id)
		group.Add(assert("ErrorIs", jen.Err(), errNotFound(t)))
		group.Add(assert("ErrorIs", jen.Id("svc").Dot("DeleteByID").Call(jen.Id("ctx"), id), errNotFound(t)))
		group.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("Update").Call(jen.Id("ctx"), id, jen.Id("incoming"))
		group.Add(assert("ErrorIs", jen.Err(), errNotFound(t)))
	})
}

// sampleValue returns a non-zero value of the Go type of f.
func sampleValue(f *gen.Field) jen.Code {
	switch t := f.Type.Type; {
	case f.Type.Fallback, t == field.TypeString:
		return jen.Lit(f.Name + "-1")
	case t == field.TypeBoolean:
		return jen.True()
	case t == field.TypeBigDecimal:
		return jen.Qual(field.DecimalPkg, "NewFromInt").Call(jen.Lit(1))
	case t == field.TypeUUID:
		return jen.Qual(field.UUIDPkg, "New").Call()
	case t.Temporal():
		return jen.Qual("time", "Now").Call()
	default:
		return jen.Id(f.Type.Ident).Call(jen.Lit(1))
	}
}
