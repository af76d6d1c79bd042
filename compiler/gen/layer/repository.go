package layer

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/compiler/gen"
)

// genRepository generates the repository file (repository/{entity}_repository.go):
// the not-found sentinel, the repository interface and its gorm implementation.
func genRepository(h gen.GeneratorHelper, t *gen.Type) ([]*gen.Artifact, error) {
	f := h.NewFile(repositoryPkg(t), "repository", gen.KindBase)
	methods := repositoryMethods(h, t)

	f.Commentf("%s is returned when no %s matches a lookup.", t.NotFoundName(), strings.ToLower(t.Name))
	f.Var().Id(t.NotFoundName()).Op("=").Qual("errors", "New").Call(jen.Lit(strings.ToLower(t.Name) + " not found"))

	f.Commentf("%s provides access to the %s table.", t.RepositoryName(), t.Table())
	f.Type().Id(t.RepositoryName()).InterfaceFunc(func(group *jen.Group) {
		for _, m := range methods {
			group.Comment(m.doc)
			group.Id(m.name).Params(m.params...).Add(m.results)
		}
	})

	impl := t.RepositoryImplName()
	f.Commentf("%s implements %s with gorm.", impl, t.RepositoryName())
	f.Type().Id(impl).Struct(
		jen.Id("db").Op("*").Qual(gormPkg, "DB"),
	)

	f.Commentf("New%s returns a %s backed by db.", t.RepositoryName(), t.RepositoryName())
	f.Func().Id("New"+t.RepositoryName()).Params(jen.Id("db").Op("*").Qual(gormPkg, "DB")).Id(t.RepositoryName()).Block(
		jen.Return(jen.Op("&").Id(impl).Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)

	for _, m := range methods {
		f.Commentf("%s implements %s.", m.name, t.RepositoryName())
		f.Func().Params(jen.Id("r").Op("*").Id(impl)).Id(m.name).Params(m.params...).Add(m.results).Block(m.body...)
	}
	return []*gen.Artifact{
		source(t, Repository, gen.KindBase, f, "repository", "repository", fileName("", t, "_repository")),
	}, nil
}

// method describes one generated method.
type method struct {
	name    string
	doc     string
	params  []jen.Code
	results jen.Code
	body    []jen.Code
}

func repositoryMethods(h gen.GeneratorHelper, t *gen.Type) []method {
	id := t.ID
	db := func() *jen.Statement {
		return jen.Id("r").Dot("db").Dot("WithContext").Call(jen.Id("ctx"))
	}
	where := func(f *gen.Field, arg string) *jen.Statement {
		return db().Dot("Where").Call(jen.Lit(f.Column()+" = ?"), jen.Id(arg))
	}
	methods := []method{
		{
			name:    "FindAll",
			doc:     "FindAll returns all entities.",
			params:  []jen.Code{ctxParam()},
			results: listResults(t),
			body:    findMany(t, db()),
		},
		{
			name:    "FindByID",
			doc:     "FindByID returns the entity with the given identifier.",
			params:  []jen.Code{ctxParam(), jen.Id("id").Add(h.IDType(t))},
			results: oneResults(t),
			body:    findOne(t, where(id, "id")),
		},
		{
			name:    "ExistsByID",
			doc:     "ExistsByID reports whether an entity with the given identifier exists.",
			params:  []jen.Code{ctxParam(), jen.Id("id").Add(h.IDType(t))},
			results: existsResults(),
			body:    count(t, id, "id"),
		},
		{
			name:    "Save",
			doc:     "Save inserts or updates the entity.",
			params:  []jen.Code{ctxParam(), jen.Id("entity").Add(entityPtr(t))},
			results: oneResults(t),
			body: []jen.Code{
				jen.If(jen.Err().Op(":=").Add(db()).Dot("Save").Call(jen.Id("entity")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
					jen.Return(jen.Nil(), jen.Err()),
				),
				jen.Return(jen.Id("entity"), jen.Nil()),
			},
		},
		{
			name:    "DeleteByID",
			doc:     "DeleteByID deletes the entity with the given identifier.",
			params:  []jen.Code{ctxParam(), jen.Id("id").Add(h.IDType(t))},
			results: jen.Error(),
			body: []jen.Code{
				jen.Return(where(id, "id").Dot("Delete").Call(jen.Op("&").Qual(entityPkg(t), t.Name).Values()).Dot("Error")),
			},
		},
	}
	for _, f := range t.UniqueFields() {
		arg := f.Var()
		methods = append(methods,
			method{
				name:    f.FinderName(),
				doc:     f.FinderName() + " returns the entity with the given " + f.Name + ".",
				params:  []jen.Code{ctxParam(), jen.Id(arg).Add(h.GoType(f))},
				results: oneResults(t),
				body:    findOne(t, where(f, arg)),
			},
			method{
				name:    f.ExistsName(),
				doc:     f.ExistsName() + " reports whether an entity with the given " + f.Name + " exists.",
				params:  []jen.Code{ctxParam(), jen.Id(arg).Add(h.GoType(f))},
				results: existsResults(),
				body:    count(t, f, arg),
			},
		)
	}
	if f, ok := t.ActiveField(); ok {
		methods = append(methods, method{
			name:    "FindAllBy" + f.StructField(),
			doc:     "FindAllBy" + f.StructField() + " returns the entities with the given " + f.Name + " flag.",
			params:  []jen.Code{ctxParam(), jen.Id(f.Var()).Bool()},
			results: listResults(t),
			body:    findMany(t, where(f, f.Var())),
		})
	}
	return methods
}

func listResults(t *gen.Type) jen.Code {
	return jen.Parens(jen.List(jen.Index().Add(entityPtr(t)), jen.Error()))
}

func oneResults(t *gen.Type) jen.Code {
	return jen.Parens(jen.List(entityPtr(t), jen.Error()))
}

func existsResults() jen.Code {
	return jen.Parens(jen.List(jen.Bool(), jen.Error()))
}

func findMany(t *gen.Type, q *jen.Statement) []jen.Code {
	return []jen.Code{
		jen.Var().Id("entities").Index().Add(entityPtr(t)),
		jen.If(jen.Err().Op(":=").Add(q).Dot("Find").Call(jen.Op("&").Id("entities")).Dot("Error"), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("entities"), jen.Nil()),
	}
}

// findOne maps the gorm record-not-found error to the sentinel of t.
func findOne(t *gen.Type, q *jen.Statement) []jen.Code {
	return []jen.Code{
		jen.Var().Id("entity").Qual(entityPkg(t), t.Name),
		jen.Err().Op(":=").Add(q).Dot("Take").Call(jen.Op("&").Id("entity")).Dot("Error"),
		jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual(gormPkg, "ErrRecordNotFound"))).Block(
			jen.Return(jen.Nil(), jen.Id(t.NotFoundName())),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Op("&").Id("entity"), jen.Nil()),
	}
}

func count(t *gen.Type, f *gen.Field, arg string) []jen.Code {
	return []jen.Code{
		jen.Var().Id("n").Int64(),
		jen.Err().Op(":=").Id("r").Dot("db").Dot("WithContext").Call(jen.Id("ctx")).
			Dot("Model").Call(jen.Op("&").Qual(entityPkg(t), t.Name).Values()).
			Dot("Where").Call(jen.Lit(f.Column()+" = ?"), jen.Id(arg)).
			Dot("Count").Call(jen.Op("&").Id("n")).Dot("Error"),
		jen.Return(jen.Id("n").Op(">").Lit(0), jen.Err()),
	}
}
