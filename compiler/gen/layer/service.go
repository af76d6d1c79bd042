package layer

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/compiler/gen"
)

// genService generates the service interface, its base implementation and
// the user-owned implementation embedding the base one.
func genService(h gen.GeneratorHelper, t *gen.Type) ([]*gen.Artifact, error) {
	methods := serviceMethods(h, t)
	return []*gen.Artifact{
		genServiceInterface(h, t, methods),
		genBaseService(h, t, methods),
		genServiceImpl(h, t),
	}, nil
}

func serviceMethods(h gen.GeneratorHelper, t *gen.Type) []method {
	repo := jen.Id("s").Dot("Repository")
	idParam := jen.Id("id").Add(h.IDType(t))
	entityParam := jen.Id("entity").Add(entityPtr(t))
	methods := []method{
		{
			name:    "Create",
			doc:     "Create persists a new entity.",
			params:  []jen.Code{ctxParam(), entityParam},
			results: oneResults(t),
			body: []jen.Code{
				jen.Return(jen.Add(repo).Dot("Save").Call(jen.Id("ctx"), jen.Id("entity"))),
			},
		},
		{
			name:    "FindByID",
			doc:     "FindByID returns the entity with the given identifier.",
			params:  []jen.Code{ctxParam(), idParam},
			results: oneResults(t),
			body: []jen.Code{
				jen.Return(jen.Add(repo).Dot("FindByID").Call(jen.Id("ctx"), jen.Id("id"))),
			},
		},
		{
			name:    "FindAll",
			doc:     "FindAll returns all entities.",
			params:  []jen.Code{ctxParam()},
			results: listResults(t),
			body: []jen.Code{
				jen.Return(jen.Add(repo).Dot("FindAll").Call(jen.Id("ctx"))),
			},
		},
		{
			name:    "Update",
			doc:     "Update copies all non-identity fields of entity onto the stored entity with the given identifier.",
			params:  []jen.Code{ctxParam(), idParam, entityParam},
			results: oneResults(t),
			body:    updateBody(t, repo),
		},
		{
			name:    "DeleteByID",
			doc:     "DeleteByID deletes the entity with the given identifier.",
			params:  []jen.Code{ctxParam(), idParam},
			results: jen.Error(),
			body: []jen.Code{
				jen.List(jen.Id("ok"), jen.Err()).Op(":=").Add(repo).Dot("ExistsByID").Call(jen.Id("ctx"), jen.Id("id")),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
				jen.If(jen.Op("!").Id("ok")).Block(jen.Return(errNotFound(t))),
				jen.Return(jen.Add(repo).Dot("DeleteByID").Call(jen.Id("ctx"), jen.Id("id"))),
			},
		},
	}
	for _, f := range t.UniqueFields() {
		methods = append(methods, method{
			name:    f.FinderName(),
			doc:     f.FinderName() + " returns the entity with the given " + f.Name + ".",
			params:  []jen.Code{ctxParam(), jen.Id(f.Var()).Add(h.GoType(f))},
			results: oneResults(t),
			body: []jen.Code{
				jen.Return(jen.Add(repo).Dot(f.FinderName()).Call(jen.Id("ctx"), jen.Id(f.Var()))),
			},
		})
	}
	return methods
}

// updateBody fetches the stored entity or fails with the not-found
// sentinel, then copies every non-identity field before saving.
func updateBody(t *gen.Type, repo *jen.Statement) []jen.Code {
	body := []jen.Code{
		jen.List(jen.Id("existing"), jen.Err()).Op(":=").Add(repo).Dot("FindByID").Call(jen.Id("ctx"), jen.Id("id")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
	}
	for _, f := range t.NonIDFields() {
		body = append(body, jen.Id("existing").Dot(f.Setter()).Call(jen.Id("entity").Dot(f.Getter()).Call()))
	}
	return append(body, jen.Return(jen.Add(repo).Dot("Save").Call(jen.Id("ctx"), jen.Id("existing"))))
}

// genServiceInterface generates service/{entity}_service.go.
func genServiceInterface(h gen.GeneratorHelper, t *gen.Type, methods []method) *gen.Artifact {
	f := h.NewFile(servicePkg(t), "service", gen.KindBase)
	f.Commentf("%s defines the operations on %s entities.", t.ServiceName(), t.Name)
	f.Type().Id(t.ServiceName()).InterfaceFunc(func(group *jen.Group) {
		for _, m := range methods {
			group.Comment(m.doc)
			group.Id(m.name).Params(m.params...).Add(m.results)
		}
	})
	return source(t, Service, gen.KindBase, f, "service", "service", fileName("", t, "_service"))
}

// genBaseService generates service/base/base_{entity}_service_impl.go.
func genBaseService(h gen.GeneratorHelper, t *gen.Type, methods []method) *gen.Artifact {
	name := t.BaseServiceName()
	f := h.NewFile(serviceBasePkg(t), "base", gen.KindBase)
	f.Commentf("%s implements the operations of %s by delegating to the repository.", name, t.ServiceName())
	f.Comment("It is regenerated on every run; add business logic to " + t.ServiceImplName() + " instead.")
	f.Type().Id(name).Struct(
		jen.Id("Repository").Qual(repositoryPkg(t), t.RepositoryName()),
	)

	f.Commentf("New%s returns a %s backed by repo.", name, name)
	f.Func().Id("New"+name).Params(jen.Id("repo").Qual(repositoryPkg(t), t.RepositoryName())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("Repository"): jen.Id("repo")})),
	)

	for _, m := range methods {
		f.Comment(m.doc)
		f.Func().Params(jen.Id("s").Op("*").Id(name)).Id(m.name).Params(m.params...).Add(m.results).Block(m.body...)
	}
	return source(t, Service, gen.KindBase, f, "base", "service", "base", fileName("base_", t, "_service_impl"))
}

// genServiceImpl generates service/{entity}_service_impl.go. The file is
// written once and owned by the user afterwards.
func genServiceImpl(h gen.GeneratorHelper, t *gen.Type) *gen.Artifact {
	name, base := t.ServiceImplName(), t.BaseServiceName()
	f := h.NewFile(servicePkg(t), "service", gen.KindExtensible)
	f.Commentf("%s is the %s of the application.", name, t.ServiceName())
	f.Comment("Add business logic here: override methods of the embedded base service")
	f.Comment("or add new ones. This file is not regenerated.")
	f.Type().Id(name).Struct(
		jen.Op("*").Qual(serviceBasePkg(t), base),
	)

	f.Commentf("New%s returns a %s backed by repo.", name, name)
	f.Func().Id("New"+name).Params(jen.Id("repo").Qual(repositoryPkg(t), t.RepositoryName())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{
			jen.Id(base): jen.Qual(serviceBasePkg(t), "New"+base).Call(jen.Id("repo")),
		})),
	)

	f.Var().Id("_").Id(t.ServiceName()).Op("=").Parens(jen.Op("*").Id(name)).Parens(jen.Nil())
	return source(t, Service, gen.KindExtensible, f, "service", "service", fileName("", t, "_service_impl"))
}
