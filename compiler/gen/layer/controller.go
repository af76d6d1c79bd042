package layer

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/schema/field"
)

// Layouts used to parse temporal identifiers from a request path.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
	timeLayout     = "15:04:05"
)

// genController generates the base controller and the user-owned
// controller embedding it.
func genController(h gen.GeneratorHelper, t *gen.Type) ([]*gen.Artifact, error) {
	return []*gen.Artifact{
		genBaseController(h, t),
		genControllerImpl(h, t),
	}, nil
}

// genBaseController generates controller/base/base_{entity}_controller.go.
func genBaseController(h gen.GeneratorHelper, t *gen.Type) *gen.Artifact {
	name := t.BaseControllerName()
	f := h.NewFile(controllerBasePkg(t), "base", gen.KindBase)
	recv := jen.Id("ctrl").Op("*").Id(name)
	svc := jen.Id("ctrl").Dot("Service")
	reqCtx := jen.Id("c").Dot("Request").Dot("Context").Call()
	ginCtx := jen.Id("c").Op("*").Qual(ginPkg, "Context")

	f.Commentf("%s is the primary route of the %s API.", t.RouteName(), t.Name)
	f.Const().Id(t.RouteName()).Op("=").Lit(t.Route())

	f.Commentf("%s serves the CRUD endpoints of %s.", name, t.Name)
	f.Comment("It is regenerated on every run; customize " + t.ControllerName() + " instead.")
	f.Type().Id(name).Struct(
		jen.Id("Service").Qual(servicePkg(t), t.ServiceName()),
	)

	f.Commentf("New%s returns a %s serving svc.", name, name)
	f.Func().Id("New"+name).Params(jen.Id("svc").Qual(servicePkg(t), t.ServiceName())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("Service"): jen.Id("svc")})),
	)

	f.Comment("Register mounts the handlers under path.")
	f.Func().Params(recv).Id("Register").Params(jen.Id("r").Qual(ginPkg, "IRouter"), jen.Id("path").String()).Block(
		jen.Id("g").Op(":=").Id("r").Dot("Group").Call(jen.Id("path")),
		jen.Id("g").Dot("GET").Call(jen.Lit(""), jen.Id("ctrl").Dot("List")),
		jen.Id("g").Dot("GET").Call(jen.Lit("/:id"), jen.Id("ctrl").Dot("Get")),
		jen.Id("g").Dot("POST").Call(jen.Lit(""), jen.Id("ctrl").Dot("Create")),
		jen.Id("g").Dot("PUT").Call(jen.Lit("/:id"), jen.Id("ctrl").Dot("Update")),
		jen.Id("g").Dot("DELETE").Call(jen.Lit("/:id"), jen.Id("ctrl").Dot("Delete")),
	)

	f.Commentf("List responds with all %s entities.", t.Name)
	f.Func().Params(recv).Id("List").Params(ginCtx).Block(
		jen.List(jen.Id("entities"), jen.Err()).Op(":=").Add(svc).Dot("FindAll").Call(reqCtx),
		abortOnError(),
		jen.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("entities")),
	)

	f.Commentf("Get responds with the %s of the path identifier.", t.Name)
	f.Func().Params(recv).Id("Get").Params(ginCtx).Block(
		parseParam(),
		jen.List(jen.Id("entity"), jen.Err()).Op(":=").Add(svc).Dot("FindByID").Call(reqCtx, jen.Id("id")),
		abortOnError(),
		jen.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("entity")),
	)

	f.Commentf("Create stores the %s of the request body.", t.Name)
	f.Func().Params(recv).Id("Create").Params(ginCtx).Block(
		bindBody(t),
		jen.List(jen.Id("created"), jen.Err()).Op(":=").Add(svc).Dot("Create").Call(reqCtx, jen.Op("&").Id("entity")),
		abortOnError(),
		jen.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusCreated"), jen.Id("created")),
	)

	f.Commentf("Update merges the %s of the request body into the stored one.", t.Name)
	f.Func().Params(recv).Id("Update").Params(ginCtx).Block(
		parseParam(),
		bindBody(t),
		jen.List(jen.Id("updated"), jen.Err()).Op(":=").Add(svc).Dot("Update").Call(reqCtx, jen.Id("id"), jen.Op("&").Id("entity")),
		abortOnError(),
		jen.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("updated")),
	)

	f.Commentf("Delete removes the %s of the path identifier.", t.Name)
	f.Func().Params(recv).Id("Delete").Params(ginCtx).Block(
		parseParam(),
		jen.If(jen.Err().Op(":=").Add(svc).Dot("DeleteByID").Call(reqCtx, jen.Id("id")), jen.Err().Op("!=").Nil()).Block(
			jen.Id("ctrl").Dot("abort").Call(jen.Id("c"), jen.Err()),
			jen.Return(),
		),
		jen.Id("c").Dot("Status").Call(jen.Qual("net/http", "StatusNoContent")),
	)

	f.Comment("abort maps err to the status code of the response.")
	f.Func().Params(recv).Id("abort").Params(ginCtx, jen.Err().Error()).Block(
		jen.Id("status").Op(":=").Qual("net/http", "StatusInternalServerError"),
		jen.If(jen.Qual("errors", "Is").Call(jen.Err(), errNotFound(t))).Block(
			jen.Id("status").Op("=").Qual("net/http", "StatusNotFound"),
		),
		jen.Id("c").Dot("AbortWithStatusJSON").Call(jen.Id("status"), jen.Qual(ginPkg, "H").Values(jen.Dict{
			jen.Lit("error"): jen.Err().Dot("Error").Call(),
		})),
	)

	f.Comment("parseID parses the identifier of the request path.")
	f.Func().Params(recv).Id("parseID").Params(jen.Id("s").String()).Parens(jen.List(h.IDType(t), jen.Error())).Block(
		parseID(t.ID)...,
	)
	return source(t, Controller, gen.KindBase, f, "base", "controller", "base", fileName("base_", t, "_controller"))
}

// genControllerImpl generates controller/{entity}_controller.go. The file
// is written once and owned by the user afterwards.
func genControllerImpl(h gen.GeneratorHelper, t *gen.Type) *gen.Artifact {
	name, base := t.ControllerName(), t.BaseControllerName()
	f := h.NewFile(t.ImportPath("controller"), "controller", gen.KindExtensible)

	f.Commentf("%s is the route of %s. It differs from the primary route so that", t.DefaultRouteName(), name)
	f.Comment("a hand-written controller can take the primary one.")
	f.Const().Id(t.DefaultRouteName()).Op("=").Lit(t.DefaultRoute())

	f.Commentf("%s is the %s controller of the application.", name, t.Name)
	f.Comment("Add custom endpoints here. This file is not regenerated.")
	f.Type().Id(name).Struct(
		jen.Op("*").Qual(controllerBasePkg(t), base),
	)

	f.Commentf("New%s returns a %s serving svc.", name, name)
	f.Func().Id("New"+name).Params(jen.Id("svc").Qual(servicePkg(t), t.ServiceName())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{
			jen.Id(base): jen.Qual(controllerBasePkg(t), "New"+base).Call(jen.Id("svc")),
		})),
	)

	f.Commentf("Register mounts the controller at %s.", t.DefaultRouteName())
	f.Func().Params(jen.Id("ctrl").Op("*").Id(name)).Id("Register").Params(jen.Id("r").Qual(ginPkg, "IRouter")).Block(
		jen.Id("ctrl").Dot(base).Dot("Register").Call(jen.Id("r"), jen.Id(t.DefaultRouteName())),
	)
	return source(t, Controller, gen.KindExtensible, f, "controller", "controller", fileName("", t, "_controller"))
}

func abortOnError() jen.Code {
	return jen.If(jen.Err().Op("!=").Nil()).Block(
		jen.Id("ctrl").Dot("abort").Call(jen.Id("c"), jen.Err()),
		jen.Return(),
	)
}

func badRequest() jen.Code {
	return jen.Id("c").Dot("AbortWithStatusJSON").Call(jen.Qual("net/http", "StatusBadRequest"), jen.Qual(ginPkg, "H").Values(jen.Dict{
		jen.Lit("error"): jen.Err().Dot("Error").Call(),
	}))
}

func parseParam() jen.Code {
	return jen.Add(
		jen.List(jen.Id("id"), jen.Err()).Op(":=").Id("ctrl").Dot("parseID").Call(jen.Id("c").Dot("Param").Call(jen.Lit("id"))),
		jen.Line(),
		jen.If(jen.Err().Op("!=").Nil()).Block(badRequest(), jen.Return()),
	)
}

func bindBody(t *gen.Type) jen.Code {
	return jen.Add(
		jen.Var().Id("entity").Qual(entityPkg(t), t.Name),
		jen.Line(),
		jen.If(jen.Err().Op(":=").Id("c").Dot("ShouldBindJSON").Call(jen.Op("&").Id("entity")), jen.Err().Op("!=").Nil()).Block(badRequest(), jen.Return()),
	)
}

// parseID returns the body parsing s into the identifier type of f.
func parseID(f *gen.Field) []jen.Code {
	s := jen.Id("s")
	narrow := func(fn string, bits int, conv string) []jen.Code {
		args := []jen.Code{s}
		if fn != "ParseFloat" {
			args = append(args, jen.Lit(10))
		}
		args = append(args, jen.Lit(bits))
		return []jen.Code{
			jen.List(jen.Id("v"), jen.Err()).Op(":=").Qual("strconv", fn).Call(args...),
			jen.Return(jen.Id(conv).Call(jen.Id("v")), jen.Err()),
		}
	}
	timeParse := func(layout string) []jen.Code {
		return []jen.Code{jen.Return(jen.Qual("time", "Parse").Call(jen.Lit(layout), s))}
	}
	switch t := f.Type.Type; {
	case f.Type.Fallback, t == field.TypeString:
		return []jen.Code{jen.Return(s, jen.Nil())}
	case t == field.TypeLong:
		return []jen.Code{jen.Return(jen.Qual("strconv", "ParseInt").Call(s, jen.Lit(10), jen.Lit(64)))}
	case t == field.TypeInteger:
		return narrow("ParseInt", 32, "int32")
	case t == field.TypeShort:
		return narrow("ParseInt", 16, "int16")
	case t == field.TypeByte:
		return narrow("ParseInt", 8, "int8")
	case t == field.TypeDouble:
		return []jen.Code{jen.Return(jen.Qual("strconv", "ParseFloat").Call(s, jen.Lit(64)))}
	case t == field.TypeFloat:
		return narrow("ParseFloat", 32, "float32")
	case t == field.TypeBigDecimal:
		return []jen.Code{jen.Return(jen.Qual(field.DecimalPkg, "NewFromString").Call(s))}
	case t == field.TypeBoolean:
		return []jen.Code{jen.Return(jen.Qual("strconv", "ParseBool").Call(s))}
	case t == field.TypeUUID:
		return []jen.Code{jen.Return(jen.Qual(field.UUIDPkg, "Parse").Call(s))}
	case t == field.TypeLocalDate:
		return timeParse(dateLayout)
	case t == field.TypeLocalDateTime:
		return timeParse(dateTimeLayout)
	case t == field.TypeLocalTime:
		return timeParse(timeLayout)
	default:
		return []jen.Code{jen.Return(s, jen.Nil())}
	}
}
