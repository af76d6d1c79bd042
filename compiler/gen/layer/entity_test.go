package layer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/compiler/gen"
)

func TestGenEntity(t *testing.T) {
	artifacts := generate(t, genEntity, userSchema())
	require.Len(t, artifacts, 1)
	a := artifacts[0]
	assert.Equal(t, "com/example/demo/user.go", filepath.ToSlash(a.Path))
	assert.Equal(t, gen.RootMain, a.Root)
	assert.Equal(t, gen.KindBase, a.Kind)
	assert.Equal(t, "demo", a.Package)

	code := a.Source.GoString()
	for _, want := range []string{
		gen.BaseHeader,
		"package demo",
		"type User struct {",
		"`gorm:\"column:id;primaryKey;autoIncrement;not null\" json:\"id\"`",
		"`gorm:\"column:username;size:50\" json:\"username\"`",
		"func (User) TableName() string {",
		`return "users"`,
		"func (u *User) GetID() int64 {",
		"func (u *User) SetUsername(v string) {",
		"u.Username = v",
		"func (u *User) GetActive() bool {",
		"return false",
		"func (u *User) Equal(other *User) bool {",
		"return u == other",
		"u.ID == other.ID &&",
		"u.Active == other.Active",
		"func (u *User) Hash() uint64 {",
		"hasher := fnv.New64a()",
		`fmt.Fprintf(hasher, "%v\x00", u.Email)`,
		"return hasher.Sum64()",
		"func (u *User) String() string {",
		`return "User(nil)"`,
		`return fmt.Sprintf("User{id=%v, username=%v, email=%v, active=%v}", u.ID, u.Username, u.Email, u.Active)`,
	} {
		assert.Contains(t, code, want)
	}
}

func TestGenEntity_ValueTypes(t *testing.T) {
	code := generate(t, genEntity, productSchema())[0].Source.GoString()
	for _, want := range []string{
		`"github.com/google/uuid"`,
		`"github.com/shopspring/decimal"`,
		"func (Product) TableName() string {",
		`return "catalog_products"`,
		"`gorm:\"column:sku;primaryKey;not null\" json:\"sku\"`",
		"`gorm:\"column:created_at;default:CURRENT_TIMESTAMP\" json:\"createdAt\"`",
		"return uuid.Nil",
		"return decimal.Decimal{}",
		"return time.Time{}",
		"p.Price.Equal(other.Price)",
		"p.CreatedAt.Equal(other.CreatedAt)",
		`fmt.Fprintf(hasher, "%v\x00", p.Price.String())`,
		`fmt.Fprintf(hasher, "%v\x00", p.CreatedAt.UnixNano())`,
		`fmt.Fprintf(hasher, "%v\x00", p.Weight+0)`,
	} {
		assert.Contains(t, code, want)
	}
	assert.NotContains(t, code, "autoIncrement")
}

func TestGenEntity_CompositeID(t *testing.T) {
	code := generate(t, genEntity, orderLineSchema())[0].Source.GoString()
	assert.Contains(t, code, "package shop")
	assert.Contains(t, code, "func (ol *OrderLine) GetOrderID() int64 {")
	assert.Contains(t, code, "func (ol *OrderLine) GetLineNo() int32 {")
	assert.Contains(t, code, "`gorm:\"column:line_no;primaryKey;not null\" json:\"lineNo\"`")
	assert.NotContains(t, code, "autoIncrement")
}

func TestGenEntity_Header(t *testing.T) {
	g := testGraph(t, []gen.Option{gen.WithHeader("// Code generated by make gen. DO NOT EDIT.")}, userSchema())
	artifacts, err := genEntity(newMockHelper(g), g.Nodes[0])
	require.NoError(t, err)
	assert.Contains(t, artifacts[0].Source.GoString(), "// Code generated by make gen. DO NOT EDIT.")
}
