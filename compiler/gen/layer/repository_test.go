package layer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/compiler/gen"
)

func TestGenRepository(t *testing.T) {
	artifacts := generate(t, genRepository, userSchema())
	require.Len(t, artifacts, 1)
	a := artifacts[0]
	assert.Equal(t, "com/example/demo/repository/user_repository.go", filepath.ToSlash(a.Path))
	assert.Equal(t, gen.KindBase, a.Kind)
	assert.Equal(t, "repository", a.Package)

	code := a.Source.GoString()
	for _, want := range []string{
		"package repository",
		`"example.com/app/com/example/demo"`,
		`"gorm.io/gorm"`,
		`var ErrUserNotFound = errors.New("user not found")`,
		"type UserRepository interface {",
		"FindAll(ctx context.Context) ([]*demo.User, error)",
		"FindByID(ctx context.Context, id int64) (*demo.User, error)",
		"ExistsByID(ctx context.Context, id int64) (bool, error)",
		"Save(ctx context.Context, entity *demo.User) (*demo.User, error)",
		"DeleteByID(ctx context.Context, id int64) error",
		"FindByUsername(ctx context.Context, username string) (*demo.User, error)",
		"ExistsByEmail(ctx context.Context, email string) (bool, error)",
		"FindAllByActive(ctx context.Context, active bool) ([]*demo.User, error)",
		"type userRepository struct {",
		"func NewUserRepository(db *gorm.DB) UserRepository {",
		"db: db",
		`r.db.WithContext(ctx).Where("id = ?", id).Take(&entity).Error`,
		"errors.Is(err, gorm.ErrRecordNotFound)",
		"return nil, ErrUserNotFound",
		`Where("email = ?", email).Count(&n).Error`,
		`r.db.WithContext(ctx).Where("active = ?", active).Find(&entities).Error`,
		"r.db.WithContext(ctx).Save(entity).Error",
		`r.db.WithContext(ctx).Where("id = ?", id).Delete(&demo.User{}).Error`,
	} {
		assert.Contains(t, code, want)
	}
}

func TestGenRepository_NoConventionalFields(t *testing.T) {
	code := generate(t, genRepository, productSchema())[0].Source.GoString()
	assert.Contains(t, code, "FindByID(ctx context.Context, id uuid.UUID) (*demo.Product, error)")
	assert.Contains(t, code, `Where("sku = ?", id)`)
	assert.NotContains(t, code, "FindByEmail")
	assert.NotContains(t, code, "FindAllByActive")
}

func TestGenRepository_ActiveNotBoolean(t *testing.T) {
	s := userSchema()
	s.Fields[3].Type = "String"
	code := generate(t, genRepository, s)[0].Source.GoString()
	assert.NotContains(t, code, "FindAllByActive")
}
