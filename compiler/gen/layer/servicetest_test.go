package layer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/compiler/gen"
)

func TestGenServiceTest(t *testing.T) {
	artifacts := generate(t, genServiceTest, userSchema())
	require.Len(t, artifacts, 1)
	a := artifacts[0]
	assert.Equal(t, "com/example/demo/service/base/base_user_service_impl_test.go", filepath.ToSlash(a.Path))
	assert.Equal(t, gen.RootTest, a.Root)
	assert.Equal(t, gen.KindExtensible, a.Kind)

	code := a.Source.GoString()
	for _, want := range []string{
		"package base_test",
		`"github.com/stretchr/testify/assert"`,
		`"github.com/stretchr/testify/require"`,
		"type memoryUserRepository struct {",
		"func newMemoryUserRepository() *memoryUserRepository {",
		"func (m *memoryUserRepository) FindByUsername(_ context.Context, username string) (*demo.User, error) {",
		"func (m *memoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {",
		"func (m *memoryUserRepository) FindAllByActive(_ context.Context, active bool) ([]*demo.User, error) {",
		"var _ repository.UserRepository = (*memoryUserRepository)(nil)",
		"func TestBaseUserServiceImpl(t *testing.T) {",
		"svc := base.NewBaseUserServiceImpl(newMemoryUserRepository())",
		"entity.SetID(int64(1))",
		`value := "username-1"`,
		"assert.Equal(t, value, updated.GetUsername())",
		"assert.ErrorIs(t, err, repository.ErrUserNotFound)",
	} {
		assert.Contains(t, code, want)
	}
}

func TestGenServiceTest_ValueTypes(t *testing.T) {
	code := generate(t, genServiceTest, productSchema())[0].Source.GoString()
	assert.Contains(t, code, "entity.SetSKU(uuid.New())")
	assert.Contains(t, code, "value := decimal.NewFromInt(1)")
	assert.NotContains(t, code, "FindAllByActive")
}
