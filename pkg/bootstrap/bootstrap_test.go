package bootstrap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/bootstrap"
	"github.com/kushi-labs/kushi/pkg/credentials"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/theme"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	page, err := bootstrap.Load(context.Background(), kv.NewMemoryStore())
	require.NoError(t, err)
	assert.Equal(t, bootstrap.Page{
		Appearance: bootstrap.Appearance{Theme: theme.Light, RootClass: "", ToggleIcon: "🌙"},
	}, page)
}

func TestLoad_StoredValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	durable := kv.NewMemoryStore()
	require.NoError(t, durable.Set(ctx, "theme", "dark"))
	require.NoError(t, durable.Set(ctx, "email", "a@x.com"))

	page, err := bootstrap.Load(ctx, durable)
	require.NoError(t, err)
	assert.Equal(t, "dark-theme", page.Appearance.RootClass)
	assert.Equal(t, "☀️", page.Appearance.ToggleIcon)
	assert.Equal(t, "a@x.com", page.RememberedEmail)
}

func TestToggleTheme_TwiceRestoresPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	durable := kv.NewMemoryStore()

	before, err := bootstrap.Load(ctx, durable)
	require.NoError(t, err)

	first, err := bootstrap.ToggleTheme(ctx, durable)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, first.Theme)
	assert.Equal(t, "dark-theme", first.RootClass)

	second, err := bootstrap.ToggleTheme(ctx, durable)
	require.NoError(t, err)
	assert.Equal(t, before.Appearance, second)

	after, err := bootstrap.Load(ctx, durable)
	require.NoError(t, err)
	assert.Equal(t, before.Appearance, after.Appearance)

	stored, err := durable.Get(ctx, theme.Key)
	require.NoError(t, err)
	assert.Equal(t, first.Theme.Opposite().String(), stored)
}

func TestRememberMe_PrefillsNextPageLoad(t *testing.T) {
	t.Parallel()

	for _, remember := range []bool{true, false} {
		ctx := context.Background()
		creds := credentials.New(kv.NewMemoryStore())
		svc := auth.NewService(creds, auth.WithBcryptCost(bcrypt.MinCost))
		require.NoError(t, svc.Register(ctx, auth.RegisterInput{
			Email: "a@x.com", Password: "secret12", ConfirmPassword: "secret12",
		}))

		durable := kv.NewMemoryStore()
		_, err := svc.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "secret12", Remember: remember}, kv.NewMemoryStore(), durable)
		require.NoError(t, err)

		page, err := bootstrap.Load(ctx, durable)
		require.NoError(t, err)
		if remember {
			assert.Equal(t, "a@x.com", page.RememberedEmail)
		} else {
			assert.Empty(t, page.RememberedEmail)
		}
	}
}

type failingStore struct{ kv.Store }

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("unavailable")
}

func TestLoad_StorageErrorFallsBackToDefault(t *testing.T) {
	t.Parallel()

	page, err := bootstrap.Load(context.Background(), failingStore{})
	require.Error(t, err)
	assert.Equal(t, theme.Light, page.Appearance.Theme)
}
