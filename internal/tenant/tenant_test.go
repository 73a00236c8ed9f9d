package tenant_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Delandiluca/finly/internal/tenant"
	"github.com/stretchr/testify/assert"
)

func TestFromContextAbsent(t *testing.T) {
	_, ok := tenant.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = tenant.OrganizationID(context.Background())
	assert.False(t, ok)

	_, ok = tenant.UserID(context.Background())
	assert.False(t, ok)
}

func TestNewContextCarriesScope(t *testing.T) {
	ctx := tenant.NewContext(context.Background(), tenant.Scope{
		OrganizationID: "org-1",
		UserID:         "user-1",
	})

	scope, ok := tenant.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "org-1", scope.OrganizationID)
	assert.Equal(t, "user-1", scope.UserID)

	orgID, ok := tenant.OrganizationID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "org-1", orgID)
}

func TestUserIDOptional(t *testing.T) {
	ctx := tenant.NewContext(context.Background(), tenant.Scope{OrganizationID: "org-1"})

	_, ok := tenant.UserID(ctx)
	assert.False(t, ok, "empty user id should read as absent")

	orgID, ok := tenant.OrganizationID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "org-1", orgID)
}

func TestNestingInnermostWins(t *testing.T) {
	outer := tenant.NewContext(context.Background(), tenant.Scope{OrganizationID: "org-outer"})
	inner := tenant.NewContext(outer, tenant.Scope{OrganizationID: "org-inner"})

	orgID, _ := tenant.OrganizationID(inner)
	assert.Equal(t, "org-inner", orgID)

	// The outer context is untouched by the nested binding
	orgID, _ = tenant.OrganizationID(outer)
	assert.Equal(t, "org-outer", orgID)
}

func TestNoLeakAcrossGoroutines(t *testing.T) {
	const numGoroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			want := tenant.Scope{OrganizationID: "org", UserID: string(rune('a' + n%26))}
			ctx := tenant.NewContext(context.Background(), want)

			got, ok := tenant.FromContext(ctx)
			assert.True(t, ok)
			assert.Equal(t, want, got, "scope must stay bound to its own operation")
		}(i)
	}
	wg.Wait()
}

func TestViolationError(t *testing.T) {
	err := tenant.NewViolation("accounts")
	assert.True(t, tenant.IsViolation(err))
	assert.Contains(t, err.Error(), "accounts")
	assert.Contains(t, err.Error(), "tenant.NewContext")

	assert.False(t, tenant.IsViolation(context.Canceled))
	assert.False(t, tenant.IsViolation(nil))
}
