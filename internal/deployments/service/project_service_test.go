package service

import (
	"context"
	"testing"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/dappforge/dappforge-backend/internal/deployments/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_ListByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, owner := range []string{"0xABC", "0xabc", "0xABC"} {
		req := tokenRequest()
		req.OwnerAddress = owner
		_, err := f.deploy.Deploy(ctx, req)
		require.NoError(t, err)
	}

	projects, err := f.projects.ListByOwner(ctx, "0xABC")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, int64(1), projects[0].ID)
	assert.Equal(t, int64(3), projects[1].ID)

	none, err := f.projects.ListByOwner(ctx, "0xFFF")
	require.NoError(t, err)
	assert.Empty(t, none)

	for _, owner := range []string{"", " "} {
		blank, err := f.projects.ListByOwner(ctx, owner)
		require.NoError(t, err, "owner %q", owner)
		assert.NotNil(t, blank)
		assert.Empty(t, blank)
	}
}

func TestProjectService_ListByOwner_UnvalidatedOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Deploys only require a non-blank owner; reads match whatever was stored.
	req := tokenRequest()
	req.OwnerAddress = " 0xABC"
	_, err := f.deploy.Deploy(ctx, req)
	require.NoError(t, err)

	projects, err := f.projects.ListByOwner(ctx, " 0xABC")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, " 0xABC", projects[0].OwnerAddress)
}

func TestProjectService_GetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.deploy.Deploy(ctx, tokenRequest())
	require.NoError(t, err)

	p, err := f.projects.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Coin", p.Name)

	_, err = f.projects.GetByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectService_ExportFrontend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.deploy.Deploy(ctx, tokenRequest())
	require.NoError(t, err)
	_, err = f.deploy.Deploy(ctx, domain.DeployRequest{
		Type:         domain.TypeStaking,
		OwnerAddress: "0xABC",
		Fields:       domain.Fields{"tokenModuleAddress": "0xBEEF"},
	})
	require.NoError(t, err)

	file, err := f.projects.ExportFrontend(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "TokenComponent.jsx", file.Name)
	assert.Contains(t, string(file.Content), "0xABC")
	assert.NotContains(t, string(file.Content), "{{")

	_, err = f.projects.ExportFrontend(ctx, 2)
	var unknown *domain.UnknownTypeError
	assert.ErrorAs(t, err, &unknown)

	_, err = f.projects.ExportFrontend(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectService_FollowWithoutRedis(t *testing.T) {
	svc := NewProjectService(&memoryLedger{}, nil, nil)

	_, _, err := svc.Follow(context.Background(), "0xABC")
	assert.ErrorIs(t, err, events.ErrStreamingDisabled)
}
