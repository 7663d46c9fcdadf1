package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LacErnest/dj-assesment-api/internal/domain"
	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
)

func seedItem(t *testing.T, repo *MenuItemRepository, id, name string, parentID *string, depth int, at time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), &models.MenuItem{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		Depth:     depth,
		CreatedAt: at,
		UpdatedAt: at,
	})
	require.NoError(t, err)
}

func seedChain(t *testing.T) (*Store, *MenuItemRepository) {
	t.Helper()
	store := NewStore()
	repo := NewMenuItemRepository(store).(*MenuItemRepository)

	base := time.Now()
	a := "a"
	b := "b"
	seedItem(t, repo, "a", "A", nil, 0, base)
	seedItem(t, repo, "b", "B", &a, 1, base.Add(time.Second))
	seedItem(t, repo, "c", "C", &b, 2, base.Add(2*time.Second))

	return store, repo
}

func TestTransactionRollback(t *testing.T) {
	store, repo := seedChain(t)
	tm := NewTransactionManager(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := repo.DeleteSubtree(ctx, "a"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Snapshot restored: nothing was deleted
	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.GetByID(ctx, id)
		require.NoError(t, err, "item %s should survive rollback", id)
	}
}

func TestTransactionCommit(t *testing.T) {
	store, repo := seedChain(t)
	tm := NewTransactionManager(store)
	ctx := context.Background()

	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		if err := repo.LockHierarchy(ctx); err != nil {
			return err
		}
		_, err := repo.DeleteSubtree(ctx, "b")
		return err
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByID(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByID(ctx, "a")
	assert.NoError(t, err)
}

func TestLockHierarchyOutsideTransaction(t *testing.T) {
	_, repo := seedChain(t)
	assert.Error(t, repo.LockHierarchy(context.Background()))
}

func TestListChildrenOrderingAndPaging(t *testing.T) {
	store := NewStore()
	repo := NewMenuItemRepository(store).(*MenuItemRepository)
	ctx := context.Background()

	base := time.Now()
	root := "root"
	seedItem(t, repo, "root", "Root", nil, 0, base)
	seedItem(t, repo, "c3", "Third", &root, 1, base.Add(3*time.Second))
	seedItem(t, repo, "c1", "First", &root, 1, base.Add(time.Second))
	seedItem(t, repo, "c2", "Second", &root, 1, base.Add(2*time.Second))

	children, err := repo.ListChildren(ctx, &root, 0, 0)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "First", children[0].Name)
	assert.Equal(t, "Second", children[1].Name)
	assert.Equal(t, "Third", children[2].Name)

	page, err := repo.ListChildren(ctx, &root, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Third", page[0].Name)

	empty, err := repo.ListChildren(ctx, &root, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListSubtreeMaxDepthAndCancellation(t *testing.T) {
	_, repo := seedChain(t)
	ctx := context.Background()

	all, err := repo.ListSubtree(ctx, "a", -1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "c", all[1].ID)

	bounded, err := repo.ListSubtree(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, "b", bounded[0].ID)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.ListSubtree(canceled, "a", -1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShiftSubtreeDepth(t *testing.T) {
	_, repo := seedChain(t)
	ctx := context.Background()

	require.NoError(t, repo.ShiftSubtreeDepth(ctx, "b", 3))

	b, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 4, b.Depth)

	c, err := repo.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Depth)

	a, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Depth)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	_, repo := seedChain(t)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", second.Name)
}

func TestCreateMissingParent(t *testing.T) {
	store := NewStore()
	repo := NewMenuItemRepository(store).(*MenuItemRepository)

	missing := "nope"
	err := repo.Create(context.Background(), &models.MenuItem{
		ID:       "x",
		Name:     "X",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
