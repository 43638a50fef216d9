//go:build integration

package repo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Skotchmaster/qr_cart/internal/repo"
	"github.com/Skotchmaster/qr_cart/internal/repo/repotest"
	"github.com/Skotchmaster/qr_cart/internal/service"
	"github.com/Skotchmaster/qr_cart/pkg/db"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	ctr, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("cart"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}
	return ctr, connStr, nil
}

func TestPostgres_ConcurrentAddsKeepStockConsistent(t *testing.T) {
	ctx := context.Background()

	ctr, dsn, err := startPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	gdb, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, repo.Migrate(gdb))

	r := &repo.GormRepo{DB: gdb}
	svc := &service.CartService{Repo: r}
	p := repotest.SeedProduct(t, r, 10)

	const adds = 6
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddToCart(ctx, p.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("add to cart: %v", err)
	}

	item, err := r.FindCartItemByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(adds), item.Count)
	assert.Equal(t, 10-adds, repotest.Stock(t, r, p.ID))

	_, err = svc.DeleteFromCart(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, repotest.Stock(t, r, p.ID))
}
