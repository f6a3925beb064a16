package photorepo

import (
	"testing"

	"github.com/wayfarelabs/travel-planner-api/internal/adapters/contracttest"
	"github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres/testutil"
	photorepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

func TestContract_PostgresPhotoRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunPhotoRepo(t, func(t *testing.T) (photorepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
