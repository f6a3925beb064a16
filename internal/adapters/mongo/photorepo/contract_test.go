package photorepo

import (
	"testing"

	"github.com/wayfarelabs/travel-planner-api/internal/adapters/contracttest"
	"github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo/testutil"
	photorepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

func TestContract_MongoPhotoRepo(t *testing.T) {
	db := testutil.OpenIndexedDatabase(t)

	contracttest.RunPhotoRepo(t, func(t *testing.T) (photorepoport.Repository, func()) {
		t.Helper()
		return NewRepo(db), nil
	})
}
