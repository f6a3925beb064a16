package userrepo

import (
	"testing"

	"github.com/wayfarelabs/travel-planner-api/internal/adapters/contracttest"
	"github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo/testutil"
	userrepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

func TestContract_MongoUserRepo(t *testing.T) {
	db := testutil.OpenIndexedDatabase(t)

	contracttest.RunUserRepo(t, func(t *testing.T) (userrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(db), nil
	})
}
