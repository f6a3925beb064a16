package photorepo

import (
	"testing"

	"github.com/wayfarelabs/travel-planner-api/internal/adapters/contracttest"
	photorepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
)

func TestContract_PhotoRepo(t *testing.T) {
	contracttest.RunPhotoRepo(t, func(t *testing.T) (photorepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
