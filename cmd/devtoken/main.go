package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wayfarelabs/travel-planner-api/internal/domain"
	platformclock "github.com/wayfarelabs/travel-planner-api/internal/platform/clock"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/token"
)

// Dev-only token minter. It signs access/refresh tokens with the same
// JWT_SECRET the API uses, so local curl sessions can skip the login flow.
//
//	JWT_SECRET=dev-secret go run ./cmd/devtoken -sub u1 -email a@example.com
func main() {
	sub := flag.String("sub", "", "user id to put in the token subject (required)")
	email := flag.String("email", "", "email claim for the access token")
	kind := flag.String("kind", "access", "token kind: access or refresh")
	flag.Parse()

	if *sub == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadAuthConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid auth config: %v", err)
	}
	tokens := token.NewService(cfg, platformclock.NewSystemClock())

	var signed string
	switch *kind {
	case "access":
		signed, err = tokens.IssueAccess(domain.UserID(*sub), *email)
	case "refresh":
		signed, err = tokens.IssueRefresh(domain.UserID(*sub))
	default:
		log.Fatalf("unknown kind %q (want access or refresh)", *kind)
	}
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(signed)
}
