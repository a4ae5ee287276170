// token-gen mints a signed bearer token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bookora/bookora/internal/auth"
	"github.com/bookora/bookora/internal/model"
)

func main() {
	var (
		userID = flag.String("user", getenv("TOKEN_USER_ID", ""), "subject user id")
		role   = flag.String("role", getenv("TOKEN_ROLE", "CLIENT"), "role: CLIENT, PROVIDER or ADMIN")
		secret = flag.String("secret", getenv("JWT_SECRET", "dev-secret"), "signing secret")
		ttl    = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if strings.TrimSpace(*userID) == "" {
		fatal("user id is required")
	}
	r := model.Role(strings.ToUpper(strings.TrimSpace(*role)))
	if !r.Valid() {
		fatal("role must be CLIENT, PROVIDER or ADMIN")
	}

	token, err := auth.NewVerifier(*secret).Sign(*userID, r, *ttl)
	if err != nil {
		fatal(err.Error())
	}
	fmt.Println(token)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
