// Command admintoken prints a bearer token accepted by the product write
// routes. It signs with JWT_SECRET, read the same way the server reads it.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/Skotchmaster/jsonshop/internal/config"
	"github.com/Skotchmaster/jsonshop/internal/tokens"
)

func main() {
	subject := flag.StringP("sub", "s", "operator", "token subject")
	ttl := flag.DurationP("ttl", "t", time.Hour, "token lifetime")
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	cfg := config.Load(*envFile)
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	token, err := tokens.SignAccessToken(*subject, tokens.RoleAdmin, *ttl, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}
