// Command hashpw prints an Argon2id hash for GALLERY_ADMIN_PASSWORD_HASH.
// The password is read from stdin so it stays out of shell history.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/daghlis/gallery-backend/pkg/config"
	"github.com/daghlis/gallery-backend/pkg/security"
)

func main() {
	var cfg config.PasswordConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parsing password config: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "reading password: %v\n", err)
		os.Exit(1)
	}
	password := strings.TrimRight(line, "\r\n")

	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
