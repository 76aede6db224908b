// One-off: go run scripts/genhash.go <password>
//
// Prints a bcrypt hash for seeding accounts by hand, e.g.
//
//	INSERT INTO users (name, email, password_hash)
//	VALUES ('Admin', 'admin@example.com', '<hash>');
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "changeme"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "genhash:", err)
		os.Exit(1)
	}
	fmt.Println(string(h))
}
