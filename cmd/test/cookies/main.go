package main

import (
	"fmt"
	"log"
	"os"

	"go-leadscout/internal/browser"
)

func main() {
	path := "cookies.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	fmt.Printf("🍪 Validating cookie file %s...\n", path)

	cookies, err := browser.LoadCookies(path)
	if err != nil {
		log.Fatalf("Failed to load cookies: %v", err)
	}

	fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

	if len(cookies) > 0 {
		c := cookies[0]
		fmt.Printf("\nExample cookie:\n")
		fmt.Printf("Name: %s\n", c.Name)
		fmt.Printf("Domain: %s\n", *c.Domain)
		fmt.Printf("Path: %s\n", *c.Path)
	}
}
