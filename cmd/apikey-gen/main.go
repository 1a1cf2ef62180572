package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"clickpulse.backend/pkg/crypto"
)

// apikey-gen mints raw ingest credentials together with the hash and
// display prefix the database stores. Useful for seeding environments
// without going through the dashboard API.
func main() {
	count := flag.Int("n", 1, "number of keys to generate")
	flag.Parse()

	if err := run(*count, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(count int, out io.Writer) error {
	if count <= 0 {
		return fmt.Errorf("invalid n: %d (must be positive)", count)
	}

	for i := 0; i < count; i++ {
		rawKey, err := crypto.GenerateAPIKey()
		if err != nil {
			return fmt.Errorf("failed to generate api key: %w", err)
		}

		fmt.Fprintf(out, "API_KEY=%s\n", rawKey)
		fmt.Fprintf(out, "KEY_HASH=%s\n", crypto.HashKey(rawKey))
		fmt.Fprintf(out, "KEY_PREFIX=%s\n", crypto.DisplayPrefix(rawKey))
		if i < count-1 {
			fmt.Fprintln(out)
		}
	}
	return nil
}
