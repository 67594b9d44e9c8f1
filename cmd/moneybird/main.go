// Command moneybird is a small example client. It authenticates with a
// personal API token from the environment and prints the administrations
// the token has access to.
//
// Environment:
//
//	MONEYBIRD_TOKEN      personal API token (required)
//	MONEYBIRD_LOG_LEVEL  debug, info, warn or error (default info)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aussiebroadwan/moneybird/pkg/moneybird"
	"github.com/aussiebroadwan/moneybird/pkg/slogx"
)

func main() {
	token := os.Getenv("MONEYBIRD_TOKEN")
	if token == "" {
		log.Fatal("MONEYBIRD_TOKEN is not set")
	}

	logger := slogx.New(slogx.Config{
		Service: "moneybird-example",
		Version: moneybird.Version,
		Level:   os.Getenv("MONEYBIRD_LOG_LEVEL"),
		Format:  "text",
	})

	client := moneybird.New(
		moneybird.NewTokenAuthentication(token),
		moneybird.WithLogger(logger),
	)

	raw, err := client.Get(context.Background(), "administrations", moneybird.NoAdministration)
	if err != nil {
		log.Fatalf("failed to list administrations: %v", err)
	}

	var pretty json.RawMessage = raw
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		log.Fatalf("failed to format response: %v", err)
	}

	fmt.Println(string(out))
}
