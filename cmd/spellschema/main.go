// Command spellschema emits a JSON Schema for the spell catalog format so
// designers editing spell tiers get editor validation. Writes to stdout by
// default, or to the file named by -out.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"waterball/internal/game"
)

func main() {
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(&game.SpellBook{})
	schema.Title = "Waterball Spell Catalog"
	schema.Description = "Validates the quick/charged spell tier definitions"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("marshal schema: %v", err)
	}
	data = append(data, '\n')

	if *out == "" {
		fmt.Print(string(data))
		return
	}

	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("📜 Spell schema written to %s", *out)
}
