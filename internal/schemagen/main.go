// Command schemagen writes the JSON schemas of netsense files, using Go doc
// comments as descriptions. Run it from the module root.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/yaml"
)

const modulePath = "github.com/macropower/netsense"

var (
	kind    = flag.String("kind", "network", `Schema to generate: "network" or "config"`)
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
	srcDir  = flag.String("src", ".", "Module root to read doc comments from")
)

func main() {
	flag.Parse()

	var v any

	switch *kind {
	case "network":
		v = definition.New()
	case "config":
		v = configs.New()
	default:
		log.Fatalf("unknown schema kind %q", *kind)
	}

	gen := yaml.NewSchemaGenerator(v, yaml.WithGoComments(modulePath, *srcDir))

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
