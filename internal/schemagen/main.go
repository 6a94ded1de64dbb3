package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/kbatch/api/v1beta1/configs"
	"github.com/macropower/kbatch/pkg/yaml"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(configs.New(), "github.com/macropower/kbatch",
		"./api/v1beta1",
		"./api/v1beta1/configs",
		"./pkg/execs",
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
