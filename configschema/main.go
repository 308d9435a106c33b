// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/invopop/jsonschema"

	"github.com/mlctf/platform/tools/ctfenv/utils"
)

func main() {
	var reflector jsonschema.Reflector
	reflector.RequiredFromJSONSchemaTags = true
	schema := reflector.Reflect(&utils.EnvConfig{})
	content, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema to JSON")
	}

	fmt.Printf("%s\n", content)
}
