// Copyright (c) the ML CTF platform contributors.
// Licensed under the MIT License.

package cmd

import (
	"encoding/json"
	"fmt"
)

func ReportResult(result interface{}) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Println(string(jsonData))
	return nil
}
