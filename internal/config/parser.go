package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseDefinition loads a runbook definition from disk, validates it, and returns the resulting model.
func ParseDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rberrors.NewParseError(path, 0, err)
	}
	return ParseDefinitionBytes(path, data)
}

// ParseDefinitionBytes decodes and validates a definition held in memory.
// Unknown keys are rejected so typos surface early.
func ParseDefinitionBytes(path string, data []byte) (*Definition, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var def Definition
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, rberrors.NewParseError(path, 0, errors.New("definition is empty"))
		}
		return nil, rberrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateDefinition(&def); err != nil {
		return nil, err
	}

	return &def, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
