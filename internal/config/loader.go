package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidationError represents a test script validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// rawBlock is one object block of a test script before validation.
// Pointer fields distinguish "absent" from "empty".
type rawBlock struct {
	Prompt   *string `json:"prompt" yaml:"prompt"`
	Response *string `json:"response" yaml:"response"`
	Timeout  *int    `json:"timeout" yaml:"timeout"`
}

// entry is a script block paired with its key, in declaration order.
type entry struct {
	key   string
	block rawBlock
}

// Load reads and validates a test script file. The format is chosen by
// extension: .yaml/.yml parse as YAML, anything else as JSON (the original
// script format). User-defined blocks keep their declaration order.
func Load(path string) (*TestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var entries []entry
	var idleTimeout *int

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, idleTimeout, err = parseYAML(data)
	default:
		entries, idleTimeout, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse script file: %w", err)
	}

	return assemble(entries, idleTimeout)
}

// parseJSON walks the top-level object with a json.Decoder so that block
// order is observed. A plain map unmarshal would shuffle the user prompts
// and with them the matching priority.
func parseJSON(data []byte) ([]entry, *int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("script must be a JSON object")
	}

	var entries []entry
	var idleTimeout *int

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v, want object key", tok)
		}

		if key == "timeout" {
			if idleTimeout != nil {
				return nil, nil, ValidationError{Field: "timeout", Message: "duplicate field"}
			}
			var n json.Number
			if err := dec.Decode(&n); err != nil {
				return nil, nil, fmt.Errorf("field %q: %w", key, err)
			}
			v, err := n.Int64()
			if err != nil {
				return nil, nil, fmt.Errorf("field %q: must be an integer", key)
			}
			iv := int(v)
			idleTimeout = &iv
			continue
		}

		var blk rawBlock
		if err := dec.Decode(&blk); err != nil {
			return nil, nil, fmt.Errorf("block %q: %w", key, err)
		}
		entries = append(entries, entry{key: key, block: blk})
	}

	return entries, idleTimeout, nil
}

// parseYAML walks the document mapping node to preserve block order,
// mirroring parseJSON.
func parseYAML(data []byte) ([]entry, *int, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("script is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("script must be a mapping")
	}

	var entries []entry
	var idleTimeout *int

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value

		if key == "timeout" {
			if idleTimeout != nil {
				return nil, nil, ValidationError{Field: "timeout", Message: "duplicate field"}
			}
			var iv int
			if err := valNode.Decode(&iv); err != nil {
				return nil, nil, fmt.Errorf("field %q: must be an integer", key)
			}
			idleTimeout = &iv
			continue
		}

		var blk rawBlock
		if err := valNode.Decode(&blk); err != nil {
			return nil, nil, fmt.Errorf("block %q: %w", key, err)
		}
		entries = append(entries, entry{key: key, block: blk})
	}

	return entries, idleTimeout, nil
}

// assemble validates the parsed blocks and builds the TestConfig.
func assemble(entries []entry, idleTimeout *int) (*TestConfig, error) {
	cfg := &TestConfig{IdleTimeout: DefaultIdleTimeout}
	seen := make(map[string]bool, len(entries))
	haveStart, haveEnd := false, false

	if idleTimeout != nil {
		if *idleTimeout <= 0 {
			return nil, ValidationError{Field: "timeout", Message: "must be positive"}
		}
		cfg.IdleTimeout = time.Duration(*idleTimeout) * time.Second
	}

	for _, e := range entries {
		if seen[e.key] {
			return nil, ValidationError{Field: e.key, Message: "duplicate block"}
		}
		seen[e.key] = true

		switch e.key {
		case "start":
			spec, err := buildSpec(e, true)
			if err != nil {
				return nil, err
			}
			spec.Timeout = DefaultStartTimeout
			if e.block.Timeout != nil {
				if *e.block.Timeout <= 0 {
					return nil, ValidationError{Field: "start.timeout", Message: "must be positive"}
				}
				spec.Timeout = time.Duration(*e.block.Timeout) * time.Second
			}
			cfg.Start = spec
			haveStart = true

		case "end":
			// The end block carries only a prompt; a response here is
			// ignored since no reply is sent on end match.
			if e.block.Prompt == nil || *e.block.Prompt == "" {
				return nil, ValidationError{Field: "end.prompt", Message: "required field is empty"}
			}
			cfg.End = PromptSpec{Name: "end", Prompt: []byte(*e.block.Prompt)}
			haveEnd = true

		default:
			spec, err := buildSpec(e, true)
			if err != nil {
				return nil, err
			}
			cfg.Users = append(cfg.Users, spec)
		}
	}

	if !haveStart {
		return nil, ValidationError{Field: "start", Message: "required block is missing"}
	}
	if !haveEnd {
		return nil, ValidationError{Field: "end", Message: "required block is missing"}
	}

	return cfg, nil
}

// buildSpec validates a prompt/response block and converts it to a PromptSpec.
func buildSpec(e entry, needResponse bool) (PromptSpec, error) {
	if e.block.Prompt == nil || *e.block.Prompt == "" {
		return PromptSpec{}, ValidationError{Field: e.key + ".prompt", Message: "required field is empty"}
	}
	if needResponse && e.block.Response == nil {
		return PromptSpec{}, ValidationError{Field: e.key + ".response", Message: "required field is missing"}
	}

	spec := PromptSpec{Name: e.key, Prompt: []byte(*e.block.Prompt)}
	if e.block.Response != nil {
		spec.Response = []byte(*e.block.Response)
	}
	return spec, nil
}
