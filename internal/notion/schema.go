package notion

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed block.schema.json
var blockSchema []byte

// ErrInvalidPayload is matched by every payload validation failure.
var ErrInvalidPayload = errors.New("invalid block payload")

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// PayloadError lists the schema violations of an append batch.
type PayloadError struct {
	Issues []Issue
}

func (e *PayloadError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%v: %v", location, issue.Message))
	}
	return fmt.Sprintf("%v: %v", ErrInvalidPayload, strings.Join(parts, "; "))
}

func (e *PayloadError) Unwrap() error { return ErrInvalidPayload }

// Validator checks append batches against the block schema before they are
// sent.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded block schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("block.schema.json", bytes.NewReader(blockSchema)); err != nil {
		return nil, fmt.Errorf("load block schema: %w", err)
	}
	schema, err := compiler.Compile("block.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile block schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks one batch of blocks, as it would be sent.
func (v *Validator) Validate(blocks []Block) error {
	data, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode blocks: %w", err)
	}
	err = v.schema.Validate(doc)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return &PayloadError{Issues: collectIssues(verr)}
	}
	return err
}

func collectIssues(err *jsonschema.ValidationError) (issues []Issue) {
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: node.InstanceLocation,
				Message:  node.Message,
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
