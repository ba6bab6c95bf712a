package quizgen

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionSchemaURL = "quizai://question.schema.json"

// questionSchemaJSON describes the minimum shape of one quiz element.
// Field types are left open; the validator coerces them to text.
const questionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["question", "options", "answer", "explanation"],
  "properties": {
    "options": {
      "type": "object",
      "minProperties": 2,
      "propertyNames": {"minLength": 1}
    }
  }
}`

// questionSchema is compiled once at init; a broken literal is a programming
// error.
var questionSchema = mustCompileSchema(questionSchemaURL, questionSchemaJSON)

func mustCompileSchema(url, src string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		panic(fmt.Sprintf("quizgen: decode schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("quizgen: add schema: %v", err))
	}
	sch, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("quizgen: compile schema: %v", err))
	}
	return sch
}

// checkElement validates one raw array element against the question schema
// and returns a one-line reason on failure.
func checkElement(raw string) error {
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return err
	}
	if err := questionSchema.Validate(inst); err != nil {
		return fmt.Errorf("%s", flattenSchemaError(err))
	}
	return nil
}

// flattenSchemaError keeps the leaf messages of a multi-line schema error.
func flattenSchemaError(err error) string {
	var parts []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			parts = append(parts, strings.TrimPrefix(line, "- "))
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(err.Error())
	}
	return strings.Join(parts, "; ")
}
