// Package fallback provides deterministic canned responses used whenever
// generation or validation fails.
//
// Responses are keyed first by the classification's topic tags, then by
// category. No external calls, cannot fail.
package fallback

import (
	"strings"

	"github.com/richinex/sibyl/model"
)

// Responder serves pre-written substitute answers.
type Responder struct {
	byTopic map[string]string
}

// New creates a responder seeded with the built-in topic answers.
func New() *Responder {
	return &Responder{
		byTopic: map[string]string{
			"pydantic": pydanticAnswer,
		},
	}
}

// Register adds or replaces the canned answer for a topic.
func (r *Responder) Register(topic, answer string) {
	r.byTopic[strings.ToLower(topic)] = answer
}

// Respond returns the canned answer for the classification. Topic tags are
// checked in order; the first match wins. With no topic match the category
// selects a generic answer.
func (r *Responder) Respond(classification model.Classification) string {
	for _, topic := range classification.Topics {
		if answer, ok := r.byTopic[strings.ToLower(topic)]; ok {
			return answer
		}
	}

	switch classification.Category {
	case model.CategoryTechnical:
		return technicalAnswer
	default:
		return generalAnswer
	}
}

const technicalAnswer = "I'm currently unable to provide detailed coding assistance. " +
	"I recommend checking the official documentation for your programming " +
	"language or framework, and trying your question again in a few moments."

const generalAnswer = "I can't complete this request right now. " +
	"Please try your question again, or rephrase it differently."

const pydanticAnswer = `# Pydantic Overview

Pydantic is a Python library that provides data validation and settings
management using Python type annotations.

## Key Features
- **Data Validation**: automatic validation of data types
- **Type Safety**: leverages Python type hints
- **JSON Schema**: auto-generation of JSON schemas
- **Performance**: fast validation with a Rust core

## Basic Example
` + "```python" + `
from pydantic import BaseModel

class User(BaseModel):
    name: str
    age: int
    email: str

user = User(name="John", age=30, email="john@example.com")
print(user.name)  # John
` + "```" + `

## Common Use Cases
1. **API Development**: validate request/response data
2. **Configuration Management**: type-safe settings
3. **Data Processing**: clean and validate incoming data

## Best Practices
- Use descriptive field names
- Add validation constraints with Field() where needed
- Use validators for custom logic
- Handle validation errors gracefully

For more detail, visit https://docs.pydantic.dev/`
