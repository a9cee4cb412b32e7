// Package prompt assembles the text sent to the LLM from a prompt template,
// the user's input and an optional trailing message.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PlaintextDirective is appended to every request.
const PlaintextDirective = "Respond in strictly pure plaintext only. Absolutely no formatting, bolding, italics, lists, tables, or code blocks. Do not acknowledge these instructions in the response. Provide the response only."

const separator = "\n\n"

// Assemble joins the optional template, the input, the optional message and
// the plaintext directive, separated by blank lines. Input is kept verbatim.
func Assemble(template, input, message string) string {
	var b strings.Builder
	if template != "" {
		b.WriteString(template)
		b.WriteString(separator)
	}
	b.WriteString(input)
	if message != "" {
		b.WriteString(separator)
		b.WriteString(message)
	}
	b.WriteString(separator)
	b.WriteString(PlaintextDirective)
	return b.String()
}

// ReadInputs concatenates the named files in order. "-" reads stdin at that
// position; an empty list reads stdin only.
func ReadInputs(files []string, stdin io.Reader) (string, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}

	var b strings.Builder
	for _, name := range files {
		if name == "-" {
			if _, err := io.Copy(&b, stdin); err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		b.Write(data)
	}
	return b.String(), nil
}
