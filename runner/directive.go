package runner

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/traydesk/agents/schema"
)

// Directives are fenced blocks of the form:
//
//	```tool
//	{"tool": "read_file", "params": {"file_path": "notes.txt"}}
//	```
//
// A block must be fully self-contained. Anything that does not parse as
// this structure is treated as absent: the surrounding text stays part of
// the answer and no tool runs for that block.
var directivePattern = regexp.MustCompile("(?s)```tool\\s*\\n(.*?)```")

type rawDirective struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// ParseDirectives extracts tool-call directives from model output, in the
// order they appear. Malformed blocks are skipped, never fatal.
func ParseDirectives(text string) []schema.ToolCall {
	matches := directivePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	calls := make([]schema.ToolCall, 0, len(matches))
	for _, match := range matches {
		var directive rawDirective
		body := strings.TrimSpace(match[1])
		if err := json.Unmarshal([]byte(body), &directive); err != nil {
			continue
		}
		if directive.Tool == "" {
			continue
		}
		calls = append(calls, schema.ToolCall{
			ID:     uuid.New().String(),
			Name:   directive.Tool,
			Params: directive.Params,
		})
	}
	return calls
}
