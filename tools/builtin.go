package tools

import (
	"time"
)

// BuiltinConfig wires the built-in tool set.
type BuiltinConfig struct {
	WorkspaceRoot string
	Calendar      CalendarConfig
	Web           WebConfig
	ExecTimeout   time.Duration
}

// RegisterBuiltins registers every built-in tool on the registry. The
// returned workspace is shared by the file and document tools.
func RegisterBuiltins(r *Registry, cfg BuiltinConfig) (*Workspace, error) {
	ws, err := NewWorkspace(cfg.WorkspaceRoot)
	if err != nil {
		return nil, err
	}

	builtins := []Tool{
		ReadFile(ws),
		WriteFile(ws),
		ListDirectory(ws),
		CreateDirectory(ws),
		DeleteFile(ws),
		ExtractText(ws),
		AnalyzeDocument(ws),
		WebSearch(cfg.Web),
		FetchURL(cfg.Web),
		CreateEvent(cfg.Calendar),
		ListEvents(cfg.Calendar),
		DeleteEvent(cfg.Calendar),
		ExecuteCode(ExecConfig{Timeout: cfg.ExecTimeout, WorkDir: ws.Root}),
	}
	for _, tool := range builtins {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return ws, nil
}
