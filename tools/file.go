package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace anchors relative tool paths under a single root directory.
// Absolute paths are honored as-is; validating them is the caller's
// responsibility.
type Workspace struct {
	Root string
}

// NewWorkspace expands and creates the root directory.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("workspace: resolve home: %w", err)
		}
		root = filepath.Join(home, "TraydeskWorkspace")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create root: %w", err)
	}
	return &Workspace{Root: root}, nil
}

// Resolve maps a tool-supplied path onto the workspace.
func (w *Workspace) Resolve(path string) string {
	if path == "" {
		return w.Root
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(w.Root, path)
}

// ReadFile creates the read_file tool.
func ReadFile(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"file_path": StringProperty("Path to the file, relative to the workspace unless absolute"),
	}, []string{"file_path"})

	return NewTool(
		"read_file",
		"Read content from a file",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			path := ws.Resolve(stringParam(params, "file_path", ""))
			content, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, fmt.Errorf("file not found: %s", path)
				}
				return nil, err
			}
			return map[string]any{
				"path":    path,
				"content": string(content),
				"size":    len(content),
			}, nil
		},
	)
}

// WriteFile creates the write_file tool. Parent directories are created
// as needed; the append flag switches to append mode.
func WriteFile(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"file_path": StringProperty("Destination path, relative to the workspace unless absolute"),
		"content":   StringProperty("Content to write"),
		"append":    BooleanProperty("Append instead of overwrite"),
	}, []string{"file_path", "content"})

	return NewTool(
		"write_file",
		"Write content to a file",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			path := ws.Resolve(stringParam(params, "file_path", ""))
			content := stringParam(params, "content", "")
			appendMode := boolParam(params, "append", false)

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, err
			}

			flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			mode := "written"
			if appendMode {
				flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
				mode = "appended"
			}
			f, err := os.OpenFile(path, flags, 0o644)
			if err != nil {
				return nil, err
			}
			defer f.Close()

			n, err := f.WriteString(content)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"path":          path,
				"bytes_written": n,
				"mode":          mode,
			}, nil
		},
	)
}

// ListDirectory creates the list_directory tool. With no dir_path it lists
// the workspace root.
func ListDirectory(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"dir_path": StringProperty("Directory to list, relative to the workspace unless absolute"),
	}, nil)

	return NewTool(
		"list_directory",
		"List contents of a directory",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			dir := ws.Resolve(stringParam(params, "dir_path", ""))
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}

			items := make([]map[string]any, 0, len(entries))
			for _, entry := range entries {
				item := map[string]any{
					"name": entry.Name(),
					"type": "file",
				}
				if entry.IsDir() {
					item["type"] = "directory"
				} else if info, err := entry.Info(); err == nil {
					item["size"] = info.Size()
				}
				items = append(items, item)
			}
			return map[string]any{
				"path":  dir,
				"items": items,
				"count": len(items),
			}, nil
		},
	)
}

// CreateDirectory creates the create_directory tool.
func CreateDirectory(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"dir_path": StringProperty("Directory to create, relative to the workspace unless absolute"),
	}, []string{"dir_path"})

	return NewTool(
		"create_directory",
		"Create a directory, including parents",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			dir := ws.Resolve(stringParam(params, "dir_path", ""))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
			return map[string]any{"path": dir}, nil
		},
	)
}

// DeleteFile creates the delete_file tool. It refuses directories.
func DeleteFile(ws *Workspace) Tool {
	schema := ObjectSchema(map[string]*PropertySchema{
		"file_path": StringProperty("File to delete, relative to the workspace unless absolute"),
	}, []string{"file_path"})

	return NewTool(
		"delete_file",
		"Delete a single file",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			path := ws.Resolve(stringParam(params, "file_path", ""))
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				return nil, fmt.Errorf("not a file or doesn't exist: %s", path)
			}
			if err := os.Remove(path); err != nil {
				return nil, err
			}
			return map[string]any{"path": path}, nil
		},
	)
}
