package handler

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/mateconpizza/gp/internal/prompt"
)

// command names, as used by the front-end bridge.
const (
	CmdGetAllPrompts      = "get_all_prompts"
	CmdSearchPrompts      = "search_prompts"
	CmdSavePrompt         = "save_prompt"
	CmdUpdatePrompt       = "update_prompt"
	CmdDeletePrompt       = "delete_prompt"
	CmdUpdateLastUsed     = "update_last_used"
	CmdPasteToClipboard   = "paste_to_clipboard"
	CmdReorderPrompts     = "reorder_prompts"
	CmdGetAutostartStatus = "get_autostart_status"
	CmdSetAutostart       = "set_autostart"
	CmdUsePrompt          = "use_prompt"
	CmdGetTags            = "get_tags"
)

// Request is one command invocation.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response carries either a result or a flat, human-readable error.
type Response struct {
	ID     string `json:"id,omitempty"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the command succeeded.
func (r *Response) OK() bool {
	return r.Error == ""
}

type (
	queryArgs struct {
		Query string `json:"query"`
	}

	saveArgs struct {
		Prompt prompt.Input `json:"prompt"`
	}

	updateArgs struct {
		ID     int64        `json:"id"`
		Prompt prompt.Input `json:"prompt"`
	}

	idArgs struct {
		ID int64 `json:"id"`
	}

	contentArgs struct {
		Content string `json:"content"`
	}

	reorderArgs struct {
		PromptIDs []int64 `json:"prompt_ids"`
	}

	autostartArgs struct {
		Enable bool `json:"enable"`
	}
)

// Dispatch runs req and flattens any error into the response.
func (h *Handler) Dispatch(ctx context.Context, req Request) Response {
	res, err := h.call(ctx, req)
	if err != nil {
		slog.Debug("command failed", "command", req.Command, "error", err)
		return Response{ID: req.ID, Error: err.Error()}
	}

	return Response{ID: req.ID, Result: res}
}

func (h *Handler) call(ctx context.Context, req Request) (any, error) {
	switch req.Command {
	case CmdGetAllPrompts:
		return h.GetAllPrompts(ctx)

	case CmdSearchPrompts:
		var a queryArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return h.SearchPrompts(ctx, a.Query)

	case CmdSavePrompt:
		var a saveArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return nil, h.SavePrompt(ctx, a.Prompt)

	case CmdUpdatePrompt:
		var a updateArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return nil, h.UpdatePrompt(ctx, a.ID, a.Prompt)

	case CmdDeletePrompt:
		var a idArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return nil, h.DeletePrompt(ctx, a.ID)

	case CmdUpdateLastUsed:
		var a idArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return nil, h.UpdateLastUsed(ctx, a.ID)

	case CmdPasteToClipboard:
		var a contentArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return h.PasteToClipboard(a.Content)

	case CmdReorderPrompts:
		var a reorderArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return nil, h.ReorderPrompts(ctx, a.PromptIDs)

	case CmdGetAutostartStatus:
		return h.GetAutostartStatus()

	case CmdSetAutostart:
		var a autostartArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return nil, h.SetAutostart(a.Enable)

	case CmdUsePrompt:
		var a idArgs
		if err := decodeArgs(req, &a); err != nil {
			return nil, err
		}

		return h.UsePrompt(ctx, a.ID)

	case CmdGetTags:
		return h.GetTags(ctx)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
}

func decodeArgs(req Request, v any) error {
	if len(req.Args) == 0 {
		return fmt.Errorf("%w: %s: missing args", ErrInvalidArgs, req.Command)
	}

	if err := json.Unmarshal(req.Args, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgs, req.Command, err)
	}

	return nil
}
