// Package handler is the command layer between a front-end and the prompt
// store. Each named command maps 1:1 to a store or system operation; errors
// are flattened to text here and nowhere else.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mateconpizza/gp/internal/prompt"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrNoClipboard    = errors.New("clipboard not available")
	ErrNoAutostart    = errors.New("autostart not available")
)

// Store is the prompt store as seen by the command layer.
type Store interface {
	List(ctx context.Context) ([]*prompt.Prompt, error)
	Search(ctx context.Context, query string) ([]*prompt.Prompt, error)
	ByID(ctx context.Context, id int64) (*prompt.Prompt, error)
	Insert(ctx context.Context, in prompt.Input) (int64, error)
	Update(ctx context.Context, id int64, in prompt.Input) error
	Delete(ctx context.Context, id int64) error
	TouchLastUsed(ctx context.Context, id int64) error
	Reorder(ctx context.Context, ids []int64) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(s string) error
}

// Autostart toggles launching the app at login.
type Autostart interface {
	Enabled() (bool, error)
	Set(enable bool) error
}

// Handler dispatches named commands to its collaborators.
type Handler struct {
	store          Store
	clipboard      Clipboard
	autostart      Autostart
	maxRequestSize int
}

// Option configures a Handler.
type Option func(*Handler)

func WithClipboard(c Clipboard) Option {
	return func(h *Handler) {
		h.clipboard = c
	}
}

func WithAutostart(a Autostart) Option {
	return func(h *Handler) {
		h.autostart = a
	}
}

// WithMaxRequestSize sets the longest request line Serve accepts, in bytes.
func WithMaxRequestSize(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxRequestSize = n
		}
	}
}

// New returns a Handler over the given store.
func New(s Store, opts ...Option) *Handler {
	h := &Handler{store: s, maxRequestSize: defaultMaxRequestSize}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// GetAllPrompts returns every prompt in display order.
func (h *Handler) GetAllPrompts(ctx context.Context) ([]*prompt.Prompt, error) {
	return h.store.List(ctx)
}

// SearchPrompts returns prompts matching query.
func (h *Handler) SearchPrompts(ctx context.Context, query string) ([]*prompt.Prompt, error) {
	return h.store.Search(ctx, query)
}

// SavePrompt stores a new prompt as given.
func (h *Handler) SavePrompt(ctx context.Context, in prompt.Input) error {
	_, err := h.store.Insert(ctx, in)

	return err
}

// UpdatePrompt overwrites the prompt with the given id.
func (h *Handler) UpdatePrompt(ctx context.Context, id int64, in prompt.Input) error {
	return h.store.Update(ctx, id, in)
}

// DeletePrompt removes the prompt with the given id.
func (h *Handler) DeletePrompt(ctx context.Context, id int64) error {
	return h.store.Delete(ctx, id)
}

// UpdateLastUsed marks the prompt as just used.
func (h *Handler) UpdateLastUsed(ctx context.Context, id int64) error {
	return h.store.TouchLastUsed(ctx, id)
}

// ReorderPrompts assigns sort order by position.
func (h *Handler) ReorderPrompts(ctx context.Context, ids []int64) error {
	return h.store.Reorder(ctx, ids)
}

// PasteToClipboard copies content to the clipboard.
func (h *Handler) PasteToClipboard(content string) (string, error) {
	if h.clipboard == nil {
		return "", ErrNoClipboard
	}

	if err := h.clipboard.WriteAll(content); err != nil {
		return "", fmt.Errorf("failed to set clipboard content: %w", err)
	}

	return "Prompt copied to clipboard!", nil
}

// UsePrompt copies the prompt content to the clipboard and marks it used.
func (h *Handler) UsePrompt(ctx context.Context, id int64) (*prompt.Prompt, error) {
	p, err := h.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := h.PasteToClipboard(p.Content); err != nil {
		return nil, err
	}

	if err := h.store.TouchLastUsed(ctx, id); err != nil {
		return nil, err
	}

	slog.Debug("prompt used", "id", id)

	return p, nil
}

// GetTags returns usage statistics of every tag.
func (h *Handler) GetTags(ctx context.Context) ([]prompt.TagStat, error) {
	ps, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}

	return prompt.Stats(ps), nil
}

// GetAutostartStatus reports whether autostart is enabled.
func (h *Handler) GetAutostartStatus() (bool, error) {
	if h.autostart == nil {
		return false, nil
	}

	return h.autostart.Enabled()
}

// SetAutostart enables or disables autostart.
func (h *Handler) SetAutostart(enable bool) error {
	if h.autostart == nil {
		return ErrNoAutostart
	}

	return h.autostart.Set(enable)
}
