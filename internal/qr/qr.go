// Package qr renders prompt content as QR-Codes, in the terminal or as a
// labelled PNG.
package qr

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrQRFileNotFound = errors.New("QR-Code file not found")
	ErrQRNotGenerated = errors.New("QR-Code not generated")
	ErrQRTooLong      = errors.New("content too long for a QR-Code")
)

// levels are tried in order until the content fits.
var levels = []qrcode.RecoveryLevel{qrcode.High, qrcode.Medium, qrcode.Low}

// QRCode represents a QR-Code.
type QRCode struct {
	QR   *qrcode.QRCode
	From string
	file string
}

// New creates a new QR-Code.
func New(s string) *QRCode {
	return &QRCode{From: s}
}

// Generate encodes From, lowering error recovery when the content is too
// long for the higher levels.
func (q *QRCode) Generate() error {
	var err error
	for _, lvl := range levels {
		q.QR, err = qrcode.New(q.From, lvl)
		if err == nil {
			return nil
		}
		slog.Debug("qr-code does not fit", "level", lvl, "len", len(q.From))
	}

	return fmt.Errorf("%w: %d bytes: %w", ErrQRTooLong, len(q.From), err)
}

// String renders the QR-Code with half blocks, for the terminal.
func (q *QRCode) String() string {
	if q.QR == nil {
		return ""
	}

	return q.QR.ToSmallString(true)
}

// GenerateImg writes the PNG into dir, named after prefix.
func (q *QRCode) GenerateImg(dir, prefix string) (string, error) {
	if q.QR == nil {
		return "", ErrQRNotGenerated
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating qr path: %w", err)
	}

	f, err := os.CreateTemp(dir, prefix+"-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := q.QR.WriteFile(imgSize, f.Name()); err != nil {
		return "", fmt.Errorf("writing qr-code: %w", err)
	}
	q.file = f.Name()

	return q.file, nil
}

// Label adds a label to the image, at the top or the bottom.
func (q *QRCode) Label(s, pos string) error {
	if q.file == "" {
		return ErrQRFileNotFound
	}

	return addLabel(q.file, s, pos)
}

// Open opens the image in the system default viewer.
func (q *QRCode) Open() error {
	if q.file == "" {
		return ErrQRFileNotFound
	}

	if err := browser.OpenFile(q.file); err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(q.file), err)
	}

	return nil
}
