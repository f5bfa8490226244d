package menu

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	shellwords "github.com/junegunn/go-shellwords"
)

var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// appendKeytoHeader appends a key:desc string to the header slice.
func appendKeytoHeader(opts []string, key, desc string) []string {
	if !menuConfig.Header.Enabled {
		return opts
	}

	return append(opts, fmt.Sprintf("%s:%s", key, desc))
}

// defaultPreprocessor shows an item with its default format.
func defaultPreprocessor[T any](t *T) string {
	return fmt.Sprintf("%+v", *t)
}

// formatItems sends each formatted item to the returned channel, closing it
// when done.
func formatItems[T any](items []T, preprocessor func(*T) string) chan string {
	inputChan := make(chan string)
	go func() {
		for i := range items {
			inputChan <- preprocessor(&items[i])
		}
		close(inputChan)
	}()

	return inputChan
}

// processOutput maps each line fzf prints back to its item and sends the
// selection to resultChan once outputChan is closed.
func processOutput[T any](
	items []T,
	preprocessor func(*T) string,
	outputChan <-chan string,
	resultChan chan<- []T,
) {
	var result []T
	ogItem := make(map[string]T, len(items))

	for i := range items {
		ogItem[removeANSI(preprocessor(&items[i]))] = items[i]
	}

	for s := range outputChan {
		if item, exists := ogItem[removeANSI(s)]; exists {
			result = append(result, item)
		}
	}

	resultChan <- result
}

// loadHeader appends the joined header to args.
func loadHeader(header []string, args *FzfSettings) {
	if len(header) == 0 {
		return
	}

	h := strings.Join(header, menuConfig.Header.Sep)
	*args = append(*args, "--header="+h)
}

// loadKeybind appends a comma-separated --bind argument to args.
func loadKeybind(keybind []string, args *FzfSettings) error {
	if len(keybind) == 0 {
		return nil
	}

	keys := strings.Join(keybind, ",")
	a, err := shellwords.Parse(fmt.Sprintf("%s='%s'", "--bind", keys))
	if err != nil {
		return fmt.Errorf("parsing keybinds args: %w", err)
	}
	*args = append(*args, a...)

	return nil
}

func removeANSI(s string) string {
	return ansiCodes.ReplaceAllString(s, "")
}

// handleFzfErr returns an error based on the exit code of fzf.
//
//	0      Normal exit
//	1      No match
//	2      Error
//	126    Permission denied error from become action
//	127    Invalid shell command for become action
//	130    Interrupted with CTRL-C or ESC
func handleFzfErr(retcode int) error {
	switch retcode {
	case 0:
		return nil
	case 1:
		return ErrFzfNoMatching
	case 2:
		return ErrFzf
	case 126:
		return ErrFzfInvalidShellCommand
	case 127:
		return ErrFzfPermissionDenied
	case 130:
		return ErrFzfActionAborted
	}

	return fmt.Errorf("%w: %d", ErrFzfReturnCode, retcode)
}

// selectFromItems runs fzf with the menu items and returns the selection.
func selectFromItems[T comparable](m *Menu[T]) ([]T, error) {
	if len(m.items) == 0 {
		return nil, ErrFzfNoItems
	}

	if m.preprocessor == nil {
		slog.Debug("preprocessor is nil, using default")
		m.preprocessor = defaultPreprocessor[T]
	}

	slog.Debug("menu args", "args", m.settings)

	options, err := m.runner.Parse(m.defaults, m.settings)
	if err != nil {
		return nil, fmt.Errorf("fzf: %w", err)
	}

	outputChan := make(chan string)
	resultChan := make(chan []T, 1)
	go processOutput(m.items, m.preprocessor, outputChan, resultChan)

	options.Input = formatItems(m.items, m.preprocessor)
	options.Output = outputChan

	retcode, err := m.runner.Run(options)
	close(outputChan)
	result := <-resultChan

	if retcode != 0 {
		return nil, handleFzfErr(retcode)
	}

	if err != nil {
		return nil, fmt.Errorf("fzf: %w", err)
	}

	return result, nil
}
