package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	prompt "github.com/c-bata/go-prompt"
)

type PromptSuggester = func(in prompt.Document) []prompt.Suggest

const promptPrefix = ">>> "

// Input reads one line from the user. exitFn runs on ctrl-c.
func Input(p string, exitFn func(error)) (string, error) {
	o, restore, err := prepareInputState(exitFn)
	if err != nil {
		return "", err
	}
	defer restore()

	return strings.TrimSpace(prompt.Input(p, completerDummy(), o...)), nil
}

// InputTags reads a whitespace separated list of tags, suggesting the known
// ones with their usage count. exitFn runs on ctrl-c.
func InputTags(p string, tags map[string]int, exitFn func(error)) (string, error) {
	o, restore, err := prepareInputState(exitFn)
	if err != nil {
		return "", err
	}
	defer restore()

	if p == "" {
		p = promptPrefix
	}

	return strings.TrimSpace(prompt.Input(p, completerTagsWithCount(tags), o...)), nil
}

// Confirm asks q on w and reads the answer from r. An empty answer picks
// def.
func Confirm(r io.Reader, w io.Writer, q, def string) bool {
	opts := "[y/N]"
	if strings.EqualFold(def, "y") {
		opts = "[Y/n]"
	}

	sc := bufio.NewScanner(r)
	for {
		fmt.Fprintf(w, "%s %s ", q, opts)
		if !sc.Scan() {
			fmt.Fprintln(w)
			return false
		}

		s := strings.ToLower(strings.TrimSpace(sc.Text()))
		if s == "" {
			s = strings.ToLower(def)
		}

		switch s {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}

		fmt.Fprintln(w, "invalid response. use: [y]es [n]o")
	}
}

// prepareInputState saves the terminal state; the returned func restores it.
func prepareInputState(exitFn func(error)) (o []prompt.Option, restore func(), err error) {
	// go-prompt leaves the terminal in raw mode on exit.
	// https://github.com/c-bata/go-prompt/issues/233
	if err := saveState(); err != nil {
		return nil, nil, err
	}

	o = promptOptions()
	o = append(o, prompt.OptionAddKeyBind(quitKeybind(exitFn)))

	restore = func() {
		_ = restoreState()
	}

	return o, restore, nil
}

func promptOptions() []prompt.Option {
	return []prompt.Option{
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionInputTextColor(prompt.DefaultColor),
		prompt.OptionSuggestionBGColor(prompt.Black),
		prompt.OptionDescriptionBGColor(prompt.Black),
		prompt.OptionSuggestionTextColor(prompt.White),
		prompt.OptionDescriptionTextColor(prompt.White),
		prompt.OptionSelectedSuggestionTextColor(prompt.Color(prompt.DisplayBold)),
		prompt.OptionSelectedDescriptionTextColor(prompt.Color(prompt.DisplayBold)),
		prompt.OptionSelectedSuggestionBGColor(prompt.White),
		prompt.OptionSelectedDescriptionBGColor(prompt.White),
		prompt.OptionScrollbarBGColor(prompt.DefaultColor),
		prompt.OptionScrollbarThumbColor(prompt.LightGray),
	}
}

// completerDummy generates an empty list of suggestions.
func completerDummy() PromptSuggester {
	return func(prompt.Document) []prompt.Suggest {
		return nil
	}
}

// completerTagsWithCount suggests tags with their count as description,
// matching the word before the cursor by prefix.
func completerTagsWithCount(m map[string]int) PromptSuggester {
	sg := tagSuggestions(m)

	return func(in prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(sg, in.GetWordBeforeCursor(), true)
	}
}

func tagSuggestions(m map[string]int) []prompt.Suggest {
	sg := make([]prompt.Suggest, 0, len(m))
	for t, n := range m {
		sg = append(sg, prompt.Suggest{
			Text:        t,
			Description: fmt.Sprintf("(%d)", n),
		})
	}

	return sg
}

// quitKeybind restores the terminal and hands ErrActionAborted to f.
func quitKeybind(f func(error)) prompt.KeyBind {
	return prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(*prompt.Buffer) {
			if termState != nil {
				if err := restoreState(); err != nil {
					f(err)
				}
			}

			f(ErrActionAborted)
		},
	}
}
