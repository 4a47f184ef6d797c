// Package shell provides the interactive dataset inspector for Spindle.
package shell

import (
	"strings"

	"github.com/chzyer/readline"

	"github.com/r3d91ll/spindle/pkg/dataset"
)

// commands is the static list of available shell commands (without the / prefix).
var commands = []string{
	"quit",
	"exit",
	"q",
	"help",
	"h",
	"stats",
	"pair",
	"vocab",
	"index",
	"token",
}

// tokenCommands is the list of commands that expect vocabulary tokens as
// arguments. These commands trigger token tab completion for their arguments.
var tokenCommands = []string{
	"index",
}

// ShellCompleter provides tab completion for commands and vocabulary tokens.
// It implements the readline.AutoCompleter interface.
type ShellCompleter struct {
	ds *dataset.Dataset
}

// NewShellCompleter creates a new completer with access to the dataset for
// dynamic vocabulary completion.
func NewShellCompleter(ds *dataset.Dataset) *ShellCompleter {
	return &ShellCompleter{ds: ds}
}

// Ensure ShellCompleter implements readline.AutoCompleter at compile time.
var _ readline.AutoCompleter = (*ShellCompleter)(nil)

// Do implements readline.AutoCompleter.
// It provides completions for:
//   - Commands starting with "/" (e.g., /stats, /vocab)
//   - Vocabulary tokens as arguments to token-expecting commands
//
// Returns all candidate completions as suffixes after the common prefix,
// and the number of characters in that prefix.
func (c *ShellCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if len(line) == 0 || pos <= 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}

	lineStr := string(line[:pos])

	wordStart := findWordStart(lineStr)
	currentWord := lineStr[wordStart:]
	if currentWord == "" {
		return nil, 0
	}

	if strings.HasPrefix(currentWord, "/") {
		return c.completeCommand(currentWord)
	}

	if c.isTokenCommandContext(lineStr, wordStart) {
		return c.completeToken(currentWord)
	}

	return nil, 0
}

// findWordStart returns the index where the current word begins: the
// position after the last space or tab, or 0 if the line has neither.
func findWordStart(s string) int {
	lastSpace := strings.LastIndex(s, " ")
	lastTab := strings.LastIndex(s, "\t")

	wordStart := lastSpace
	if lastTab > wordStart {
		wordStart = lastTab
	}
	return wordStart + 1
}

// isTokenCommandContext checks if the line contains a token-expecting
// command before the current word position.
func (c *ShellCompleter) isTokenCommandContext(line string, wordStart int) bool {
	beforeWord := strings.TrimRight(line[:wordStart], " \t")

	if !strings.HasPrefix(beforeWord, "/") {
		lastCmdIdx := strings.LastIndex(beforeWord, "/")
		if lastCmdIdx == -1 {
			return false
		}
		beforeWord = beforeWord[lastCmdIdx:]
	}

	cmdName := strings.TrimPrefix(beforeWord, "/")
	if spaceIdx := strings.IndexAny(cmdName, " \t"); spaceIdx != -1 {
		cmdName = cmdName[:spaceIdx]
	}

	for _, tokenCmd := range tokenCommands {
		if cmdName == tokenCmd {
			return true
		}
	}
	return false
}

// completeCommand returns completions for commands starting with the given
// prefix. The prefix includes the leading "/" character.
func (c *ShellCompleter) completeCommand(prefix string) ([][]rune, int) {
	cmdPrefix := strings.TrimPrefix(prefix, "/")

	var matches [][]rune
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, cmdPrefix) {
			suffix := cmd[len(cmdPrefix):] + " "
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}

// completeToken returns completions for vocabulary tokens starting with the
// given prefix. Tokens are fetched from the dataset's input vocabulary.
func (c *ShellCompleter) completeToken(prefix string) ([][]rune, int) {
	if c.ds == nil || c.ds.InputVocab == nil {
		return nil, 0
	}

	var matches [][]rune
	for _, tok := range c.ds.InputVocab.Tokens() {
		if strings.HasPrefix(tok, prefix) {
			suffix := tok[len(prefix):] + " "
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}
