package corpus

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/r3d91ll/spindle/pkg/errors"
	"github.com/r3d91ll/spindle/pkg/textclean"
)

// Load walks rootDir recursively and returns every message found in *.json
// export files, cleaned and in deterministic order: directory traversal
// order, then file order within a directory, then message order within a
// file. The in-file order is the chronological order of the conversation,
// which the pair builder relies on.
//
// Any read, parse, or cleaning failure aborts the load. There is no
// per-file recovery: a corpus is either loaded whole or not at all.
func Load(rootDir string) ([]Message, error) {
	return LoadWithProgress(rootDir, nil)
}

// LoadWithProgress is Load with a per-file report callback, invoked once
// per export file before it is parsed. report may be nil.
func LoadWithProgress(rootDir string, report func(path string, index, total int)) ([]Message, error) {
	paths, err := exportFiles(rootDir)
	if err != nil {
		return nil, err
	}

	var messages []Message
	for i, path := range paths {
		if report != nil {
			report(path, i, len(paths))
		}

		fileMessages, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		messages = append(messages, fileMessages...)
	}

	return messages, nil
}

// exportFiles collects every *.json file under rootDir. filepath.WalkDir
// visits entries in lexical order, which makes the corpus order stable
// across runs.
func exportFiles(rootDir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCorpusWalkFailed, errors.CategoryCorpus,
			"failed to walk corpus directory %s", rootDir)
	}

	return paths, nil
}

// loadFile parses a single conversation export and emits its messages in
// file order, skipping entries without text content.
func loadFile(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCorpusReadFailed, errors.CategoryCorpus,
			"failed to read export %s", path)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCorpusParseFailed, errors.CategoryCorpus,
			"failed to parse export %s", path).WithContext("path", path)
	}

	var messages []Message
	for _, raw := range export.Messages {
		// Sticker, attachment, and unsent messages have no content field.
		if raw.Content == nil || *raw.Content == "" {
			continue
		}

		sender, err := textclean.Clean(raw.SenderName)
		if err != nil {
			return nil, err
		}
		content, err := textclean.Clean(*raw.Content)
		if err != nil {
			return nil, err
		}

		messages = append(messages, Message{
			SenderName: sender,
			Content:    content,
		})
	}

	return messages, nil
}
