package vocab

import (
	"encoding/json"
	"os"

	"github.com/r3d91ll/spindle/pkg/errors"
)

// mapperFile is the serialized form of a Mapper. Indices are dense, so the
// token list in index order carries the whole mapping.
type mapperFile struct {
	Tokens []string `json:"tokens"`
}

// Save writes the mapping to path as JSON so a later run can reuse it.
func (m *Mapper) Save(path string) error {
	data, err := json.MarshalIndent(mapperFile{Tokens: m.Tokens()}, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrVocabSaveFailed, errors.CategoryVocab,
			"failed to marshal vocabulary")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrVocabSaveFailed, errors.CategoryVocab,
			"failed to write vocabulary %s", path)
	}
	return nil
}

// LoadMapper reads a mapping previously written with Save.
func LoadMapper(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrVocabLoadFailed, errors.CategoryVocab,
			"failed to read vocabulary %s", path)
	}

	var file mapperFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, errors.ErrVocabLoadFailed, errors.CategoryVocab,
			"failed to parse vocabulary %s", path)
	}

	m := &Mapper{
		tokenToIndex: make(map[string]int, len(file.Tokens)),
		indexToToken: make(map[int]string, len(file.Tokens)),
	}
	for i, tok := range file.Tokens {
		m.tokenToIndex[tok] = i
		m.indexToToken[i] = tok
	}
	return m, nil
}
