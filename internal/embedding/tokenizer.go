package embedding

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"github.com/sugarme/tokenizer/processor"
)

const (
	tokenUnknown = "[UNK]"
	tokenCLS     = "[CLS]"
	tokenSEP     = "[SEP]"

	defaultMaxTokens = 256
)

// Tokenizer is an uncased BERT WordPiece tokenizer.
type Tokenizer struct {
	tk *tokenizer.Tokenizer
}

// Encoded holds the model inputs for one text.
type Encoded struct {
	IDs           []int64
	TypeIDs       []int64
	AttentionMask []int64
}

// LoadTokenizer accepts either a HuggingFace tokenizer.json or a BERT
// vocab.txt with one token per line, where the line number is the token id.
func LoadTokenizer(path string, maxTokens int) (*Tokenizer, error) {
	if maxTokens < 3 {
		maxTokens = defaultMaxTokens
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		tk, err := pretrained.FromFile(path)
		if err != nil {
			return nil, err
		}
		return newTokenizer(tk, maxTokens), nil
	}

	model, err := wordpiece.NewWordPieceFromFile(path, tokenUnknown)
	if err != nil {
		return nil, err
	}
	tk := tokenizer.NewTokenizer(model)
	if _, ok := tk.TokenToId(tokenUnknown); !ok {
		return nil, fmt.Errorf("vocab is missing %s", tokenUnknown)
	}
	clsID, ok := tk.TokenToId(tokenCLS)
	if !ok {
		return nil, fmt.Errorf("vocab is missing %s", tokenCLS)
	}
	sepID, ok := tk.TokenToId(tokenSEP)
	if !ok {
		return nil, fmt.Errorf("vocab is missing %s", tokenSEP)
	}

	tk.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	tk.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())
	tk.WithPostProcessor(processor.NewBertProcessing(
		processor.PostToken{Id: sepID, Value: tokenSEP},
		processor.PostToken{Id: clsID, Value: tokenCLS},
	))
	return newTokenizer(tk, maxTokens), nil
}

func newTokenizer(tk *tokenizer.Tokenizer, maxTokens int) *Tokenizer {
	tk.WithTruncation(&tokenizer.TruncationParams{
		MaxLength: maxTokens,
		Strategy:  tokenizer.LongestFirst,
	})
	return &Tokenizer{tk: tk}
}

// Encode returns [CLS] wordpieces [SEP], truncated to the token limit.
func (t *Tokenizer) Encode(text string) (Encoded, error) {
	en, err := t.tk.EncodeSingle(text, true)
	if err != nil {
		return Encoded{}, fmt.Errorf("tokenize: %w", err)
	}
	mask := en.AttentionMask
	if len(mask) != len(en.Ids) {
		mask = make([]int, len(en.Ids))
		for i := range mask {
			mask[i] = 1
		}
	}
	types := en.TypeIds
	if len(types) != len(en.Ids) {
		types = make([]int, len(en.Ids))
	}
	return Encoded{
		IDs:           toInt64(en.Ids),
		TypeIDs:       toInt64(types),
		AttentionMask: toInt64(mask),
	}, nil
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
