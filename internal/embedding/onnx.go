package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const DefaultONNXModelID = "all-MiniLM-L6-v2"

type ONNXConfig struct {
	ModelID       string
	ModelPath     string
	VocabPath     string
	SharedLibPath string
	MaxTokens     int
}

// ONNXEmbedder runs a sentence-transformers encoder exported to ONNX and
// mean-pools the last hidden state over the input tokens.
type ONNXEmbedder struct {
	mu sync.Mutex

	cfg       ONNXConfig
	tokenizer *Tokenizer

	session     *ort.DynamicAdvancedSession
	inputNames  []string
	outputName  string
	hiddenSize  int64
	initialized bool
}

// NewONNXEmbedder loads the vocabulary eagerly; the runtime session is
// created on first use.
func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultONNXModelID
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("onnx model: %w", err)
	}
	tok, err := LoadTokenizer(cfg.VocabPath, cfg.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("load vocab: %w", err)
	}
	return &ONNXEmbedder{cfg: cfg, tokenizer: tok}, nil
}

func (e *ONNXEmbedder) ModelID() string { return e.cfg.ModelID }

// initOnce loads the shared library, environment and session.
// Callers hold e.mu.
func (e *ONNXEmbedder) initOnce() error {
	if e.initialized {
		return nil
	}
	if e.cfg.SharedLibPath != "" {
		ort.SetSharedLibraryPath(e.cfg.SharedLibPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("onnx init environment: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(e.cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return errors.New("onnx model has no inputs or outputs")
	}

	e.inputNames = e.inputNames[:0]
	for _, in := range inputs {
		switch in.Name {
		case "input_ids", "attention_mask", "token_type_ids":
			e.inputNames = append(e.inputNames, in.Name)
		default:
			return fmt.Errorf("onnx model has unsupported input %q", in.Name)
		}
	}

	out := outputs[0]
	for _, o := range outputs {
		if o.Name == "last_hidden_state" {
			out = o
			break
		}
	}
	dims := out.Dimensions
	if len(dims) != 3 || dims[2] <= 0 {
		return fmt.Errorf("onnx output %q has unexpected shape %v", out.Name, dims)
	}
	e.outputName = out.Name
	e.hiddenSize = dims[2]

	session, err := ort.NewDynamicAdvancedSession(e.cfg.ModelPath, e.inputNames, []string{e.outputName}, nil)
	if err != nil {
		return fmt.Errorf("onnx new session: %w", err)
	}
	e.session = session
	e.initialized = true
	return nil
}

func (e *ONNXEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initOnce(); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.embedOne(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *ONNXEmbedder) embedOne(text string) ([]float32, error) {
	enc, err := e.tokenizer.Encode(text)
	if err != nil {
		return nil, err
	}
	seqLen := int64(len(enc.IDs))
	shape := ort.NewShape(1, seqLen)

	data := map[string][]int64{
		"input_ids":      enc.IDs,
		"attention_mask": enc.AttentionMask,
		"token_type_ids": enc.TypeIDs,
	}

	inputs := make([]ort.Value, 0, len(e.inputNames))
	defer func() {
		for _, v := range inputs {
			_ = v.Destroy()
		}
	}()
	for _, name := range e.inputNames {
		t, err := ort.NewTensor(shape, data[name])
		if err != nil {
			return nil, fmt.Errorf("onnx new input tensor: %w", err)
		}
		inputs = append(inputs, t)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, seqLen, e.hiddenSize))
	if err != nil {
		return nil, fmt.Errorf("onnx new output tensor: %w", err)
	}
	defer output.Destroy()

	if err := e.session.Run(inputs, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	return meanPool(output.GetData(), int(seqLen), int(e.hiddenSize)), nil
}

// meanPool averages a [seqLen, hidden] row-major matrix over its rows.
func meanPool(hidden []float32, seqLen, size int) []float32 {
	vec := make([]float32, size)
	if seqLen == 0 {
		return vec
	}
	for t := 0; t < seqLen; t++ {
		row := hidden[t*size : (t+1)*size]
		for i, v := range row {
			vec[i] += v
		}
	}
	for i := range vec {
		vec[i] /= float32(seqLen)
	}
	return vec
}

func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	e.initialized = false
	return err
}
