//go:build tensorflow

package tensorflow

import (
	"context"
	"fmt"

	tf "github.com/wamuir/graft/tensorflow"

	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/imaging"
)

// Classifier runs predictions through a loaded SavedModel
type Classifier struct {
	model  *tf.SavedModel
	input  tf.Output
	output tf.Output
}

// Load reads the SavedModel and resolves its input and output tensors
func Load(opts Options) (*Classifier, error) {
	model, err := tf.LoadSavedModel(opts.Dir, opts.Tags, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved model from %s: %w", opts.Dir, err)
	}

	input, err := resolve(model.Graph, opts.InputOp)
	if err != nil {
		_ = model.Session.Close()
		return nil, err
	}
	output, err := resolve(model.Graph, opts.OutputOp)
	if err != nil {
		_ = model.Session.Close()
		return nil, err
	}

	return &Classifier{model: model, input: input, output: output}, nil
}

func resolve(graph *tf.Graph, ref string) (tf.Output, error) {
	name, index, err := parseOp(ref)
	if err != nil {
		return tf.Output{}, err
	}
	op := graph.Operation(name)
	if op == nil {
		return tf.Output{}, fmt.Errorf("operation %q not found in graph", name)
	}
	if index >= op.NumOutputs() {
		return tf.Output{}, fmt.Errorf("operation %q has no output %d", name, index)
	}
	return op.Output(index), nil
}

var _ service.ImageClassifier = (*Classifier)(nil)

// Predict runs a single forward pass
func (c *Classifier) Predict(ctx context.Context, batch imaging.Batch) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tensor, err := tf.NewTensor(batch.Nested())
	if err != nil {
		return 0, fmt.Errorf("failed to build input tensor: %w", err)
	}

	out, err := c.model.Session.Run(
		map[tf.Output]*tf.Tensor{c.input: tensor},
		[]tf.Output{c.output},
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("session run failed: %w", err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("model returned no outputs")
	}

	switch v := out[0].Value().(type) {
	case [][]float32:
		if len(v) == 0 || len(v[0]) == 0 {
			return 0, fmt.Errorf("model returned empty output")
		}
		return float64(v[0][0]), nil
	case []float32:
		if len(v) == 0 {
			return 0, fmt.Errorf("model returned empty output")
		}
		return float64(v[0]), nil
	default:
		return 0, fmt.Errorf("unexpected output type %T", v)
	}
}

// Ready always succeeds once the model is loaded
func (c *Classifier) Ready(context.Context) error {
	return nil
}

// Name returns the backend name
func (c *Classifier) Name() string {
	return "tensorflow"
}

// Close releases the session
func (c *Classifier) Close() error {
	return c.model.Session.Close()
}
