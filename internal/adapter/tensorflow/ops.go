// Package tensorflow runs a Keras SavedModel in-process through the graft
// TensorFlow bindings. The bindings need libtensorflow and cgo, so the real
// implementation is only compiled with the "tensorflow" build tag.
package tensorflow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Keshavsspppp/municipality/internal/infrastructure/config"
)

// ErrNotCompiled is returned when the binary was built without the tensorflow tag
var ErrNotCompiled = errors.New("built without tensorflow support (rebuild with -tags tensorflow)")

// Options locate the SavedModel and its input and output tensors
type Options struct {
	Dir      string
	Tags     []string
	InputOp  string
	OutputOp string
}

// OptionsFromConfig maps model config onto loader options
func OptionsFromConfig(cfg *config.ModelConfig) Options {
	tags := cfg.Tags
	if len(tags) == 0 {
		tags = []string{"serve"}
	}
	return Options{
		Dir:      cfg.SavedModel,
		Tags:     tags,
		InputOp:  cfg.InputOp,
		OutputOp: cfg.OutputOp,
	}
}

// parseOp splits "name:index" into its parts; the index defaults to 0
func parseOp(ref string) (string, int, error) {
	if ref == "" {
		return "", 0, fmt.Errorf("empty operation name")
	}
	name, idx, found := strings.Cut(ref, ":")
	if !found {
		return ref, 0, nil
	}
	if name == "" {
		return "", 0, fmt.Errorf("empty operation name in %q", ref)
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("invalid output index in %q", ref)
	}
	return name, n, nil
}
