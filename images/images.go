// Package images resolves photo references to validated raster bytes.
//
// Only JPEG and PNG leave this package; anything else is reported as a
// per-image failure so layout can skip it.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"

	"github.com/flanksource/informe/api"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// ErrUnsupportedEncoding is returned for bytes that are not JPEG or PNG.
var ErrUnsupportedEncoding = errors.New("unsupported image encoding")

// Stage names the step of resolution that failed.
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageDetect Stage = "detect"
	StageDecode Stage = "decode"
)

// ResolveError is a failure to turn a reference into a drawable image.
type ResolveError struct {
	Ref   api.ImageRef
	Stage Stage
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Ref, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolver fetches the raw bytes behind a reference.
type Resolver interface {
	Resolve(ctx context.Context, ref api.ImageRef) ([]byte, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, ref api.ImageRef) ([]byte, error)

func (f ResolverFunc) Resolve(ctx context.Context, ref api.ImageRef) ([]byte, error) {
	return f(ctx, ref)
}

// MapResolver serves bytes from memory.
type MapResolver map[api.ImageRef][]byte

func (m MapResolver) Resolve(_ context.Context, ref api.ImageRef) ([]byte, error) {
	data, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("image %s not found", ref)
	}
	return data, nil
}

// Result is the outcome of resolving one reference. Err is set on failure
// and the other fields are then zero, apart from Ref.
type Result struct {
	Ref      api.ImageRef
	Data     []byte
	Encoding extension.Type
	Width    int
	Height   int
	Err      error
}

// OK reports whether the image can be drawn.
func (r Result) OK() bool {
	return r.Err == nil && len(r.Data) > 0
}

// Load resolves ref, checks its encoding and reads its pixel dimensions.
func Load(ctx context.Context, r Resolver, ref api.ImageRef) Result {
	data, err := r.Resolve(ctx, ref)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return Result{Ref: ref, Err: &ResolveError{Ref: ref, Stage: StageFetch, Err: err}}
	}
	return Decode(ref, data)
}

// Decode validates already fetched bytes.
func Decode(ref api.ImageRef, data []byte) Result {
	encoding, err := Detect(data)
	if err != nil {
		return Result{Ref: ref, Err: &ResolveError{Ref: ref, Stage: StageDetect, Err: err}}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{Ref: ref, Err: &ResolveError{Ref: ref, Stage: StageDecode, Err: err}}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{Ref: ref, Err: &ResolveError{Ref: ref, Stage: StageDecode, Err: fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)}}
	}
	return Result{Ref: ref, Data: data, Encoding: encoding, Width: cfg.Width, Height: cfg.Height}
}
