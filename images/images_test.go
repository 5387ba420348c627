package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flanksource/informe/api"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unknown format %s", format)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    extension.Type
		wantErr bool
	}{
		{name: "jpeg", data: encode(t, "jpeg", 8, 6), want: extension.Jpg},
		{name: "png", data: encode(t, "png", 8, 6), want: extension.Png},
		{name: "gif", data: encode(t, "gif", 8, 6), wantErr: true},
		{name: "text", data: []byte("not an image at all"), wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.data)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedEncoding), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	res := Decode("a.png", encode(t, "png", 40, 30))
	require.True(t, res.OK())
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
	assert.Equal(t, extension.Png, res.Encoding)

	// PNG magic followed by garbage passes detection but not decoding
	broken := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("garbage")...)
	res = Decode("broken.png", broken)
	assert.False(t, res.OK())
	var rerr *ResolveError
	require.True(t, errors.As(res.Err, &rerr))
	assert.Equal(t, StageDecode, rerr.Stage)
	assert.Equal(t, api.ImageRef("broken.png"), rerr.Ref)
}

func TestLoad(t *testing.T) {
	r := MapResolver{"ok.jpg": encode(t, "jpeg", 16, 9), "anim.gif": encode(t, "gif", 4, 4)}

	res := Load(context.Background(), r, "ok.jpg")
	require.True(t, res.OK())
	assert.Equal(t, extension.Jpg, res.Encoding)

	res = Load(context.Background(), r, "anim.gif")
	var rerr *ResolveError
	require.True(t, errors.As(res.Err, &rerr))
	assert.Equal(t, StageDetect, rerr.Stage)
	assert.True(t, errors.Is(res.Err, ErrUnsupportedEncoding))
	assert.Empty(t, res.Data)

	res = Load(context.Background(), r, "missing.jpg")
	require.True(t, errors.As(res.Err, &rerr))
	assert.Equal(t, StageFetch, rerr.Stage)
}

func TestFetcherHTTP(t *testing.T) {
	jpg := encode(t, "jpeg", 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.jpg":
			assert.Equal(t, "informe", r.Header.Get("User-Agent"))
			_, _ = w.Write(jpg)
		case "/large":
			_, _ = w.Write(make([]byte, 2048))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher("", 5*time.Second)
	data, err := f.Resolve(context.Background(), api.ImageRef(srv.URL+"/photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, jpg, data)

	_, err = f.Resolve(context.Background(), api.ImageRef(srv.URL+"/nope"))
	assert.ErrorContains(t, err, "HTTP 404")

	f.MaxBytes = 1024
	_, err = f.Resolve(context.Background(), api.ImageRef(srv.URL+"/large"))
	assert.ErrorContains(t, err, "exceeds 1024 bytes")
}

func TestFetcherFiles(t *testing.T) {
	dir := t.TempDir()
	png := encode(t, "png", 5, 5)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roof.png"), png, 0o644))

	f := NewFetcher(dir, time.Second)
	data, err := f.Resolve(context.Background(), "roof.png")
	require.NoError(t, err)
	assert.Equal(t, png, data)

	data, err = f.Resolve(context.Background(), api.ImageRef("file://"+filepath.Join(dir, "roof.png")))
	require.NoError(t, err)
	assert.Equal(t, png, data)

	_, err = f.Resolve(context.Background(), "missing.png")
	assert.ErrorContains(t, err, "not found")

	_, err = f.Resolve(context.Background(), "  ")
	assert.Error(t, err)
}

func TestPrefetchKeepsOrder(t *testing.T) {
	var inflight, peak atomic.Int32
	r := ResolverFunc(func(ctx context.Context, ref api.ImageRef) ([]byte, error) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		// later refs finish first
		var idx int
		_, _ = fmt.Sscanf(ref.String(), "p%d", &idx)
		time.Sleep(time.Duration(10-idx) * 3 * time.Millisecond)
		if idx%3 == 0 {
			return nil, fmt.Errorf("boom %d", idx)
		}
		return encode(t, "png", idx+1, 1), nil
	})

	var refs []api.ImageRef
	for i := 0; i < 10; i++ {
		refs = append(refs, api.ImageRef(fmt.Sprintf("p%d", i)))
	}
	results := Prefetch(context.Background(), r, refs, Options{Concurrency: 3})
	require.Len(t, results, 10)
	for i, res := range results {
		assert.Equal(t, refs[i], res.Ref)
		if i%3 == 0 {
			assert.False(t, res.OK())
			continue
		}
		require.True(t, res.OK(), "p%d: %v", i, res.Err)
		assert.Equal(t, i+1, res.Width)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestPrefetchTimeouts(t *testing.T) {
	png := encode(t, "png", 2, 2)
	r := ResolverFunc(func(ctx context.Context, ref api.ImageRef) ([]byte, error) {
		if ref == "slow" {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
			}
		}
		return png, nil
	})

	results := Prefetch(context.Background(), r, []api.ImageRef{"fast", "slow", "fast2"},
		Options{Concurrency: 3, PerImageTimeout: 50 * time.Millisecond})
	assert.True(t, results[0].OK())
	assert.True(t, errors.Is(results[1].Err, context.DeadlineExceeded))
	assert.True(t, results[2].OK())

	assert.Empty(t, Prefetch(context.Background(), r, nil, DefaultOptions()))
}

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100">
  <g><rect x="10" y="10" width="180" height="80" fill="#0c4a6e"/></g>
</svg>`

func TestRasterizeSVG(t *testing.T) {
	out, err := RasterizeSVG([]byte(logoSVG), 400)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)

	_, err = RasterizeSVG([]byte("<svg><"), 100)
	assert.Error(t, err)
}

func TestLoadLogo(t *testing.T) {
	r := MapResolver{"logo.svg": []byte(logoSVG), "logo.png": encode(t, "png", 30, 10)}

	res := LoadLogo(context.Background(), r, "logo.svg", 300)
	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, extension.Png, res.Encoding)
	assert.Equal(t, 300, res.Width)

	res = LoadLogo(context.Background(), r, "logo.png", 300)
	require.True(t, res.OK())
	assert.Equal(t, 30, res.Width)

	assert.True(t, IsSVG([]byte(logoSVG)))
	assert.False(t, IsSVG(encode(t, "png", 2, 2)))
}
