package pdf

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

func newTestBuilder() *Builder {
	return NewBuilder(zap.NewNop())
}

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

// makeTextPDF writes a PDF with the given number of text lines and returns
// its path. With the default layout 47 lines fit on a page.
func makeTextPDF(t *testing.T, b *Builder, dir, name string, lines int) string {
	t.Helper()
	content := make([]string, lines)
	for i := range content {
		content[i] = fmt.Sprintf("line %d", i+1)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, b.TextToPDF(strings.Join(content, "\n"), path, DefaultLayout()))
	return path
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    PageSize
		wantErr bool
	}{
		{name: "default", token: "", want: PageA4},
		{name: "a4 lowercase", token: "a4", want: PageA4},
		{name: "letter", token: "Letter", want: PageLetter},
		{name: "unknown", token: "legal", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePageSize(tc.token)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestImagesToPDF(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "second.jpg")
	writeTestImage(t, first, 640, 480)
	writeTestImage(t, second, 200, 800)

	outPath := filepath.Join(dir, "out.pdf")
	err := b.ImagesToPDF([]string{first, second}, outPath, DefaultLayout())
	require.NoError(t, err)

	info, err := b.Info(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
}

func TestImagesToPDFSkipsInvalidPaths(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.png")
	writeTestImage(t, valid, 100, 100)

	unsupported := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unsupported, []byte("hello"), 0o644))

	outPath := filepath.Join(dir, "out.pdf")
	err := b.ImagesToPDF([]string{
		filepath.Join(dir, "missing.png"),
		unsupported,
		valid,
	}, outPath, DefaultLayout())
	require.NoError(t, err)

	info, err := b.Info(outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, info.PageCount)
}

func TestImagesToPDFNoValidInput(t *testing.T) {
	b := newTestBuilder()
	outPath := filepath.Join(t.TempDir(), "out.pdf")

	err := b.ImagesToPDF(nil, outPath, DefaultLayout())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoValidInput))

	err = b.ImagesToPDF([]string{"/nonexistent/a.png"}, outPath, DefaultLayout())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoValidInput))
}

func TestImagesToPDFCorruptImageAborts(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.png")
	writeTestImage(t, valid, 100, 100)
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))

	outPath := filepath.Join(dir, "out.pdf")
	err := b.ImagesToPDF([]string{valid, corrupt}, outPath, DefaultLayout())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrImageProcessing))

	// No partial output on abort.
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFitRect(t *testing.T) {
	w, h := fitRect(800, 600, 400, 400)
	assert.InDelta(t, 400, w, 0.01)
	assert.InDelta(t, 300, h, 0.01)

	// Small images are scaled up to fill the page area.
	w, h = fitRect(100, 100, 400, 300)
	assert.InDelta(t, 300, w, 0.01)
	assert.InDelta(t, 300, h, 0.01)
}

func TestTextToPDF(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	path := makeTextPDF(t, b, dir, "single.pdf", 10)
	info, err := b.Info(path)
	require.NoError(t, err)
	assert.Equal(t, 1, info.PageCount)

	// 47 lines per page with the default layout.
	path = makeTextPDF(t, b, dir, "multi.pdf", 5*47)
	info, err = b.Info(path)
	require.NoError(t, err)
	assert.Equal(t, 5, info.PageCount)
}

func TestTextToPDFEmptyContent(t *testing.T) {
	b := newTestBuilder()

	err := b.TextToPDF("", filepath.Join(t.TempDir(), "out.pdf"), DefaultLayout())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrEmptyContent))
}

func TestMerge(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	first := makeTextPDF(t, b, dir, "first.pdf", 10)
	second := makeTextPDF(t, b, dir, "second.pdf", 2*47)

	outPath := filepath.Join(dir, "merged.pdf")
	require.NoError(t, b.Merge([]string{first, "/nonexistent/skip.pdf", second}, outPath))

	info, err := b.Info(outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, info.PageCount)
}

func TestMergeNoValidInput(t *testing.T) {
	b := newTestBuilder()

	err := b.Merge([]string{"/nonexistent/a.pdf", "/nonexistent/b.pdf"},
		filepath.Join(t.TempDir(), "merged.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoValidInput))
}

func TestSplitSelectedPages(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	input := makeTextPDF(t, b, dir, "input.pdf", 5*47)
	info, err := b.Info(input)
	require.NoError(t, err)
	require.Equal(t, 5, info.PageCount)

	outDir := filepath.Join(dir, "pages")
	created, err := b.Split(input, outDir, []int{2, 4, 99})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, filepath.Join(outDir, "page_0002.pdf"), created[0])
	assert.Equal(t, filepath.Join(outDir, "page_0004.pdf"), created[1])

	for _, p := range created {
		pageInfo, err := b.Info(p)
		require.NoError(t, err)
		assert.Equal(t, 1, pageInfo.PageCount)
	}
}

func TestSplitAllPages(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	input := makeTextPDF(t, b, dir, "input.pdf", 3*47)
	created, err := b.Split(input, filepath.Join(dir, "pages"), nil)
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestSplitNoValidPages(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	input := makeTextPDF(t, b, dir, "input.pdf", 10)
	_, err := b.Split(input, filepath.Join(dir, "pages"), []int{0, 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoValidPages))
}

func TestSplitMissingInput(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Split("/nonexistent/input.pdf", t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSourceNotFound))
}

func TestOptimize(t *testing.T) {
	b := newTestBuilder()
	dir := t.TempDir()

	path := makeTextPDF(t, b, dir, "input.pdf", 47)
	require.NoError(t, b.Optimize(path))

	info, err := b.Info(path)
	require.NoError(t, err)
	assert.Equal(t, 1, info.PageCount)
}
